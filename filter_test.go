package meshlog

import (
	"testing"
)

// binderTestSink records like testSink and accepts an InternalWriter, so
// adapter tests can verify the binding passes through wrappers.
type binderTestSink struct {
	testSink
	bound InternalWriter
}

func (s *binderTestSink) BindInternal(w InternalWriter) {
	s.bound = w
}

func TestWithFilter(t *testing.T) {
	t.Run("drops records failing the predicate", func(t *testing.T) {
		inner := &testSink{}
		filtered := WithFilter(inner, func(rec Record) bool {
			return rec.Node == 12
		})

		_ = filtered.Write(testRecord(LevelDetail, 12, "kept"))
		_ = filtered.Write(testRecord(LevelDetail, 3, "dropped"))

		recs := inner.Records()
		if len(recs) != 1 || recs[0].Message != "kept" {
			t.Errorf("inner records = %v, want only the node 12 record", recs)
		}
	})

	t.Run("level-based filtering", func(t *testing.T) {
		inner := &testSink{}
		errorsOnly := WithFilter(inner, func(rec Record) bool {
			return rec.Level <= LevelError
		})

		_ = errorsOnly.Write(testRecord(LevelFatal, 0, "kept"))
		_ = errorsOnly.Write(testRecord(LevelInfo, 0, "dropped"))

		if inner.Count() != 1 {
			t.Errorf("inner received %d records, want 1", inner.Count())
		}
	})

	t.Run("lifecycle reaches the wrapped sink", func(t *testing.T) {
		inner := &testSink{}
		filtered := WithFilter(inner, func(Record) bool { return true })

		filtered.SetLevel(LevelDebug)
		if levels := inner.Levels(); len(levels) != 1 || levels[0] != LevelDebug {
			t.Errorf("levels = %v, want [Debug]", levels)
		}

		if err := filtered.SetTarget("elsewhere.log"); err != nil {
			t.Fatalf("SetTarget = %v", err)
		}
		if targets := inner.Targets(); len(targets) != 1 || targets[0] != "elsewhere.log" {
			t.Errorf("targets = %v, want [elsewhere.log]", targets)
		}

		if err := filtered.Close(); err != nil {
			t.Fatalf("Close = %v", err)
		}
		if inner.Closes() != 1 {
			t.Errorf("inner closed %d times, want 1", inner.Closes())
		}
	})

	t.Run("internal binding passes through the wrapper", func(t *testing.T) {
		inner := &binderTestSink{}
		d, _ := newTestDispatcher(t)

		d.AddSink(WithFilter(inner, func(Record) bool { return true }))

		if inner.bound == nil {
			t.Fatal("wrapped sink was not bound")
		}
		if got, ok := inner.bound.(*Dispatcher); !ok || got != d {
			t.Error("wrapped sink bound to something other than the dispatcher")
		}
	})

	t.Run("adapters stack", func(t *testing.T) {
		inner := &testSink{}
		stacked := WithRetry(WithFilter(inner, func(Record) bool { return true }), 2)

		_ = stacked.Write(testRecord(LevelInfo, 0, "through both"))
		if inner.Count() != 1 {
			t.Errorf("inner received %d records, want 1", inner.Count())
		}

		_ = stacked.Close()
		if inner.Closes() != 1 {
			t.Errorf("inner closed %d times, want 1", inner.Closes())
		}
	})
}
