package meshlog

import (
	"testing"
	"time"
)

func TestWithBackoff(t *testing.T) {
	t.Run("retries with delay until success", func(t *testing.T) {
		inner := &countingSink{failures: 2}
		s := WithBackoff(inner, 4, 5*time.Millisecond)

		start := time.Now()
		if err := s.Write(testRecord(LevelError, 0, "send failed")); err != nil {
			t.Fatalf("Write = %v, want eventual success", err)
		}
		elapsed := time.Since(start)

		if inner.Attempts() != 3 {
			t.Errorf("attempts = %d, want 3", inner.Attempts())
		}
		// Two failures mean at least baseDelay + 2*baseDelay of waiting.
		if elapsed < 15*time.Millisecond {
			t.Errorf("elapsed = %v, want at least 15ms of backoff", elapsed)
		}
	})

	t.Run("gives up after all attempts", func(t *testing.T) {
		inner := &countingSink{failures: 10}
		s := WithBackoff(inner, 2, time.Millisecond)

		if err := s.Write(testRecord(LevelError, 0, "send failed")); err == nil {
			t.Fatal("Write should fail once attempts are exhausted")
		}
		if inner.Attempts() != 2 {
			t.Errorf("attempts = %d, want 2", inner.Attempts())
		}
	})
}
