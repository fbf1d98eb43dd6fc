package meshlog

import (
	"context"

	"github.com/zoobzio/pipz"
)

// WithFilter wraps s so it only receives records that pass the predicate.
// Records that fail are silently skipped for this sink; every other sink in
// the dispatcher still sees them.
//
// The predicate receives the full record, so it can select on level, node,
// message, or fields:
//
//	// Only persist traffic concerning one troublesome node
//	nodeSink := meshlog.WithFilter(capture, func(rec meshlog.Record) bool {
//	    return rec.Node == 12
//	})
//
//	// Keep the error file free of wire noise
//	errorsOnly := meshlog.WithFilter(fileSink, func(rec meshlog.Record) bool {
//	    return rec.Level <= meshlog.LevelError
//	})
//
// The predicate runs for every record that clears the dispatcher gate, so
// keep it cheap.
func WithFilter(s Sink, predicate func(Record) bool) Sink {
	return &pipelineSink{
		proc: pipz.NewFilter[Record]("filter",
			func(_ context.Context, rec Record) bool {
				return predicate(rec)
			},
			sinkEffect("sink", s)),
		inners: []Sink{s},
	}
}
