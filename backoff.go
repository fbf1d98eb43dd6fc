package meshlog

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithBackoff wraps s so failed writes are retried with exponentially
// growing delays: baseDelay, then 2*baseDelay, 4*baseDelay, and so on
// between attempts.
//
// Prefer this over WithRetry when the destination needs time to come back,
// a remounting filesystem or a congested debug link rather than a transient
// hiccup:
//
//	sink := meshlog.WithBackoff(meshlog.NewFileSink("/mnt/sd/driver.log"),
//	    4, 100*time.Millisecond)
//
// Delivery blocks the dispatcher for the whole retry schedule, so keep
// maxAttempts and baseDelay small enough that a dead destination cannot
// stall logging for longer than you can tolerate.
func WithBackoff(s Sink, maxAttempts int, baseDelay time.Duration) Sink {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	return &pipelineSink{
		proc:   pipz.NewBackoff("backoff", sinkEffect("sink", s), maxAttempts, baseDelay),
		inners: []Sink{s},
	}
}
