package meshlog

import (
	"time"

	"github.com/zoobzio/pipz"
)

// WithTimeout wraps s so a single write may not take longer than duration.
// A write that overruns is canceled via its context and reported as a
// timeout error (which the dispatcher drops like any sink error).
//
// Because fan-out is synchronous, one hung sink stalls every logging caller
// in the process. Bounding a sink that talks to removable or network-backed
// storage keeps the driver's worst case known:
//
//	sink := meshlog.WithTimeout(meshlog.NewFileSink("/mnt/nfs/driver.log"),
//	    2*time.Second)
//
// Adapter order matters when combining:
//
//	// retries the whole timed attempt
//	meshlog.WithRetry(meshlog.WithTimeout(s, time.Second), 3)
//
//	// times out each retry individually
//	meshlog.WithTimeout(meshlog.WithRetry(s, 3), time.Second)
//
// Sinks that ignore context cancellation can keep running past the timeout;
// the dispatcher just stops waiting for them.
func WithTimeout(s Sink, duration time.Duration) Sink {
	if duration <= 0 {
		duration = 30 * time.Second
	}

	return &pipelineSink{
		proc:   pipz.NewTimeout("timeout", sinkEffect("sink", s), duration),
		inners: []Sink{s},
	}
}
