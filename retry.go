package meshlog

import (
	"github.com/zoobzio/pipz"
)

// WithRetry wraps s so failed writes are retried, up to attempts tries in
// total. Retries are immediate; use WithBackoff when the destination needs
// time to recover.
//
// Each attempt receives the same record. A sink on flaky storage (SD cards
// come to mind) often only needs a second try:
//
//	sink := meshlog.WithRetry(meshlog.NewFileSink("/mnt/sd/driver.log"), 3)
//
// If every attempt fails, the last error is returned and the dispatcher
// drops it like any other sink write error.
func WithRetry(s Sink, attempts int) Sink {
	if attempts < 1 {
		attempts = 1
	}

	return &pipelineSink{
		proc:   pipz.NewRetry("retry", sinkEffect("sink", s), attempts),
		inners: []Sink{s},
	}
}
