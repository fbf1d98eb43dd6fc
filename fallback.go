package meshlog

import (
	"github.com/zoobzio/pipz"
)

// WithFallback wraps two sinks so that when a write to primary fails, the
// same record is tried on secondary. If primary succeeds, secondary never
// sees the record.
//
// This keeps a log trail alive across storage failures, the classic pairing
// being persistent-but-fragile in front of volatile-but-safe:
//
//	sink := meshlog.WithFallback(
//	    meshlog.NewFileSink("/mnt/sd/driver.log"),
//	    meshlog.NewWriterSink(os.Stderr),
//	)
//
// Lifecycle calls (SetLevel, SetTarget, Close) reach both sinks; Close
// errors are aggregated.
func WithFallback(primary, secondary Sink) Sink {
	return &pipelineSink{
		proc: pipz.NewFallback("fallback",
			sinkEffect("primary", primary),
			sinkEffect("secondary", secondary)),
		inners: []Sink{primary, secondary},
	}
}
