package meshlog

import (
	"math/rand"
	"sync/atomic"
)

// WithSampling wraps s so only a fraction of records reach it. Sampling is
// deterministic, counter-based: at rate 0.1 every 10th record passes, so the
// sampled stream keeps a steady cadence.
//
// This exists for LevelStreamDetail floods. A busy mesh can emit hundreds of
// frames a second; sampling keeps a representative capture without writing
// all of them:
//
//	capture := meshlog.WithSampling(meshlog.NewZstdFileSink("wire.zst"), 0.1)
//
// A rate at or below 0 drops every record (lifecycle calls still reach s); a
// rate at or above 1 returns s unchanged.
func WithSampling(s Sink, rate float64) Sink {
	if rate <= 0 {
		return WithFilter(s, func(Record) bool {
			return false
		})
	}
	if rate >= 1 {
		return s
	}

	var counter uint64
	interval := uint64(1.0 / rate)

	return WithFilter(s, func(Record) bool {
		return atomic.AddUint64(&counter, 1)%interval == 0
	})
}

// WithProbabilisticSampling wraps s so each record independently passes with
// the given probability.
//
// Counter sampling can miss entire bursts (a burst shorter than the interval
// may contribute nothing); random sampling trades the steady cadence for
// burst coverage. Same rate semantics as WithSampling.
func WithProbabilisticSampling(s Sink, rate float64) Sink {
	if rate <= 0 {
		return WithFilter(s, func(Record) bool {
			return false
		})
	}
	if rate >= 1 {
		return s
	}

	return WithFilter(s, func(Record) bool {
		return rand.Float64() < rate //nolint:gosec // Weak random is acceptable for sampling
	})
}
