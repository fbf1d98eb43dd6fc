package meshlog

import (
	"context"
	"errors"

	"github.com/zoobzio/pipz"
)

// Sink consumes records fanned out by a Dispatcher.
//
// Sinks are the extensibility point of meshlog - they determine what happens
// to a record after it clears the dispatcher gate. Common sink patterns
// include:
//
//   - Writing to files or stdout/stderr
//   - Capturing wire traffic for later analysis
//   - Mirroring records into a test harness
//
// A dispatcher invokes every method of a registered sink while holding its
// own lock (internal records excepted, see InternalWriter), so sinks need no
// synchronization of their own. A sink shared across dispatchers or driven
// directly must be synchronized by the caller.
//
// Write receives every record that survives the dispatcher gate, including
// records above the sink's own save threshold; threshold handling is the
// sink's business because sinks may buffer what they do not persist. Write
// errors are dropped by the dispatcher - a logging call never fails the
// caller.
type Sink interface {
	// Write handles one record. Errors are informational only.
	Write(rec Record) error

	// SetLevel adjusts the sink's save threshold.
	SetLevel(level LogLevel)

	// SetTarget redirects sink output to the named destination. Sinks
	// without a redirectable destination return nil and ignore it.
	SetTarget(name string) error

	// Close releases held resources. A closed sink may discard writes.
	Close() error
}

// InternalWriter lets a sink report its own trouble mid-write. The dispatcher
// implements it: the report is fanned out at LevelInternal to every
// registered sink without re-taking the dispatcher lock.
type InternalWriter interface {
	WriteInternal(msg string, fields ...Field)
}

// InternalBinder is implemented by sinks that want an InternalWriter. The
// dispatcher binds itself at registration time, before the sink can receive
// its first record.
type InternalBinder interface {
	BindInternal(w InternalWriter)
}

// sinkEffect hoists a Sink's Write into a pipz processor so adapters can
// compose it with pipz primitives.
func sinkEffect(name pipz.Name, s Sink) pipz.Chainable[Record] {
	return pipz.Effect(name, func(_ context.Context, rec Record) error {
		return s.Write(rec)
	})
}

// pipelineSink runs records through a pipz pipeline and forwards every other
// Sink method to the wrapped sinks. All adapters return one of these, so
// adapters stack: WithRetry(WithTimeout(s, d), 3) retries the timed-out
// write.
type pipelineSink struct {
	proc   pipz.Chainable[Record]
	inners []Sink
}

func (p *pipelineSink) Write(rec Record) error {
	_, err := p.proc.Process(context.Background(), rec)
	return err
}

func (p *pipelineSink) SetLevel(level LogLevel) {
	for _, s := range p.inners {
		s.SetLevel(level)
	}
}

func (p *pipelineSink) SetTarget(name string) error {
	var err error
	for _, s := range p.inners {
		err = errors.Join(err, s.SetTarget(name))
	}
	return err
}

func (p *pipelineSink) Close() error {
	var err error
	for _, s := range p.inners {
		err = errors.Join(err, s.Close())
	}
	return err
}

// BindInternal forwards the writer to every wrapped sink that wants one.
func (p *pipelineSink) BindInternal(w InternalWriter) {
	for _, s := range p.inners {
		if b, ok := s.(InternalBinder); ok {
			b.BindInternal(w)
		}
	}
}
