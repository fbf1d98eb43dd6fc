package meshlog

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// DefaultLogFile is the file the default sink writes when Options.LogFile
// is empty.
const DefaultLogFile = "meshlog.log"

// Options configures the default file sink a new dispatcher starts with.
// The zero value is usable: it logs to DefaultLogFile, truncating on first
// write, saving LevelDetail and below, with no console echo.
type Options struct {
	// LogFile is the default sink's output path. Empty means DefaultLogFile.
	LogFile string

	// Append opens the log file for appending instead of truncating it at
	// first open.
	Append bool

	// Console echoes every saved line to stdout as well.
	Console bool

	// Level is the default sink's save threshold. LevelInvalid means
	// LevelDetail.
	Level LogLevel
}

// sink builds the default file sink described by the options.
func (o Options) sink() *FileSink {
	path := o.LogFile
	if path == "" {
		path = DefaultLogFile
	}
	level := o.Level
	if level == LevelInvalid {
		level = LevelDetail
	}
	fopts := []FileOption{FileAppend(o.Append), FileLevel(level)}
	if o.Console {
		fopts = append(fopts, FileConsoleEcho(os.Stdout))
	}
	return NewFileSink(path, fopts...)
}

// Dispatcher fans log records out to an ordered set of sinks.
//
// Every write from every goroutine passes through one dispatcher mutex, so
// sinks observe a single total order of records and never run concurrently
// with each other. Disabled or sink-less dispatchers reject writes with pure
// atomic reads, before any record is built.
//
//	d := meshlog.New(meshlog.Options{LogFile: "driver.log", Level: meshlog.LevelDebug})
//	defer d.Close()
//
//	d.Info("driver ready", meshlog.String("port", "/dev/ttyUSB0"))
//	d.WriteNode(meshlog.LevelDetail, 12, "neighbor update received")
//
// A Dispatcher must not be copied after first use.
type Dispatcher struct {
	mu     sync.Mutex
	sinks  []Sink       // registration order; mutated only under mu
	nsinks atomic.Int32 // mirrors len(sinks) for the lock-free gate

	enabled atomic.Bool
	closed  atomic.Bool
	session string
}

// New builds a dispatcher holding one default file sink per opts, enabled,
// with a fresh session ID. It never fails; file problems surface as internal
// records at write time.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{session: uuid.NewString()}
	s := opts.sink()
	d.bind(s)
	d.sinks = []Sink{s}
	d.nsinks.Store(1)
	d.enabled.Store(true)
	return d
}

// Session returns the dispatcher's session ID, announced with the
// "Logging started" record so log readers can correlate appended files.
func (d *Dispatcher) Session() string {
	return d.session
}

// Close closes every sink in registration order, each exactly once, and
// marks the dispatcher dead. Further writes and registry changes are no-ops.
// Close is idempotent; sink close errors are aggregated.
func (d *Dispatcher) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var err error
	for _, s := range d.sinks {
		err = errors.Join(err, s.Close())
	}
	d.sinks = nil
	d.nsinks.Store(0)
	return err
}

// AddSink appends s to the registry. Nil sinks are ignored; duplicates are
// allowed and will receive each record once per registration. Sinks
// implementing InternalBinder are bound to the dispatcher before they can
// see their first record.
func (d *Dispatcher) AddSink(s Sink) {
	if s == nil {
		return
	}
	d.bind(s)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return
	}
	d.sinks = append(d.sinks, s)
	d.nsinks.Store(int32(len(d.sinks)))
}

// ReplaceSinks closes every current sink exactly once, then installs the
// given sinks in order. Nil entries are skipped. ReplaceSinks with no
// arguments empties the registry, leaving the dispatcher alive but mute.
func (d *Dispatcher) ReplaceSinks(sinks ...Sink) {
	for _, s := range sinks {
		if s != nil {
			d.bind(s)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed.Load() {
		return
	}
	for _, old := range d.sinks {
		_ = old.Close()
	}
	d.sinks = d.sinks[:0]
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	d.nsinks.Store(int32(len(d.sinks)))
}

func (d *Dispatcher) bind(s Sink) {
	if b, ok := s.(InternalBinder); ok {
		b.BindInternal(d)
	}
}

// Write logs msg at the given level with no node origin.
func (d *Dispatcher) Write(level LogLevel, msg string, fields ...Field) {
	d.WriteNode(level, 0, msg, fields...)
}

// WriteNode logs msg at the given level, attributed to a mesh node (zero
// means no origin). The record reaches every sink in registration order
// before WriteNode returns. Sink write errors are dropped: logging never
// fails the caller.
//
// LevelInternal skips the dispatcher lock; it is reserved for sinks
// reporting trouble while a locked write is already in flight (see
// InternalWriter).
func (d *Dispatcher) WriteNode(level LogLevel, node NodeID, msg string, fields ...Field) {
	if !d.writable() {
		return
	}
	rec := NewRecord(level, node, msg, fields)
	if level == LevelInternal {
		d.fanOut(rec)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fanOut(rec)
}

// WriteInternal implements InternalWriter. It fans the message out at
// LevelInternal without taking the lock, for use by sinks the dispatcher is
// mid-write into.
func (d *Dispatcher) WriteInternal(msg string, fields ...Field) {
	d.WriteNode(LevelInternal, 0, msg, fields...)
}

// writable reports whether a write can proceed: alive, enabled, at least one
// sink. Pure atomics, so rejected writes cost no lock and no allocation.
func (d *Dispatcher) writable() bool {
	return !d.closed.Load() && d.enabled.Load() && d.nsinks.Load() > 0
}

// fanOut delivers rec to every sink in registration order. Non-internal
// callers hold d.mu; internal writes run on the goroutine that already
// holds it, so the slice cannot be mutated underneath either.
func (d *Dispatcher) fanOut(rec Record) {
	for _, s := range d.sinks {
		_ = s.Write(rec)
	}
}

// SetEnabled turns logging on or off. Turning it on when it was off emits
// exactly one LevelAlways "Logging started" record carrying the session ID,
// observed by whatever sinks are registered at that moment.
func (d *Dispatcher) SetEnabled(enabled bool) {
	prev := d.enabled.Swap(enabled)
	if enabled && !prev {
		d.announce()
	}
}

// SetLevel derives the enabled flag from level (anything above LevelAlways
// enables) and, while enabled, forwards level to every sink's SetLevel so
// the whole output set tracks one threshold. The false→true announcement
// rule of SetEnabled applies here too, after the thresholds are in place.
func (d *Dispatcher) SetLevel(level LogLevel) {
	enabled := level > LevelAlways
	prev := d.enabled.Swap(enabled)
	if enabled && !d.closed.Load() && d.nsinks.Load() > 0 {
		d.mu.Lock()
		for _, s := range d.sinks {
			s.SetLevel(level)
		}
		d.mu.Unlock()
	}
	if enabled && !prev {
		d.announce()
	}
}

// Enabled reports the dispatcher's logging flag. Lock-free; a closed
// dispatcher reports false.
func (d *Dispatcher) Enabled() bool {
	return !d.closed.Load() && d.enabled.Load()
}

// SetTarget forwards a new output destination to every sink's SetTarget.
// Sinks with a redirectable output (file sinks) close their current file and
// reopen under the new name on their next write.
func (d *Dispatcher) SetTarget(name string) {
	if !d.writable() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.sinks {
		_ = s.SetTarget(name)
	}
}

func (d *Dispatcher) announce() {
	d.Write(LevelAlways, "Logging started", String("session", d.session))
}

// Fatal writes msg at LevelFatal.
func (d *Dispatcher) Fatal(msg string, fields ...Field) {
	d.Write(LevelFatal, msg, fields...)
}

// Error writes msg at LevelError.
func (d *Dispatcher) Error(msg string, fields ...Field) {
	d.Write(LevelError, msg, fields...)
}

// Warning writes msg at LevelWarning.
func (d *Dispatcher) Warning(msg string, fields ...Field) {
	d.Write(LevelWarning, msg, fields...)
}

// Alert writes msg at LevelAlert.
func (d *Dispatcher) Alert(msg string, fields ...Field) {
	d.Write(LevelAlert, msg, fields...)
}

// Info writes msg at LevelInfo.
func (d *Dispatcher) Info(msg string, fields ...Field) {
	d.Write(LevelInfo, msg, fields...)
}

// Detail writes msg at LevelDetail.
func (d *Dispatcher) Detail(msg string, fields ...Field) {
	d.Write(LevelDetail, msg, fields...)
}

// Debug writes msg at LevelDebug.
func (d *Dispatcher) Debug(msg string, fields ...Field) {
	d.Write(LevelDebug, msg, fields...)
}

// StreamDetail writes msg at LevelStreamDetail, the per-frame wire level.
func (d *Dispatcher) StreamDetail(msg string, fields ...Field) {
	d.Write(LevelStreamDetail, msg, fields...)
}
