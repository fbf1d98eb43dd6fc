// Package meshlog is the logging dispatcher for the meshwire driver stack.
//
// Everything a driver, a protocol layer, or an application callback wants to
// log funnels through one Dispatcher: an ordered set of sinks behind a single
// mutex, gated by a severity threshold. That chokepoint is what makes log
// output from dozens of goroutines readable - every sink sees the same total
// order of records, and a record is fully delivered before the write returns.
//
// # Severity
//
// Records carry a LogLevel from LevelFatal down to LevelStreamDetail (raw
// wire frames). Thresholds are inclusive: a sink saving at LevelDetail keeps
// everything at LevelDetail and above in severity. LevelAlways records appear
// whenever logging is enabled at all; LevelInternal is reserved for sinks
// reporting their own trouble mid-write.
//
// # Basic Usage
//
// Most programs use the package-level default dispatcher:
//
//	meshlog.Create(meshlog.Options{LogFile: "driver.log", Console: true})
//	defer meshlog.Destroy()
//
//	meshlog.Info("driver ready", meshlog.String("port", "/dev/ttyUSB0"))
//	meshlog.WriteNode(meshlog.LevelDetail, 12, "neighbor update received",
//	    meshlog.Int("hops", 2))
//
// Create replaces any previous default, closing its sinks first, so a driver
// restart can safely re-create logging without leaking file handles.
//
// # Sinks
//
// The dispatcher starts with a FileSink built from Options. AddSink appends
// more; ReplaceSinks swaps the whole set:
//
//	d := meshlog.New(meshlog.Options{})
//	d.AddSink(meshlog.NewConsoleSink(os.Stderr))
//	d.AddSink(meshlog.WithRetry(meshlog.NewZstdFileSink("wire.zst"), 3))
//
// Adapters (WithFilter, WithRetry, WithBackoff, WithTimeout, WithFallback,
// WithSampling) wrap any sink with pipz-backed delivery policies.
//
// # Configuration
//
// LoadConfig reads the TOML surface the rest of the meshwire stack uses
// (log_file, save_level, queue_level, ...), honors MESHLOG_* environment
// overrides, and WatchConfig applies edits to a live dispatcher.
//
// Built on github.com/zoobzio/pipz for sink delivery pipelines.
package meshlog

import (
	"sync"
	"sync/atomic"
)

var (
	defaultMu sync.Mutex
	defaultD  atomic.Pointer[Dispatcher]
)

// Create installs a new default dispatcher built from opts and returns it.
// Any previous default is closed first, each of its sinks exactly once, so
// repeated Create calls never leak handles. The new dispatcher starts
// enabled.
func Create(opts Options) *Dispatcher {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if prev := defaultD.Load(); prev != nil {
		_ = prev.Close()
	}
	d := New(opts)
	defaultD.Store(d)
	return d
}

// Destroy closes and removes the default dispatcher. Safe to call when none
// exists. Package-level writes after Destroy are no-ops.
func Destroy() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	d := defaultD.Swap(nil)
	if d == nil {
		return nil
	}
	return d.Close()
}

// Default returns the default dispatcher, or nil when none is installed.
func Default() *Dispatcher {
	return defaultD.Load()
}

// Write logs through the default dispatcher; no-op when none exists.
func Write(level LogLevel, msg string, fields ...Field) {
	if d := defaultD.Load(); d != nil {
		d.Write(level, msg, fields...)
	}
}

// WriteNode logs a node-attributed record through the default dispatcher;
// no-op when none exists.
func WriteNode(level LogLevel, node NodeID, msg string, fields ...Field) {
	if d := defaultD.Load(); d != nil {
		d.WriteNode(level, node, msg, fields...)
	}
}

// AddSink appends a sink to the default dispatcher; no-op when none exists.
func AddSink(s Sink) {
	if d := defaultD.Load(); d != nil {
		d.AddSink(s)
	}
}

// ReplaceSinks swaps the default dispatcher's sink set; no-op when none
// exists.
func ReplaceSinks(sinks ...Sink) {
	if d := defaultD.Load(); d != nil {
		d.ReplaceSinks(sinks...)
	}
}

// SetEnabled flips the default dispatcher's logging flag; no-op when none
// exists.
func SetEnabled(enabled bool) {
	if d := defaultD.Load(); d != nil {
		d.SetEnabled(enabled)
	}
}

// SetLevel sets the save threshold on the default dispatcher and its sinks;
// no-op when none exists.
func SetLevel(level LogLevel) {
	if d := defaultD.Load(); d != nil {
		d.SetLevel(level)
	}
}

// Enabled reports the default dispatcher's logging flag; false when none
// exists.
func Enabled() bool {
	d := defaultD.Load()
	return d != nil && d.Enabled()
}

// SetTarget redirects the default dispatcher's sinks to a new output name;
// no-op when none exists.
func SetTarget(name string) {
	if d := defaultD.Load(); d != nil {
		d.SetTarget(name)
	}
}

// Fatal writes msg at LevelFatal through the default dispatcher.
func Fatal(msg string, fields ...Field) {
	Write(LevelFatal, msg, fields...)
}

// Error writes msg at LevelError through the default dispatcher.
func Error(msg string, fields ...Field) {
	Write(LevelError, msg, fields...)
}

// Warning writes msg at LevelWarning through the default dispatcher.
func Warning(msg string, fields ...Field) {
	Write(LevelWarning, msg, fields...)
}

// Alert writes msg at LevelAlert through the default dispatcher.
func Alert(msg string, fields ...Field) {
	Write(LevelAlert, msg, fields...)
}

// Info writes msg at LevelInfo through the default dispatcher.
func Info(msg string, fields ...Field) {
	Write(LevelInfo, msg, fields...)
}

// Detail writes msg at LevelDetail through the default dispatcher.
func Detail(msg string, fields ...Field) {
	Write(LevelDetail, msg, fields...)
}

// Debug writes msg at LevelDebug through the default dispatcher.
func Debug(msg string, fields ...Field) {
	Write(LevelDebug, msg, fields...)
}

// StreamDetail writes msg at LevelStreamDetail through the default
// dispatcher.
func StreamDetail(msg string, fields ...Field) {
	Write(LevelStreamDetail, msg, fields...)
}
