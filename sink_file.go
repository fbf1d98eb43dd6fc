package meshlog

import (
	"fmt"
	"io"
	"os"
)

// FileSink writes plain-text log lines to a file. It is the sink every
// dispatcher starts with.
//
// The file is opened lazily on the first write, so constructing a dispatcher
// never fails on filesystem problems; an open failure is reported once
// through the bound InternalWriter and the sink stays quiet until SetTarget
// points it somewhere writable.
//
// A FileSink can keep a bounded ring of lines more verbose than its save
// threshold (see FileQueue). When a record at or above the trigger severity
// arrives, the ring is flushed to the file in a marked section before the
// triggering line, so the file carries the detailed lead-up to a problem
// without paying for verbose output the rest of the time.
//
// FileSink methods are serialized by the owning dispatcher and carry no lock
// of their own.
type FileSink struct {
	path     string
	file     *os.File
	appendTo bool
	closed   bool

	failed  bool // open already failed and was reported
	openErr error

	level LogLevel
	echo  io.Writer

	queue    []string
	queueCap int
	keep     LogLevel
	trigger  LogLevel

	internal InternalWriter
}

var (
	_ Sink           = (*FileSink)(nil)
	_ InternalBinder = (*FileSink)(nil)
)

// FileOption configures a FileSink using the functional options pattern.
type FileOption func(*FileSink)

// FileAppend controls whether the sink appends to an existing file or
// truncates it. The choice applies to every file the sink opens, including
// files switched to via SetTarget.
func FileAppend(enabled bool) FileOption {
	return func(s *FileSink) {
		s.appendTo = enabled
	}
}

// FileLevel sets the sink's save threshold. Records more verbose than the
// threshold are not written (they may still be queued, see FileQueue).
func FileLevel(level LogLevel) FileOption {
	return func(s *FileSink) {
		s.level = level
	}
}

// FileConsoleEcho mirrors every written line to w, typically os.Stdout.
func FileConsoleEcho(w io.Writer) FileOption {
	return func(s *FileSink) {
		s.echo = w
	}
}

// FileQueue enables the verbose-history ring: records more verbose than the
// save threshold but at keep or better are retained, up to size lines with
// the oldest dropped first, and flushed to the file when a record at trigger
// severity or better arrives. A size of zero or less disables the ring.
func FileQueue(size int, keep, trigger LogLevel) FileOption {
	return func(s *FileSink) {
		if size <= 0 {
			s.queueCap = 0
			return
		}
		s.queueCap = size
		s.keep = keep
		s.trigger = trigger
	}
}

// NewFileSink creates a file sink writing to path, saving LevelDetail and
// better by default. The file is not touched until the first write.
func NewFileSink(path string, opts ...FileOption) *FileSink {
	s := &FileSink{
		path:  path,
		level: LevelDetail,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BindInternal implements InternalBinder.
func (s *FileSink) BindInternal(w InternalWriter) {
	s.internal = w
}

// Write renders rec and persists it according to the sink's threshold and
// queue settings. LevelInternal records always write and never queue.
func (s *FileSink) Write(rec Record) error {
	if s.closed {
		return nil
	}
	if rec.Level == LevelInternal {
		return s.emit(formatLine(rec))
	}
	if s.queueCap > 0 && rec.Level <= s.trigger {
		s.dumpQueue()
	}
	if rec.Level > s.level {
		if s.queueCap > 0 && rec.Level <= s.keep {
			s.enqueue(formatLine(rec))
		}
		return nil
	}
	return s.emit(formatLine(rec))
}

// SetLevel adjusts the save threshold.
func (s *FileSink) SetLevel(level LogLevel) {
	s.level = level
}

// SetTarget closes the current file and directs future writes to name. It
// also clears a previous open failure, so the next write retries (and may
// report again if the new path fails too).
func (s *FileSink) SetTarget(name string) error {
	var err error
	if s.file != nil {
		err = s.file.Close()
		s.file = nil
	}
	s.path = name
	s.failed = false
	s.openErr = nil
	return err
}

// Close closes the file. Later writes are discarded.
func (s *FileSink) Close() error {
	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *FileSink) emit(line string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if _, err := s.file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("writing log line: %w", err)
	}
	if s.echo != nil {
		fmt.Fprintln(s.echo, line)
	}
	return nil
}

func (s *FileSink) ensureOpen() error {
	if s.file != nil {
		return nil
	}
	if s.failed {
		return s.openErr
	}
	flags := os.O_CREATE | os.O_WRONLY
	if s.appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		s.failed = true
		s.openErr = fmt.Errorf("opening log file %s: %w", s.path, err)
		if s.internal != nil {
			s.internal.WriteInternal("log file open failed",
				String("path", s.path), Err(err))
		}
		return s.openErr
	}
	s.file = f
	return nil
}

func (s *FileSink) enqueue(line string) {
	if len(s.queue) == s.queueCap {
		copy(s.queue, s.queue[1:])
		s.queue[len(s.queue)-1] = line
		return
	}
	s.queue = append(s.queue, line)
}

// dumpQueue flushes the ring into the file between marker lines and clears
// it. Emit errors are advisory here like everywhere else.
func (s *FileSink) dumpQueue() {
	if len(s.queue) == 0 {
		return
	}
	_ = s.emit("Dumping queued log messages")
	for _, line := range s.queue {
		_ = s.emit(line)
	}
	_ = s.emit("End of queued log message dump")
	s.queue = s.queue[:0]
}
