package meshlog

import "io"

// WriterSink emits the plain-text line format to any io.Writer. It is the
// simplest way to point log output at a buffer, a pipe, or a test harness.
type WriterSink struct {
	w     io.Writer
	level LogLevel
}

var _ Sink = (*WriterSink)(nil)

// NewWriterSink creates a sink writing every level to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, level: LevelStreamDetail}
}

// Write emits rec as one line. LevelInternal bypasses the threshold.
func (s *WriterSink) Write(rec Record) error {
	if rec.Level != LevelInternal && rec.Level > s.level {
		return nil
	}
	_, err := io.WriteString(s.w, formatLine(rec)+"\n")
	return err
}

// SetLevel adjusts the save threshold.
func (s *WriterSink) SetLevel(level LogLevel) {
	s.level = level
}

// SetTarget is a no-op; the writer is fixed at construction.
func (s *WriterSink) SetTarget(string) error {
	return nil
}

// Close is a no-op; the sink does not own its writer.
func (s *WriterSink) Close() error {
	return nil
}
