package meshlog

import (
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ZstdFileSink writes the plain-text line format through a zstd stream.
// Frame-per-frame wire traces at LevelStreamDetail dwarf flash storage in
// plain text; compressed they are usually cheaper than the traffic itself.
//
// The file is appended to, so a restarted capture continues the same file
// (concatenated zstd frames decode as one stream). Read captures back with
// any zstd reader.
type ZstdFileSink struct {
	path   string
	file   *os.File
	enc    *zstd.Encoder
	level  LogLevel
	closed bool

	failed  bool
	openErr error

	internal InternalWriter
}

var (
	_ Sink           = (*ZstdFileSink)(nil)
	_ InternalBinder = (*ZstdFileSink)(nil)
)

// NewZstdFileSink creates a compressed sink writing to path, saving every
// level. The file is not touched until the first write.
func NewZstdFileSink(path string) *ZstdFileSink {
	return &ZstdFileSink{path: path, level: LevelStreamDetail}
}

// BindInternal implements InternalBinder.
func (s *ZstdFileSink) BindInternal(w InternalWriter) {
	s.internal = w
}

// Write compresses rec's line into the stream. The encoder is flushed per
// record, so a crash loses at most the in-flight line.
func (s *ZstdFileSink) Write(rec Record) error {
	if s.closed {
		return nil
	}
	if rec.Level != LevelInternal && rec.Level > s.level {
		return nil
	}
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if _, err := s.enc.Write([]byte(formatLine(rec) + "\n")); err != nil {
		return fmt.Errorf("writing compressed log line: %w", err)
	}
	return s.enc.Flush()
}

// SetLevel adjusts the save threshold.
func (s *ZstdFileSink) SetLevel(level LogLevel) {
	s.level = level
}

// SetTarget finishes the current stream and directs future writes to name.
func (s *ZstdFileSink) SetTarget(name string) error {
	err := s.finish()
	s.path = name
	s.failed = false
	s.openErr = nil
	return err
}

// Close finishes the stream and closes the file. Later writes are discarded.
func (s *ZstdFileSink) Close() error {
	s.closed = true
	return s.finish()
}

func (s *ZstdFileSink) finish() error {
	var err error
	if s.enc != nil {
		err = errors.Join(err, s.enc.Close())
		s.enc = nil
	}
	if s.file != nil {
		err = errors.Join(err, s.file.Close())
		s.file = nil
	}
	return err
}

func (s *ZstdFileSink) ensureOpen() error {
	if s.enc != nil {
		return nil
	}
	if s.failed {
		return s.openErr
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return s.reportOpen(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return s.reportOpen(err)
	}
	s.file = f
	s.enc = enc
	return nil
}

func (s *ZstdFileSink) reportOpen(err error) error {
	s.failed = true
	s.openErr = fmt.Errorf("opening capture file %s: %w", s.path, err)
	if s.internal != nil {
		s.internal.WriteInternal("capture file open failed",
			String("path", s.path), Err(err))
	}
	return s.openErr
}
