package meshlog

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	consoleTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	consoleNodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	consoleFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	consoleLevelStyles = map[LogLevel]lipgloss.Style{
		LevelAlways:       lipgloss.NewStyle().Bold(true),
		LevelFatal:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		LevelError:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		LevelWarning:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		LevelAlert:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		LevelInfo:         lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		LevelDetail:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		LevelDebug:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		LevelStreamDetail: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		LevelInternal:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
	}
)

// ConsoleSink writes human-oriented, styled log lines for development
// terminals. Styling degrades to plain text automatically when the writer is
// not a color-capable terminal.
//
// The sink saves everything by default; use SetLevel (or the dispatcher's
// SetLevel broadcast) to quiet it down.
type ConsoleSink struct {
	w     io.Writer
	level LogLevel
}

var _ Sink = (*ConsoleSink)(nil)

// NewConsoleSink creates a console sink writing to w, typically os.Stderr.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w, level: LevelStreamDetail}
}

// Write renders rec with per-level styling. LevelInternal bypasses the
// threshold.
func (s *ConsoleSink) Write(rec Record) error {
	if rec.Level != LevelInternal && rec.Level > s.level {
		return nil
	}

	var b strings.Builder
	b.WriteString(consoleTimeStyle.Render(rec.Time.Format("15:04:05.000")))
	b.WriteByte(' ')

	// Fixed-width tag so messages line up ("StreamDetail" is the widest).
	tag := fmt.Sprintf("%-12s", rec.Level.String())
	b.WriteString(consoleLevelStyles[rec.Level].Render(tag))

	if rec.Node != 0 {
		b.WriteByte(' ')
		b.WriteString(consoleNodeStyle.Render(fmt.Sprintf("Node%03d", rec.Node)))
	}

	b.WriteByte(' ')
	b.WriteString(rec.Message)

	for _, f := range rec.Fields {
		b.WriteByte(' ')
		b.WriteString(consoleFieldStyle.Render(f.Key + "=" + formatValue(f)))
	}

	_, err := fmt.Fprintln(s.w, b.String())
	return err
}

// SetLevel adjusts the save threshold.
func (s *ConsoleSink) SetLevel(level LogLevel) {
	s.level = level
}

// SetTarget is a no-op; a terminal has no redirectable name.
func (s *ConsoleSink) SetTarget(string) error {
	return nil
}

// Close is a no-op; the sink does not own its writer.
func (s *ConsoleSink) Close() error {
	return nil
}
