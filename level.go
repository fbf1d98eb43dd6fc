package meshlog

import "strings"

// LogLevel identifies the severity of a log record. Levels are ordered from
// most severe to most verbose: a smaller value means a more important message.
// Thresholds are inclusive, so a sink saving at LevelDetail also saves
// everything from LevelAlways through LevelInfo.
type LogLevel uint8

const (
	// LevelInvalid is the zero value and never names a real severity.
	// ParseLevel returns it for unrecognized input.
	LevelInvalid LogLevel = iota

	// LevelNone disables all output when used as a threshold.
	LevelNone

	// LevelAlways marks records that are written whenever logging is
	// enabled at all, regardless of the save threshold. It is also the
	// enable floor: SetLevel with a level above LevelAlways turns the
	// dispatcher on, LevelAlways or below turns it off.
	LevelAlways

	LevelFatal
	LevelError
	LevelWarning
	LevelAlert
	LevelInfo
	LevelDetail
	LevelDebug

	// LevelStreamDetail carries raw wire traffic, one record per frame.
	LevelStreamDetail

	// LevelInternal is reserved for sinks reporting their own trouble
	// while a write is in flight. Internal records bypass the dispatcher
	// lock and every save threshold.
	LevelInternal
)

var levelNames = [...]string{
	LevelInvalid:      "Invalid",
	LevelNone:         "None",
	LevelAlways:       "Always",
	LevelFatal:        "Fatal",
	LevelError:        "Error",
	LevelWarning:      "Warning",
	LevelAlert:        "Alert",
	LevelInfo:         "Info",
	LevelDetail:       "Detail",
	LevelDebug:        "Debug",
	LevelStreamDetail: "StreamDetail",
	LevelInternal:     "Internal",
}

// String returns the level's name, or "Invalid" for out-of-range values.
func (l LogLevel) String() string {
	if int(l) >= len(levelNames) {
		return levelNames[LevelInvalid]
	}
	return levelNames[l]
}

// ParseLevel converts a level name to its LogLevel. Matching is
// case-insensitive. Unrecognized names yield LevelInvalid.
func ParseLevel(s string) LogLevel {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return LogLevel(i)
		}
	}
	return LevelInvalid
}
