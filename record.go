package meshlog

import (
	"time"
)

// NodeID identifies the mesh node a record concerns. Zero means the record
// has no node origin and is rendered without one.
type NodeID uint8

// Record is an immutable log entry as it flows through sinks.
type Record struct {
	Time    time.Time
	Level   LogLevel
	Node    NodeID
	Message string
	Fields  []Field
}

// NewRecord creates a Record stamped with the current time.
//
// This is primarily used internally by Write and WriteNode. Most users
// should call those instead of constructing records directly.
func NewRecord(level LogLevel, node NodeID, msg string, fields []Field) Record {
	return Record{
		Time:    time.Now(),
		Level:   level,
		Node:    node,
		Message: msg,
		Fields:  fields,
	}
}

// Clone creates a deep copy of the record.
//
// This method satisfies the pipz.Cloner interface, so adapter pipelines can
// hand each branch its own copy. The Fields slice is copied for complete
// isolation; everything else is a value or immutable.
func (r Record) Clone() Record {
	fieldsCopy := make([]Field, len(r.Fields))
	copy(fieldsCopy, r.Fields)

	return Record{
		Time:    r.Time,
		Level:   r.Level,
		Node:    r.Node,
		Message: r.Message,
		Fields:  fieldsCopy,
	}
}
