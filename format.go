package meshlog

import (
	"fmt"
	"strconv"
	"strings"
)

const timeLayout = "2006-01-02 15:04:05.000"

// formatLine renders a record in the fixed plain-text layout shared by the
// file and writer sinks:
//
//	2025-08-25 14:03:07.412 Info, Node013, neighbor update received hops=2
//
// The node segment is omitted for records without an origin.
func formatLine(rec Record) string {
	var b strings.Builder
	b.Grow(64 + len(rec.Message))
	b.WriteString(rec.Time.Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(rec.Level.String())
	b.WriteString(", ")
	if rec.Node != 0 {
		fmt.Fprintf(&b, "Node%03d, ", rec.Node)
	}
	b.WriteString(rec.Message)
	appendFields(&b, rec.Fields)
	return b.String()
}

// appendFields renders fields as space-separated key=value pairs.
func appendFields(b *strings.Builder, fields []Field) {
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(f))
	}
}

func formatValue(f Field) string {
	switch f.Type {
	case ErrorType:
		err, ok := f.Value.(error)
		if !ok || err == nil {
			return "<nil>"
		}
		return quoteIfNeeded(err.Error())
	case StringType, HexType:
		s, _ := f.Value.(string)
		return quoteIfNeeded(s)
	default:
		return quoteIfNeeded(fmt.Sprintf("%v", f.Value))
	}
}

// quoteIfNeeded quotes values containing whitespace or quotes so a line
// stays splittable on spaces.
func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t\"") {
		return strconv.Quote(s)
	}
	return s
}
