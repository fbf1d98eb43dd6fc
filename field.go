package meshlog

import (
	"encoding/hex"
	"strings"
	"time"
)

// Field represents a typed key-value pair attached to a log record.
type Field struct {
	Key   string
	Type  FieldType
	Value any
}

// FieldType defines the type of a log field - string-based so sinks can
// switch on it without reflection.
type FieldType string

const (
	StringType   FieldType = "string"
	IntType      FieldType = "int"
	Int64Type    FieldType = "int64"
	UintType     FieldType = "uint"
	Float64Type  FieldType = "float64"
	BoolType     FieldType = "bool"
	ErrorType    FieldType = "error"
	DurationType FieldType = "duration"
	TimeType     FieldType = "time"
	HexType      FieldType = "hex"
	AnyType      FieldType = "any"
)

// Type-safe field constructors
func String(key, value string) Field {
	return Field{Key: key, Type: StringType, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Type: IntType, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Type: Int64Type, Value: value}
}

func Uint(key string, value uint) Field {
	return Field{Key: key, Type: UintType, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Type: Float64Type, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Type: BoolType, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Type: ErrorType, Value: err}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Type: DurationType, Value: value}
}

func Time(key string, value time.Time) Field {
	return Field{Key: key, Type: TimeType, Value: value}
}

// Hex renders a byte slice as comma-separated hex octets, the conventional
// layout for protocol frames in log output: "0x01, 0x04, 0x13".
func Hex(key string, value []byte) Field {
	if len(value) == 0 {
		return Field{Key: key, Type: HexType, Value: ""}
	}
	var b strings.Builder
	b.Grow(len(value) * 6)
	for i, octet := range value {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString([]byte{octet}))
	}
	return Field{Key: key, Type: HexType, Value: b.String()}
}

// Any creates a field for values outside the typed constructors.
func Any(key string, value any) Field {
	return Field{Key: key, Type: AnyType, Value: value}
}
