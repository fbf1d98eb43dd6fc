package meshlog

import (
	"errors"
	"testing"
	"time"
)

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name      string
		field     Field
		wantKey   string
		wantType  FieldType
		wantValue any
	}{
		{
			name:      "String field",
			field:     String("port", "/dev/ttyUSB0"),
			wantKey:   "port",
			wantType:  StringType,
			wantValue: "/dev/ttyUSB0",
		},
		{
			name:      "Int field",
			field:     Int("hops", 3),
			wantKey:   "hops",
			wantType:  IntType,
			wantValue: 3,
		},
		{
			name:      "Int64 field",
			field:     Int64("bytes", int64(1 << 40)),
			wantKey:   "bytes",
			wantType:  Int64Type,
			wantValue: int64(1 << 40),
		},
		{
			name:      "Uint field",
			field:     Uint("seq", 42),
			wantKey:   "seq",
			wantType:  UintType,
			wantValue: uint(42),
		},
		{
			name:      "Float64 field",
			field:     Float64("rssi", -71.5),
			wantKey:   "rssi",
			wantType:  Float64Type,
			wantValue: -71.5,
		},
		{
			name:      "Bool field",
			field:     Bool("secure", true),
			wantKey:   "secure",
			wantType:  BoolType,
			wantValue: true,
		},
		{
			name:      "Duration field",
			field:     Duration("rtt", 40 * time.Millisecond),
			wantKey:   "rtt",
			wantType:  DurationType,
			wantValue: 40 * time.Millisecond,
		},
		{
			name:      "Any field",
			field:     Any("raw", []int{1, 2}),
			wantKey:   "raw",
			wantType:  AnyType,
			wantValue: nil, // checked separately, slices don't compare
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.wantKey)
			}
			if tt.field.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.field.Type, tt.wantType)
			}
			if tt.wantValue != nil && tt.field.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.wantValue)
			}
		})
	}
}

func TestErrField(t *testing.T) {
	sentinel := errors.New("frame checksum mismatch")
	f := Err(sentinel)

	if f.Key != "error" {
		t.Errorf("Err key = %q, want %q", f.Key, "error")
	}
	if f.Type != ErrorType {
		t.Errorf("Err type = %q, want %q", f.Type, ErrorType)
	}
	if f.Value != sentinel {
		t.Errorf("Err value = %v, want the original error", f.Value)
	}
}

func TestTimeField(t *testing.T) {
	now := time.Now()
	f := Time("seen", now)

	if f.Type != TimeType {
		t.Errorf("Time type = %q, want %q", f.Type, TimeType)
	}
	if !f.Value.(time.Time).Equal(now) {
		t.Errorf("Time value = %v, want %v", f.Value, now)
	}
}

func TestHexField(t *testing.T) {
	t.Run("renders frames as octets", func(t *testing.T) {
		f := Hex("frame", []byte{0x01, 0x04, 0x13, 0xff})
		want := "0x01, 0x04, 0x13, 0xff"
		if f.Value != want {
			t.Errorf("Hex value = %q, want %q", f.Value, want)
		}
		if f.Type != HexType {
			t.Errorf("Hex type = %q, want %q", f.Type, HexType)
		}
	})

	t.Run("single octet", func(t *testing.T) {
		f := Hex("frame", []byte{0xab})
		if f.Value != "0xab" {
			t.Errorf("Hex value = %q, want %q", f.Value, "0xab")
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		f := Hex("frame", nil)
		if f.Value != "" {
			t.Errorf("Hex value = %q, want empty", f.Value)
		}
	})
}
