package rle

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []int32
	}{
		{"empty", []int32{}},
		{"single", []int32{7}},
		{"one run", []int32{3, 3, 3, 3}},
		{"alternating", []int32{0, 1, 0, 1, 0}},
		{"selection shape", []int32{0, 0, 1, 1, 1, 0, 2, 2, 0, 0, 0, 3}},
		{"negative values", []int32{-5, -5, 0, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := AppendEncode(nil, tt.values)
			decoded, err := Decode(encoded, len(tt.values))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(decoded, append([]int32{}, tt.values...)) {
				t.Errorf("Decode = %v, want %v", decoded, tt.values)
			}
		})
	}
}

func TestEncodeCompactsRuns(t *testing.T) {
	values := make([]int32, 10000)
	for i := 2000; i < 2500; i++ {
		values[i] = 1
	}

	encoded := AppendEncode(nil, values)
	if len(encoded) > 16 {
		t.Errorf("encoded 3 runs into %d bytes, want <= 16", len(encoded))
	}
}

func TestDecode_LengthMismatch(t *testing.T) {
	encoded := AppendEncode(nil, []int32{1, 1, 1})

	if _, err := Decode(encoded, 2); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short target: err = %v, want ErrLengthMismatch", err)
	}
	if _, err := Decode(encoded, 4); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("long target: err = %v, want ErrLengthMismatch", err)
	}
}

func TestDecode_WrappedRunCount(t *testing.T) {
	// A run count chosen so that length+count wraps around uint64 must be
	// rejected immediately, not appended element by element.
	data := binary.AppendUvarint(nil, 1)
	data = binary.AppendVarint(data, 0)
	data = binary.AppendUvarint(data, math.MaxUint64)
	data = binary.AppendVarint(data, 1)

	if _, err := Decode(data, 4); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("wrapped count: err = %v, want ErrLengthMismatch", err)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	// A zero run count can never be produced by the encoder.
	if _, err := Decode([]byte{0x00, 0x00}, 1); !errors.Is(err, ErrCorrupt) {
		t.Errorf("zero count: err = %v, want ErrCorrupt", err)
	}

	// Truncated varint.
	if _, err := Decode([]byte{0xFF}, 1); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated: err = %v, want ErrCorrupt", err)
	}
}
