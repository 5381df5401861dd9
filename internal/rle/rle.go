// Package rle implements run-length encoding for group label buffers.
//
// Selection labels are long runs of identical values (a lasso gesture labels
// a contiguous index range, everything else stays 0), so run-length pairs
// compress the buffer well before the general-purpose compressor sees it.
package rle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is returned when encoded data cannot be decoded.
	ErrCorrupt = errors.New("rle: corrupt data")
	// ErrLengthMismatch is returned when decoded data does not match the
	// expected element count.
	ErrLengthMismatch = errors.New("rle: length mismatch")
)

// AppendEncode appends the run-length encoding of values to dst and returns
// the extended slice. Each run is a (count, value) pair of varints.
func AppendEncode(dst []byte, values []int32) []byte {
	for i := 0; i < len(values); {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		dst = binary.AppendUvarint(dst, uint64(j-i))
		dst = binary.AppendVarint(dst, int64(values[i]))
		i = j
	}
	return dst
}

// Decode decodes data into exactly n values.
func Decode(data []byte, n int) ([]int32, error) {
	values := make([]int32, 0, n)
	for len(data) > 0 {
		count, k := binary.Uvarint(data)
		if k <= 0 || count == 0 {
			return nil, ErrCorrupt
		}
		data = data[k:]

		value, k := binary.Varint(data)
		if k <= 0 {
			return nil, ErrCorrupt
		}
		data = data[k:]

		if value < -1<<31 || value > 1<<31-1 {
			return nil, fmt.Errorf("%w: value %d overflows int32", ErrCorrupt, value)
		}
		// Compare against the remaining capacity; summing count into a
		// uint64 length could wrap for a crafted run count.
		if count > uint64(n-len(values)) {
			return nil, ErrLengthMismatch
		}
		for range count {
			values = append(values, int32(value))
		}
	}
	if len(values) != n {
		return nil, ErrLengthMismatch
	}
	return values, nil
}
