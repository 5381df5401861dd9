package snapshot

import "errors"

const (
	// Magic identifies selgo snapshot files (ASCII: "SEL0").
	Magic = 0x53454C30
	// Version is the current snapshot format version.
	Version = 1

	// MaxPoints is the largest point count a snapshot may declare. Read
	// rejects larger headers before allocating the label buffer, since the
	// count field drives the allocation size.
	MaxPoints = 1 << 28

	// headerSize is the fixed uncompressed header: magic, version, point
	// count and last group, each 4 bytes little-endian.
	headerSize = 16
	// trailerSize is the CRC32 trailer.
	trailerSize = 4
)

var (
	// ErrInvalidMagic is returned when a file does not start with the
	// snapshot magic number.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("unsupported version")
	// ErrChecksum is returned when the CRC32 trailer does not match,
	// indicating storage corruption.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrTruncated is returned when a snapshot is shorter than its fixed
	// framing.
	ErrTruncated = errors.New("truncated snapshot")
	// ErrTooManyPoints is returned when the declared point count exceeds
	// MaxPoints.
	ErrTooManyPoints = errors.New("point count exceeds limit")
)
