// Package snapshot persists selection states as compact binary snapshots.
//
// A snapshot is a fixed little-endian header (magic, version, point count,
// last group), an lz4-compressed run-length encoding of the label buffer and
// a CRC32 trailer over everything before it.
//
// CRC32 (IEEE polynomial) detects accidental storage corruption; it is not
// cryptographically secure and must not be used for tamper detection.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/selgo"
	"github.com/hupe1980/selgo/internal/rle"
)

// Write encodes st and writes the snapshot to w.
func Write(w io.Writer, st selgo.State) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("snapshot: invalid state: %w", err)
	}
	if len(st.Labels) > MaxPoints {
		return ErrTooManyPoints
	}

	var buf bytes.Buffer
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:4], Magic)
	binary.LittleEndian.PutUint32(hdr[4:8], Version)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(st.Labels)))
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(st.LastGroup))
	buf.Write(hdr)

	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(rle.AppendEncode(nil, st.Labels)); err != nil {
		return fmt.Errorf("snapshot: compress labels: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("snapshot: close compressor: %w", err)
	}

	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[:], crc32.ChecksumIEEE(buf.Bytes()))
	buf.Write(trailer[:])

	_, err := w.Write(buf.Bytes())
	return err
}

// Read decodes a snapshot from r and returns the selection state it holds.
func Read(r io.Reader) (selgo.State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return selgo.State{}, err
	}
	if len(data) < headerSize+trailerSize {
		return selgo.State{}, ErrTruncated
	}

	body := data[:len(data)-trailerSize]
	want := binary.LittleEndian.Uint32(data[len(data)-trailerSize:])
	if crc32.ChecksumIEEE(body) != want {
		return selgo.State{}, ErrChecksum
	}

	if binary.LittleEndian.Uint32(body[0:4]) != Magic {
		return selgo.State{}, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(body[4:8]) != Version {
		return selgo.State{}, ErrInvalidVersion
	}
	n := int(binary.LittleEndian.Uint32(body[8:12]))
	if n > MaxPoints {
		return selgo.State{}, ErrTooManyPoints
	}
	lastGroup := int32(binary.LittleEndian.Uint32(body[12:16]))

	zr := lz4.NewReader(bytes.NewReader(body[headerSize:]))
	encoded, err := io.ReadAll(zr)
	if err != nil {
		return selgo.State{}, fmt.Errorf("snapshot: decompress labels: %w", err)
	}

	labels, err := rle.Decode(encoded, n)
	if err != nil {
		return selgo.State{}, fmt.Errorf("snapshot: decode labels: %w", err)
	}

	st := selgo.State{Labels: labels, LastGroup: lastGroup}
	if err := st.Validate(); err != nil {
		return selgo.State{}, fmt.Errorf("snapshot: invalid state: %w", err)
	}
	return st, nil
}

// Save writes a snapshot to path atomically: the bytes land in a temp file in
// the same directory first and are renamed into place after a successful
// write.
func Save(path string, st selgo.State) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if err := Write(tmp, st); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("snapshot: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

// Load reads a snapshot from path.
func Load(path string) (selgo.State, error) {
	f, err := os.Open(path) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return selgo.State{}, err
	}
	defer f.Close()

	return Read(f)
}
