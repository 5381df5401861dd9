// Package journal provides an append-only gesture log for replayable
// selection state.
//
// The selection engine is deterministic: the same gesture sequence always
// produces the same partition. Logging every gesture therefore makes the
// state recoverable by replay, and a snapshot plus Checkpoint truncation
// bounds the replay cost.
//
// Features:
//   - Per-gesture logging with sequence numbers and CRC32 record checksums
//   - Configurable fsync behavior for performance vs durability tradeoff
//   - Optional zstd compression of the entry stream
//   - Checkpoint support for log truncation after snapshots
//   - Rate-limited automatic checkpoints
package journal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/time/rate"

	"github.com/hupe1980/selgo"
	"github.com/hupe1980/selgo/codec"
	"github.com/hupe1980/selgo/hitset"
)

const fileName = "gestures.journal"

var (
	journalMagic   = [4]byte{'S', 'J', 'L', '0'}
	journalVersion = uint16(1)

	// ErrCorruptEntry is returned when a journal record fails its CRC32
	// check.
	ErrCorruptEntry = errors.New("journal: corrupt entry")
	// ErrUnknownCodec is returned when a journal header names a codec this
	// build does not know.
	ErrUnknownCodec = errors.New("journal: unknown codec")
	// ErrInvalidHeader is returned when the journal file does not start with
	// a valid header.
	ErrInvalidHeader = errors.New("journal: invalid header")
)

// Entry is a single logged gesture.
type Entry struct {
	Seq  uint64         `json:"seq"`
	Mod  selgo.Modifier `json:"mod"`
	Hits []int          `json:"hits,omitempty"`
}

// Journal is an append-only log of selection gestures.
type Journal struct {
	mu         sync.Mutex
	file       *os.File
	writer     io.Writer     // May be compressed or direct
	bufWriter  *bufio.Writer // Buffered writer for performance
	compressor *zstd.Encoder
	codec      codec.Codec
	seqNum     uint64
	dataOffset int64
	compressed bool
	level      int
	syncOnAdd  bool

	// Auto-checkpoint tracking
	autoCheckpointOps int
	checkpointLimiter *rate.Limiter
	checkpointFunc    func() error
	opsSinceCkpt      int
}

// Open opens or creates a journal in dir.
//
// An existing journal is self-describing: its header decides compression and
// codec, and the recorded entries determine the next sequence number.
func Open(dir string, optFns ...func(o *Options)) (*Journal, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, fmt.Errorf("journal: open file: %w", err)
	}
	st, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("journal: stat file: %w", err)
	}

	j := &Journal{
		file:              file,
		codec:             opts.Codec,
		compressed:        opts.Compress,
		level:             opts.CompressionLevel,
		syncOnAdd:         opts.SyncOnAppend,
		autoCheckpointOps: opts.AutoCheckpointOps,
		checkpointFunc:    opts.CheckpointFunc,
	}
	if opts.AutoCheckpointOps > 0 {
		j.checkpointLimiter = rate.NewLimiter(rate.Every(opts.AutoCheckpointMinInterval), 1)
	}

	if st.Size() == 0 {
		if err := j.writeHeader(opts); err != nil {
			_ = file.Close()
			return nil, err
		}
	} else {
		if err := j.readHeader(); err != nil {
			_ = file.Close()
			return nil, err
		}
		// Recover the sequence counter from the recorded entries.
		valid, err := j.scan(func(e Entry) error {
			j.seqNum = e.Seq
			return nil
		})
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		// Drop a torn tail so new appends stay decodable in order. Inside a
		// compressed stream the decoder already stops at the broken frame.
		if !j.compressed {
			if err := j.file.Truncate(j.dataOffset + valid); err != nil {
				_ = file.Close()
				return nil, fmt.Errorf("journal: truncate torn tail: %w", err)
			}
		}
	}

	if _, err := j.file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("journal: seek end: %w", err)
	}
	if err := j.initWriter(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) writeHeader(opts Options) error {
	name := j.codec.Name()
	buf := make([]byte, 0, 8+1+len(name))
	buf = append(buf, journalMagic[:]...)

	var fixed [4]byte
	binary.LittleEndian.PutUint16(fixed[0:2], journalVersion)
	var flags uint16
	if j.compressed {
		flags |= 1
	}
	binary.LittleEndian.PutUint16(fixed[2:4], flags)
	buf = append(buf, fixed[:]...)

	buf = append(buf, uint8(len(name)))
	buf = append(buf, name...)

	if _, err := j.file.Write(buf); err != nil {
		return fmt.Errorf("journal: write header: %w", err)
	}
	j.dataOffset = int64(len(buf))
	return nil
}

func (j *Journal) readHeader() error {
	if _, err := j.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("journal: seek header: %w", err)
	}

	var fixed [9]byte
	if _, err := io.ReadFull(j.file, fixed[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	if [4]byte(fixed[0:4]) != journalMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidHeader)
	}
	if v := binary.LittleEndian.Uint16(fixed[4:6]); v != journalVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, v)
	}
	flags := binary.LittleEndian.Uint16(fixed[6:8])
	j.compressed = flags&1 != 0

	name := make([]byte, fixed[8])
	if _, err := io.ReadFull(j.file, name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, string(name))
	}
	j.codec = c
	j.dataOffset = int64(9 + len(name))
	return nil
}

func (j *Journal) initWriter() error {
	if j.compressed {
		level := zstd.EncoderLevelFromZstd(j.level)
		compressor, err := zstd.NewWriter(j.file, zstd.WithEncoderLevel(level))
		if err != nil {
			return fmt.Errorf("journal: create compressor: %w", err)
		}
		j.compressor = compressor
		j.bufWriter = bufio.NewWriter(compressor)
	} else {
		j.bufWriter = bufio.NewWriter(j.file)
	}
	j.writer = j.bufWriter
	return nil
}

// Append logs one gesture and returns its sequence number.
func (j *Journal) Append(hits *hitset.Set, mod selgo.Modifier) (uint64, error) {
	seq, checkpoint, err := j.append(hits, mod)
	if err != nil {
		return 0, err
	}

	// The checkpoint callback typically snapshots the engine and calls
	// Checkpoint, which takes the journal lock, so it must run unlocked.
	if checkpoint {
		if err := j.checkpointFunc(); err != nil {
			return seq, fmt.Errorf("journal: auto checkpoint: %w", err)
		}
	}
	return seq, nil
}

func (j *Journal) append(hits *hitset.Set, mod selgo.Modifier) (uint64, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seqNum++
	entry := Entry{
		Seq:  j.seqNum,
		Mod:  mod,
		Hits: hits.ToSlice(),
	}

	payload, err := j.codec.Marshal(entry)
	if err != nil {
		return 0, false, fmt.Errorf("journal: encode entry: %w", err)
	}

	var frame [8]byte
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(frame[4:8], crc32.ChecksumIEEE(payload))
	if _, err := j.writer.Write(frame[:]); err != nil {
		return 0, false, fmt.Errorf("journal: write entry frame: %w", err)
	}
	if _, err := j.writer.Write(payload); err != nil {
		return 0, false, fmt.Errorf("journal: write entry payload: %w", err)
	}

	if j.syncOnAdd {
		if err := j.flushLocked(); err != nil {
			return 0, false, err
		}
		if err := j.file.Sync(); err != nil {
			return 0, false, fmt.Errorf("journal: fsync: %w", err)
		}
	}

	checkpoint := false
	if j.autoCheckpointOps > 0 && j.checkpointFunc != nil {
		j.opsSinceCkpt++
		if j.opsSinceCkpt >= j.autoCheckpointOps && j.checkpointLimiter.Allow() {
			j.opsSinceCkpt = 0
			checkpoint = true
		}
	}
	return j.seqNum, checkpoint, nil
}

// Replay calls fn for every logged gesture in append order.
func (j *Journal) Replay(fn func(e Entry) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.flushLocked(); err != nil {
		return err
	}
	if _, err := j.scan(fn); err != nil {
		return err
	}
	_, err := j.file.Seek(0, io.SeekEnd)
	return err
}

// ReplayInto rebuilds an engine from the journal: the engine is resized to n
// and every logged gesture is re-applied in order.
func (j *Journal) ReplayInto(eng *selgo.Engine, n int) error {
	if err := eng.Resize(n); err != nil {
		return err
	}
	return j.Replay(func(e Entry) error {
		return eng.Apply(hitset.Of(e.Hits...), e.Mod)
	})
}

// scan reads entries from dataOffset and returns the number of stream bytes
// covered by complete, valid entries. The caller holds the lock and is
// responsible for restoring the file position afterwards.
func (j *Journal) scan(fn func(e Entry) error) (int64, error) {
	if _, err := j.file.Seek(j.dataOffset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("journal: seek data: %w", err)
	}

	var reader io.Reader
	if j.compressed {
		decoder, err := zstd.NewReader(j.file)
		if err != nil {
			return 0, fmt.Errorf("journal: create decompressor: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	} else {
		reader = bufio.NewReader(j.file)
	}

	var valid int64
	for {
		var frame [8]byte
		if _, err := io.ReadFull(reader, frame[:]); err != nil {
			// A torn frame at the tail means the process died mid-append;
			// everything before it replayed cleanly.
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return valid, nil
			}
			return valid, fmt.Errorf("journal: read entry frame: %w", err)
		}

		payload := make([]byte, binary.LittleEndian.Uint32(frame[0:4]))
		if _, err := io.ReadFull(reader, payload); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return valid, nil
			}
			return valid, fmt.Errorf("journal: read entry payload: %w", err)
		}
		if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(frame[4:8]) {
			return valid, ErrCorruptEntry
		}

		var entry Entry
		if err := j.codec.Unmarshal(payload, &entry); err != nil {
			return valid, fmt.Errorf("journal: decode entry: %w", err)
		}
		if err := fn(entry); err != nil {
			return valid, err
		}
		valid += int64(len(frame) + len(payload))
	}
}

// Checkpoint truncates the journal after its state has been captured in a
// snapshot. The sequence numbering restarts at 1 for the next gesture.
func (j *Journal) Checkpoint() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.flushLocked(); err != nil {
		return err
	}
	if j.compressor != nil {
		if err := j.compressor.Close(); err != nil {
			return fmt.Errorf("journal: close compressor: %w", err)
		}
		j.compressor = nil
	}

	if err := j.file.Truncate(j.dataOffset); err != nil {
		return fmt.Errorf("journal: truncate: %w", err)
	}
	if _, err := j.file.Seek(j.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("journal: seek data: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: fsync: %w", err)
	}

	j.seqNum = 0
	j.opsSinceCkpt = 0
	return j.initWriter()
}

// Seq returns the sequence number of the most recently logged gesture.
func (j *Journal) Seq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.seqNum
}

// Sync flushes buffered entries and fsyncs the journal file.
func (j *Journal) Sync() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.flushLocked(); err != nil {
		return err
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("journal: fsync: %w", err)
	}
	return nil
}

// Close flushes and closes the journal.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.flushLocked(); err != nil {
		_ = j.file.Close()
		return err
	}
	if j.compressor != nil {
		if err := j.compressor.Close(); err != nil {
			_ = j.file.Close()
			return fmt.Errorf("journal: close compressor: %w", err)
		}
		j.compressor = nil
	}
	if err := j.file.Sync(); err != nil {
		_ = j.file.Close()
		return fmt.Errorf("journal: fsync: %w", err)
	}
	return j.file.Close()
}

func (j *Journal) flushLocked() error {
	if err := j.bufWriter.Flush(); err != nil {
		return fmt.Errorf("journal: flush buffer: %w", err)
	}
	if j.compressor != nil {
		if err := j.compressor.Flush(); err != nil {
			return fmt.Errorf("journal: flush compressor: %w", err)
		}
	}
	return nil
}
