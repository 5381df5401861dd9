package journal

import (
	"time"

	"github.com/hupe1980/selgo/codec"
)

// Options contains configuration for the journal.
type Options struct {
	// Compress enables zstd compression of the entry stream. Gesture entries
	// are tiny and repetitive, so compression pays off for long sessions.
	Compress bool

	// CompressionLevel sets the zstd compression level (1-22).
	// Default (3) provides good balance. Higher = better compression but slower.
	CompressionLevel int

	// SyncOnAppend fsyncs after every gesture. Slowest but strongest
	// durability; without it entries are buffered until Sync/Close.
	SyncOnAppend bool

	// AutoCheckpointOps triggers CheckpointFunc after N logged gestures.
	// Set to 0 to disable automatic checkpoints.
	AutoCheckpointOps int

	// AutoCheckpointMinInterval rate-limits automatic checkpoints: even when
	// the operation threshold fires on every gesture of a fast drag, at most
	// one checkpoint runs per interval.
	AutoCheckpointMinInterval time.Duration

	// CheckpointFunc is called when an automatic checkpoint fires. It is
	// expected to snapshot the engine state and then call Checkpoint.
	CheckpointFunc func() error

	// Codec encodes journal entries. Defaults to codec.Default. Existing
	// journal files override this with the codec named in their header.
	Codec codec.Codec
}

// DefaultOptions are the defaults used by Open.
var DefaultOptions = Options{
	CompressionLevel:          3,
	AutoCheckpointMinInterval: 30 * time.Second,
}
