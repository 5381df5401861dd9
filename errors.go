package selgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeSize is returned when Resize is called with a negative size.
	ErrNegativeSize = errors.New("point set size must be non-negative")
)

// ErrIndexOutOfRange indicates a hit index outside the current point set.
//
// This is a precondition violation: hit-testing happens outside the engine
// and the caller is expected to deliver validated indices. The engine fails
// fast instead of clamping so upstream bugs are not masked.
type ErrIndexOutOfRange struct {
	Index int
	Size  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("hit index %d out of range [0,%d)", e.Index, e.Size)
}

// ErrInvalidModifier indicates a modifier value outside the closed
// enumeration. Raw input-device combinations must be normalized via
// NormalizeModifiers before reaching the engine.
type ErrInvalidModifier struct {
	Modifier Modifier
}

func (e *ErrInvalidModifier) Error() string {
	return fmt.Sprintf("invalid modifier combination: %d", uint8(e.Modifier))
}

// ErrStateMismatch indicates a restored state whose label buffer is
// internally inconsistent (negative label or label above the recorded last
// group).
type ErrStateMismatch struct {
	Index int
	Label int32
}

func (e *ErrStateMismatch) Error() string {
	return fmt.Sprintf("inconsistent state: label %d at index %d", e.Label, e.Index)
}
