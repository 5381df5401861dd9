package selgo

import (
	"time"

	"github.com/hupe1980/selgo/hitset"
)

// DefaultHistoryLimit is the default depth of the undo history.
const DefaultHistoryLimit = 64

// Engine owns the group-selection state for a point set of known fixed size.
//
// The whole state machine is the label buffer plus the last group number:
// states are the possible buffer contents, the four modifier combinations are
// the transition labels. There is no terminal state; the engine lives as long
// as the view that owns it.
//
// Engine is not safe for concurrent use. Gestures are expected to arrive
// serialized from a single UI event stream.
type Engine struct {
	// group holds one label per point: 0 = unselected, k >= 1 = group k.
	// The slice is a flat index-addressed arena; the whole state is data and
	// therefore trivially snapshot-able.
	group     []int32
	lastGroup int32

	history *history
	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty engine (point set size 0).
// Call Resize before delivering gestures for a non-empty point set.
func New(optFns ...Option) *Engine {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		historyLimit:     DefaultHistoryLimit,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := &Engine{
		group:   []int32{},
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}
	if opts.historyLimit > 0 {
		e.history = newHistory(opts.historyLimit)
	}
	return e
}

// Len returns the current point set size.
func (e *Engine) Len() int {
	return len(e.group)
}

// Resize reinitializes the engine for a point set of size n: all labels
// become zero, the group numbering restarts and the undo history is cleared.
//
// The owner must call Resize whenever the underlying point set changes size
// or identity, before delivering any further gestures. Resize must never be
// invoked concurrently with Apply.
func (e *Engine) Resize(n int) error {
	if n < 0 {
		e.metrics.RecordResize(n, ErrNegativeSize)
		return ErrNegativeSize
	}

	e.group = make([]int32, n)
	e.lastGroup = 0
	if e.history != nil {
		e.history.clear()
	}

	e.metrics.RecordResize(n, nil)
	e.logger.Debug("point set resized", "size", n)
	return nil
}

// Apply updates the selection state according to one gesture.
//
// hits is the set of point indices struck by the gesture (may be nil or
// empty), mod the gesture's modifier combination. Every hit index must lie in
// [0, Len()); an out-of-range index or an invalid modifier is a precondition
// violation and fails fast without touching the state. Degenerate inputs
// (empty hits, empty point set, no existing groups) are defined non-error
// outcomes.
func (e *Engine) Apply(hits *hitset.Set, mod Modifier) error {
	start := time.Now()
	err := e.apply(hits, mod)
	e.metrics.RecordApply(mod, hits.Cardinality(), time.Since(start), err)
	return err
}

func (e *Engine) apply(hits *hitset.Set, mod Modifier) error {
	if !mod.Valid() {
		return &ErrInvalidModifier{Modifier: mod}
	}
	if !hits.IsEmpty() {
		if maxHit := hits.Max(); maxHit >= len(e.group) {
			return &ErrIndexOutOfRange{Index: maxHit, Size: len(e.group)}
		}
	}

	// Shift, Alt and Shift+Ctrl on an empty hit set leave the state (and the
	// numbering) unchanged. The unmodified gesture means "start over", so it
	// mutates whenever a group exists; with nothing to clear it is equally a
	// no-op. No-op gestures never reach the undo history.
	if hits.IsEmpty() && (mod != ModNone || e.lastGroup == 0) {
		return nil
	}

	e.record()

	switch mod {
	case ModNone:
		clear(e.group)
		e.lastGroup = 0
		if !hits.IsEmpty() {
			e.label(hits, 1)
			e.lastGroup = 1
		}

	case ModShift:
		if n := e.label(hits, e.lastGroup+1); n > 0 {
			e.lastGroup++
		}

	case ModAlt:
		for i := range hits.Iterator() {
			e.group[i] = 0
		}

	case ModShiftCtrl:
		target := max(e.lastGroup, 1)
		e.label(hits, target)
		e.lastGroup = target
	}

	e.logger.Debug("gesture applied",
		"modifier", mod.String(),
		"hits", hits.Cardinality(),
		"last_group", e.lastGroup,
	)
	return nil
}

// label assigns g to every hit index that is still unselected and returns the
// number of newly labeled points. Points already in a group keep their label.
func (e *Engine) label(hits *hitset.Set, g int32) int {
	n := 0
	for i := range hits.Iterator() {
		if e.group[i] == 0 {
			e.group[i] = g
			n++
		}
	}
	return n
}

// GroupLabels returns a copy of the per-point label buffer: 0 for unselected
// points, k >= 1 for members of group k. Its length always equals Len().
func (e *Engine) GroupLabels() []int32 {
	out := make([]int32, len(e.group))
	copy(out, e.group)
	return out
}

// SelectedIndices returns all indices with a nonzero label as a strictly
// increasing sequence of original point indices.
func (e *Engine) SelectedIndices() []int {
	var out []int
	for i, g := range e.group {
		if g != 0 {
			out = append(out, i)
		}
	}
	return out
}

// LastGroup returns the highest group number that exists at the time of the
// most recent selection-modifying gesture, or 0 if no group exists. It is the
// sole target of ModShiftCtrl extension and is deliberately not adjusted when
// ModAlt empties a group.
func (e *Engine) LastGroup() int32 {
	return e.lastGroup
}

// GroupCount returns the number of distinct nonzero labels currently present.
// After ModAlt removals this may be lower than LastGroup until the next
// ModNone gesture restarts the numbering.
func (e *Engine) GroupCount() int32 {
	if e.lastGroup == 0 {
		return 0
	}
	seen := make([]bool, e.lastGroup+1)
	var count int32
	for _, g := range e.group {
		if g > 0 && !seen[g] {
			seen[g] = true
			count++
		}
	}
	return count
}

// State returns a deep copy of the selection state, suitable for snapshots.
func (e *Engine) State() State {
	s := State{
		Labels:    make([]int32, len(e.group)),
		LastGroup: e.lastGroup,
	}
	copy(s.Labels, e.group)
	return s
}

// Restore replaces the engine state with a previously captured State and
// clears the undo history. The state is validated before anything is touched.
func (e *Engine) Restore(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}

	e.group = make([]int32, len(s.Labels))
	copy(e.group, s.Labels)
	e.lastGroup = s.LastGroup
	if e.history != nil {
		e.history.clear()
	}

	e.logger.Debug("state restored", "size", len(e.group), "last_group", e.lastGroup)
	return nil
}

// Undo reverts the most recent selection-modifying gesture. It returns false
// when there is nothing to undo or undo is disabled.
func (e *Engine) Undo() bool {
	applied := e.step(false)
	e.metrics.RecordUndo(false, applied)
	return applied
}

// Redo re-applies the most recently undone gesture. It returns false when
// there is nothing to redo or undo is disabled.
func (e *Engine) Redo() bool {
	applied := e.step(true)
	e.metrics.RecordUndo(true, applied)
	return applied
}

func (e *Engine) step(redo bool) bool {
	if e.history == nil {
		return false
	}

	var prev State
	var ok bool
	cur := e.State()
	if redo {
		prev, ok = e.history.popRedo(cur)
	} else {
		prev, ok = e.history.popUndo(cur)
	}
	if !ok {
		return false
	}

	e.group = prev.Labels
	e.lastGroup = prev.LastGroup
	return true
}

// record pushes the current state onto the undo stack.
func (e *Engine) record() {
	if e.history == nil {
		return
	}
	e.history.push(e.State())
}

// State is a snapshot of an engine's selection state.
//
// Labels holds one entry per point (0 = unselected, k >= 1 = group k),
// LastGroup the numbering high-water mark. The representation is plain data;
// keep it stable, it is also used for persistence.
type State struct {
	Labels    []int32 `json:"labels"`
	LastGroup int32   `json:"lastGroup"`
}

// Validate checks the internal consistency of the state: LastGroup must be
// non-negative and every label must lie in [0, LastGroup].
func (s State) Validate() error {
	if s.LastGroup < 0 {
		return &ErrStateMismatch{Index: -1, Label: s.LastGroup}
	}
	for i, g := range s.Labels {
		if g < 0 || g > s.LastGroup {
			return &ErrStateMismatch{Index: i, Label: g}
		}
	}
	return nil
}
