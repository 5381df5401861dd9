package selgo

// history is a bounded two-stack gesture history.
//
// Every selection-modifying gesture pushes the pre-gesture state onto the
// undo stack and invalidates the redo stack. Undo/redo move states between
// the two stacks; the label buffer is plain data, so a snapshot is a single
// slice copy.
type history struct {
	limit int
	undo  []State
	redo  []State
}

func newHistory(limit int) *history {
	return &history{
		limit: limit,
		undo:  make([]State, 0, limit),
	}
}

// push records the pre-gesture state. The oldest entry is dropped once the
// limit is reached; a new gesture always invalidates the redo stack.
func (h *history) push(s State) {
	if len(h.undo) >= h.limit {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, s)
	h.redo = h.redo[:0]
}

// popUndo exchanges cur for the most recent undo state.
func (h *history) popUndo(cur State) (State, bool) {
	if len(h.undo) == 0 {
		return State{}, false
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cur)
	return s, true
}

// popRedo exchanges cur for the most recently undone state.
func (h *history) popRedo(cur State) (State, bool) {
	if len(h.redo) == 0 {
		return State{}, false
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cur)
	return s, true
}

func (h *history) clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
