package state

// History is a linear undo/redo store of surface snapshots. Entries in
// the undo stack are the states before each change; entries in the redo
// stack are the states that were showing when Undo was called.
type History struct {
	undo []Snapshot
	redo []Snapshot
}

func NewHistory() *History {
	return &History{}
}

// Push records a new state and drops everything that could be redone.
func (h *History) Push(s Snapshot) {
	h.undo = append(h.undo, s)
	h.redo = h.redo[:0]
}

// Undo parks current on the redo stack and pops the state to return to.
// The last entry is the baseline and is never popped.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undo) <= 1 {
		return Snapshot{}, false
	}
	last := len(h.undo) - 1
	prev := h.undo[last]
	h.undo = h.undo[:last]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo is the inverse of Undo: current goes back on the undo stack and the
// most recently undone state is returned.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	last := len(h.redo) - 1
	next := h.redo[last]
	h.redo = h.redo[:last]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 1 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

func (h *History) Len() int     { return len(h.undo) }
func (h *History) RedoLen() int { return len(h.redo) }

// Reset empties both stacks.
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}
