package game

// Canvas tracks the drawer's strokes for the current turn. Strokes live
// in an arena keyed by id; the undo and redo stacks hold only ids, and
// undone strokes are tombstoned rather than forgotten, so redo can
// genuinely restore a stroke instead of referencing deleted data.
type Canvas struct {
	arena     map[string]Stroke
	tombstone map[string]bool
	undoStack []string
	redoStack []string
}

func NewCanvas() *Canvas {
	return &Canvas{
		arena:     make(map[string]Stroke),
		tombstone: make(map[string]bool),
	}
}

// Add records a freshly drawn stroke. Drawing invalidates the redo
// history.
func (c *Canvas) Add(id string, stroke Stroke) {
	c.arena[id] = stroke
	c.undoStack = append(c.undoStack, id)
	c.redoStack = nil
}

// Undo tombstones the most recent live stroke and returns its id so the
// caller can remove it from the shared document.
func (c *Canvas) Undo() (string, bool) {
	if len(c.undoStack) == 0 {
		return "", false
	}
	last := len(c.undoStack) - 1
	id := c.undoStack[last]
	c.undoStack = c.undoStack[:last]
	c.tombstone[id] = true
	c.redoStack = append(c.redoStack, id)
	return id, true
}

// Redo revives the most recently undone stroke, returning its id and the
// stroke data to re-publish.
func (c *Canvas) Redo() (string, Stroke, bool) {
	if len(c.redoStack) == 0 {
		return "", Stroke{}, false
	}
	last := len(c.redoStack) - 1
	id := c.redoStack[last]
	c.redoStack = c.redoStack[:last]
	delete(c.tombstone, id)
	c.undoStack = append(c.undoStack, id)
	return id, c.arena[id], true
}

// Clear drops the whole arena; called at every new turn and on an
// explicit canvas clear.
func (c *Canvas) Clear() {
	c.arena = make(map[string]Stroke)
	c.tombstone = make(map[string]bool)
	c.undoStack = nil
	c.redoStack = nil
}

// Live returns the ids of strokes that are drawn and not undone, oldest
// first.
func (c *Canvas) Live() []string {
	out := make([]string, len(c.undoStack))
	copy(out, c.undoStack)
	return out
}
