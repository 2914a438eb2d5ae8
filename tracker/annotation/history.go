package annotation

import "github.com/Abraxas-365/jobtrack/pkg/kernel"

// History is a linear log of full annotation-list snapshots with a cursor.
// Entry 0 is always the empty list the editor opened with.
type History struct {
	entries [][]Annotation
	cursor  int
}

// HistoryState is the serialisable form of a History
type HistoryState struct {
	Entries [][]Annotation `json:"entries"`
	Cursor  int            `json:"cursor"`
}

func NewHistory() *History {
	return &History{
		entries: [][]Annotation{{}},
		cursor:  0,
	}
}

// RestoreHistory rebuilds a History from its serialised form
func RestoreHistory(state HistoryState) (*History, error) {
	if len(state.Entries) == 0 {
		return NewHistory(), nil
	}
	if state.Cursor < 0 || state.Cursor >= len(state.Entries) {
		return nil, ErrInvalidState().WithDetails(map[string]any{
			"history_cursor": state.Cursor,
			"history_length": len(state.Entries),
		})
	}

	entries := make([][]Annotation, len(state.Entries))
	for i, e := range state.Entries {
		entries[i] = cloneList(e)
	}
	return &History{entries: entries, cursor: state.Cursor}, nil
}

// Push drops every entry after the cursor, appends a copy of list and moves the cursor to it
func (h *History) Push(list []Annotation) {
	h.entries = append(h.entries[:h.cursor+1], cloneList(list))
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back and returns a copy of that snapshot
func (h *History) Undo() ([]Annotation, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves the cursor forward and returns a copy of that snapshot
func (h *History) Redo() ([]Annotation, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.Current(), true
}

func (h *History) CanUndo() bool {
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Current returns a copy of the snapshot at the cursor
func (h *History) Current() []Annotation {
	return cloneList(h.entries[h.cursor])
}

func (h *History) Cursor() int {
	return h.cursor
}

func (h *History) Len() int {
	return len(h.entries)
}

// contains reports whether any entry holds an annotation with id
func (h *History) contains(id kernel.AnnotationID) bool {
	for _, e := range h.entries {
		for _, a := range e {
			if a.ID == id {
				return true
			}
		}
	}
	return false
}

// matches reports whether list equals the snapshot at the cursor
func (h *History) matches(list []Annotation) bool {
	return equalLists(list, h.entries[h.cursor])
}

func (h *History) State() HistoryState {
	entries := make([][]Annotation, len(h.entries))
	for i, e := range h.entries {
		entries[i] = cloneList(e)
	}
	return HistoryState{Entries: entries, Cursor: h.cursor}
}
