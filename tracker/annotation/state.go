package annotation

import (
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// EditorState is the complete, serialisable state of an Editor
type EditorState struct {
	Tool           Tool                `json:"tool"`
	Page           int                 `json:"page"`
	PageCount      int                 `json:"page_count"`
	Viewport       Viewport            `json:"viewport"`
	Selected       kernel.AnnotationID `json:"selected,omitempty"`
	Annotations    []Annotation        `json:"annotations"`
	History        HistoryState        `json:"history"`
	TextStyle      TextStyle           `json:"text_style"`
	HighlightColor Color               `json:"highlight_color"`
	DragStart      *Point              `json:"drag_start,omitempty"`
	Saving         bool                `json:"saving"`
	SavingSince    *time.Time          `json:"saving_since,omitempty"`
}

// State snapshots the editor
func (e *Editor) State() EditorState {
	var drag *Point
	if e.drag != nil {
		d := *e.drag
		drag = &d
	}
	var since *time.Time
	if e.saving && !e.savingSince.IsZero() {
		t := e.savingSince
		since = &t
	}
	return EditorState{
		Tool:           e.tool,
		Page:           e.page,
		PageCount:      e.pageCount,
		Viewport:       e.viewport,
		Selected:       e.selected,
		Annotations:    cloneList(e.annotations),
		History:        e.history.State(),
		TextStyle:      e.textStyle,
		HighlightColor: e.highlightColor,
		DragStart:      drag,
		Saving:         e.saving,
		SavingSince:    since,
	}
}

// RestoreEditor rebuilds an editor from a snapshot taken with State
func RestoreEditor(state EditorState, opts ...Option) (*Editor, error) {
	e, err := NewEditor(state.PageCount, opts...)
	if err != nil {
		return nil, err
	}

	if state.Tool != "" {
		if err := e.SelectTool(state.Tool); err != nil {
			return nil, err
		}
	}
	if err := e.checkPage(state.Page); err != nil {
		return nil, err
	}
	e.page = state.Page

	if state.Viewport.Scale != 0 {
		e.viewport.Scale = e.zoom.Clamp(state.Viewport.Scale)
	}
	e.viewport.Origin = state.Viewport.Origin

	for _, a := range state.Annotations {
		if err := a.Validate(e.pageCount); err != nil {
			return nil, ErrInvalidState().WithCause(err).WithDetail("annotation_id", a.ID)
		}
	}
	e.annotations = cloneList(state.Annotations)

	h, err := RestoreHistory(state.History)
	if err != nil {
		return nil, err
	}
	e.history = h

	if state.TextStyle.FontSize != 0 {
		if err := e.SetTextStyle(state.TextStyle); err != nil {
			return nil, err
		}
	}
	if state.HighlightColor != "" {
		if err := e.SetHighlightColor(state.HighlightColor); err != nil {
			return nil, err
		}
	}

	if indexOf(e.annotations, state.Selected) >= 0 {
		e.selected = state.Selected
	}
	if state.DragStart != nil && e.tool == ToolHighlight {
		d := *state.DragStart
		e.drag = &d
	}
	e.saving = state.Saving
	if state.SavingSince != nil {
		e.savingSince = *state.SavingSince
	}
	e.releaseStaleSave()
	return e, nil
}
