package annotation

import (
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// OpenSessionRequest - DTO for opening an editor on a resume
type OpenSessionRequest struct {
	ResumeID kernel.ResumeID `json:"resume_id" validate:"required"`
}

// SelectToolRequest - DTO for switching the editor tool
type SelectToolRequest struct {
	Tool Tool `json:"tool" validate:"required,oneof=select text highlight"`
}

// SetPageRequest - DTO for moving to a page (0-based)
type SetPageRequest struct {
	Page int `json:"page" validate:"min=0"`
}

type ZoomAction string

const (
	ZoomIn  ZoomAction = "in"
	ZoomOut ZoomAction = "out"
	ZoomSet ZoomAction = "set"
)

// ZoomRequest - DTO for zooming. Scale is only read for the "set" action.
type ZoomRequest struct {
	Action ZoomAction `json:"action" validate:"required,oneof=in out set"`
	Scale  float64    `json:"scale" validate:"gte=0"`
}

// TextStyleRequest - DTO for the text tool defaults
type TextStyleRequest struct {
	Text     string  `json:"text" validate:"max=1000"`
	FontSize float64 `json:"font_size" validate:"required,min=8,max=72"`
	Color    Color   `json:"color" validate:"required,annotation_color"`
}

// HighlightColorRequest - DTO for the highlight tool color
type HighlightColorRequest struct {
	Color Color `json:"color" validate:"required,annotation_color"`
}

// PointerRequest - DTO for pointer input in screen coordinates.
// Origin, when present, updates the canvas origin before the point is mapped.
type PointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Origin *Point  `json:"origin,omitempty"`
}

func (r PointerRequest) Point() Point {
	return Point{X: r.X, Y: r.Y}
}

// SelectRequest - DTO for selecting an annotation directly
type SelectRequest struct {
	AnnotationID kernel.AnnotationID `json:"annotation_id" validate:"required"`
}

// CreateTextRequest - DTO for placing a text annotation at document coordinates
type CreateTextRequest struct {
	Page     int     `json:"page" validate:"min=0"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text" validate:"max=1000"`
	FontSize float64 `json:"font_size" validate:"omitempty,gt=0"`
	Color    Color   `json:"color" validate:"omitempty,annotation_color"`
}

func (r CreateTextRequest) Input() TextInput {
	return TextInput{Page: r.Page, X: r.X, Y: r.Y, Text: r.Text, FontSize: r.FontSize, Color: r.Color}
}

// CreateHighlightRequest - DTO for placing a highlight at document coordinates
type CreateHighlightRequest struct {
	Page   int     `json:"page" validate:"min=0"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Color  Color   `json:"color" validate:"omitempty,annotation_color"`
}

func (r CreateHighlightRequest) Input() HighlightInput {
	return HighlightInput{Page: r.Page, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Color: r.Color}
}

// UpdateTextRequest - DTO for live text edits
type UpdateTextRequest struct {
	Text string `json:"text" validate:"max=1000"`
}

// ============================================================================
// Responses
// ============================================================================

// DocumentView - the document part of a session response
type DocumentView struct {
	ResumeID     kernel.ResumeID `json:"resume_id"`
	Filename     string          `json:"filename"`
	URL          string          `json:"url"`
	URLExpiresAt time.Time       `json:"url_expires_at"`
	PageCount    int             `json:"page_count"`
	PageSize     *PageSize       `json:"page_size,omitempty"`
}

// RenderedAnnotation - an annotation on the current page with its screen placement
type RenderedAnnotation struct {
	Annotation
	Screen     Rect    `json:"screen"`
	FontSizePx float64 `json:"font_size_px,omitempty"`
	Opacity    float64 `json:"opacity"`
	Selected   bool    `json:"selected"`
}

// SessionResponse - DTO describing everything a client needs to draw the editor
type SessionResponse struct {
	SessionID        kernel.SessionID     `json:"session_id"`
	Document         DocumentView         `json:"document"`
	Tool             Tool                 `json:"tool"`
	Cursor           string               `json:"cursor"`
	Page             int                  `json:"page"`
	PageCount        int                  `json:"page_count"`
	Scale            float64              `json:"scale"`
	ZoomPercent      int                  `json:"zoom_percent"`
	Origin           Point                `json:"origin"`
	Selected         *Annotation          `json:"selected,omitempty"`
	Annotations      []RenderedAnnotation `json:"annotations"`
	TotalAnnotations int                  `json:"total_annotations"`
	TextStyle        TextStyle            `json:"text_style"`
	HighlightColor   Color                `json:"highlight_color"`
	CanUndo          bool                 `json:"can_undo"`
	CanRedo          bool                 `json:"can_redo"`
	HistoryCursor    int                  `json:"history_cursor"`
	HistoryLength    int                  `json:"history_length"`
	Drawing          bool                 `json:"drawing"`
	Saving           bool                 `json:"saving"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// MutationResponse - DTO returned by operations that may change the annotation list
type MutationResponse struct {
	Changed      bool                `json:"changed"`
	AnnotationID kernel.AnnotationID `json:"annotation_id,omitempty"`
	Action       ClickAction         `json:"action,omitempty"`
	Session      *SessionResponse    `json:"session"`
}

// SaveResponse - DTO returned after a successful save
type SaveResponse struct {
	SessionID kernel.SessionID `json:"session_id"`
	ResumeID  kernel.ResumeID  `json:"resume_id"`
	Count     int              `json:"count"`
	SavedAt   time.Time        `json:"saved_at"`
	Closed    bool             `json:"closed"`
}

// AnnotationSetResponse - DTO for a saved annotation set
type AnnotationSetResponse struct {
	ResumeID    kernel.ResumeID `json:"resume_id"`
	Annotations []Annotation    `json:"annotations"`
	Count       int             `json:"count"`
	SavedAt     time.Time       `json:"saved_at"`
}

// ============================================================================
// Mappers
// ============================================================================

// ToSessionResponse renders a session and its restored editor
func ToSessionResponse(s *Session, e *Editor) *SessionResponse {
	vp := e.Viewport()
	visible := e.Visible()
	sel, hasSel := e.Selected()

	rendered := make([]RenderedAnnotation, 0, len(visible))
	for _, a := range visible {
		r := RenderedAnnotation{
			Annotation: a,
			Screen:     vp.RectToScreen(a.Bounds()),
			Opacity:    1,
			Selected:   hasSel && sel.ID == a.ID,
		}
		if a.IsText() {
			r.FontSizePx = a.FontSize * vp.Scale
		} else {
			r.Opacity = HighlightOpacity
		}
		rendered = append(rendered, r)
	}

	doc := DocumentView{
		ResumeID:     s.Document.ResumeID,
		Filename:     s.Document.Filename,
		URL:          s.Document.URL,
		URLExpiresAt: s.Document.URLExpiresAt,
		PageCount:    s.Document.PageCount,
	}
	if ps, ok := s.Document.PageSize(e.Page()); ok {
		doc.PageSize = &ps
	}

	resp := &SessionResponse{
		SessionID:        s.ID,
		Document:         doc,
		Tool:             e.Tool(),
		Cursor:           e.Tool().Cursor(),
		Page:             e.Page(),
		PageCount:        e.PageCount(),
		Scale:            vp.Scale,
		ZoomPercent:      Percent(vp.Scale),
		Origin:           vp.Origin,
		Annotations:      rendered,
		TotalAnnotations: len(e.Annotations()),
		TextStyle:        e.TextStyle(),
		HighlightColor:   e.HighlightColor(),
		CanUndo:          e.CanUndo(),
		CanRedo:          e.CanRedo(),
		HistoryCursor:    e.HistoryCursor(),
		HistoryLength:    e.HistoryLen(),
		Drawing:          e.Drawing(),
		Saving:           e.Saving(),
		UpdatedAt:        s.UpdatedAt,
	}
	if hasSel {
		resp.Selected = &sel
	}
	return resp
}

func ToAnnotationSetResponse(set *AnnotationSet) *AnnotationSetResponse {
	return &AnnotationSetResponse{
		ResumeID:    set.ResumeID,
		Annotations: set.Annotations,
		Count:       len(set.Annotations),
		SavedAt:     set.SavedAt,
	}
}
