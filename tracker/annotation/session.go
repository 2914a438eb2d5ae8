package annotation

import (
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// PageSize is a page's size in unscaled document units
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the PDF an editor session is opened on
type Document struct {
	ResumeID     kernel.ResumeID `json:"resume_id"`
	Filename     string          `json:"filename"`
	URL          string          `json:"url"`
	URLExpiresAt time.Time       `json:"url_expires_at"`
	PageCount    int             `json:"page_count"`
	Pages        []PageSize      `json:"pages,omitempty"`
}

// PageSize returns the size of a page, if known
func (d Document) PageSize(page int) (PageSize, bool) {
	if page < 0 || page >= len(d.Pages) {
		return PageSize{}, false
	}
	return d.Pages[page], true
}

// Session is one user's open editor on one document
type Session struct {
	ID        kernel.SessionID `json:"id"`
	UserID    kernel.UserID    `json:"user_id"`
	Document  Document         `json:"document"`
	State     EditorState      `json:"state"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// AnnotationSet is the saved result of an editor session
type AnnotationSet struct {
	ResumeID    kernel.ResumeID  `json:"resume_id"`
	UserID      kernel.UserID    `json:"user_id"`
	SessionID   kernel.SessionID `json:"session_id"`
	Annotations []Annotation     `json:"annotations"`
	SavedAt     time.Time        `json:"saved_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// NewSession wraps a fresh editor for doc
func NewSession(id kernel.SessionID, userID kernel.UserID, doc Document, e *Editor) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		UserID:    userID,
		Document:  doc,
		State:     e.State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) BelongsTo(userID kernel.UserID) bool {
	return s.UserID == userID
}

// Editor restores the session's editor
func (s *Session) Editor(opts ...Option) (*Editor, error) {
	return RestoreEditor(s.State, opts...)
}

// Apply stores the editor's state back into the session
func (s *Session) Apply(e *Editor) {
	s.State = e.State()
	s.UpdatedAt = time.Now()
}

// AnnotationSet builds the payload handed to the sink
func (s *Session) AnnotationSet(list []Annotation) AnnotationSet {
	return AnnotationSet{
		ResumeID:    s.Document.ResumeID,
		UserID:      s.UserID,
		SessionID:   s.ID,
		Annotations: list,
		SavedAt:     time.Now(),
	}
}
