package annotation

import (
	"context"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// DocumentSource resolves a resume the caller may annotate into an openable document
type DocumentSource interface {
	Open(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID) (*Document, error)
}

// Sink receives the annotation list when the user saves
type Sink interface {
	Save(ctx context.Context, set AnnotationSet) error
}

// Repository persists saved annotation sets
type Repository interface {
	Sink
	GetByResume(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID) (*AnnotationSet, error)
}

// SessionStore keeps editor sessions between requests
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id kernel.SessionID) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id kernel.SessionID) error
	// Count returns the number of live sessions
	Count(ctx context.Context) (int, error)
}
