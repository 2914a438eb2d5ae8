package annotationinfra

import (
	"context"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumesrv"
)

// ResumeDocumentSource opens the caller's resumes for annotation
type ResumeDocumentSource struct {
	resumes *resumesrv.Service
}

func NewResumeDocumentSource(resumes *resumesrv.Service) *ResumeDocumentSource {
	return &ResumeDocumentSource{resumes: resumes}
}

// Open checks ownership, signs a URL for the PDF and reads its page layout.
// Resume errors (not found, access denied, unreadable file) pass through unchanged.
func (s *ResumeDocumentSource) Open(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID) (*annotation.Document, error) {
	signed, err := s.resumes.GetSignedURL(ctx, userID, resumeID, false)
	if err != nil {
		return nil, err
	}

	info, err := s.resumes.GetPageInfo(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}

	pages := make([]annotation.PageSize, 0, len(info.Pages))
	for _, p := range info.Pages {
		pages = append(pages, annotation.PageSize{Width: p.Width, Height: p.Height})
	}

	return &annotation.Document{
		ResumeID:     resumeID,
		Filename:     signed.Filename,
		URL:          signed.URL,
		URLExpiresAt: signed.ExpiresAt,
		PageCount:    info.PageCount,
		Pages:        pages,
	}, nil
}
