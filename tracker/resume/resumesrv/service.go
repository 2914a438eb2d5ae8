package resumesrv

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Abraxas-365/jobtrack/internal/pdf"
	"github.com/Abraxas-365/jobtrack/pkg/fsx"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/resume"
)

const (
	DefaultSignedURLTTL = 5 * time.Minute

	MinRenderScale     = 0.5
	MaxRenderScale     = 2.0
	DefaultRenderScale = 1.0
)

type Service struct {
	repo         resume.Repository
	files        fsx.SignedFileSystem
	signedURLTTL time.Duration
	now          func() time.Time
}

// NewService creates a new resume service. A zero signedURLTTL uses DefaultSignedURLTTL.
func NewService(repo resume.Repository, files fsx.SignedFileSystem, signedURLTTL time.Duration) *Service {
	if signedURLTTL <= 0 {
		signedURLTTL = DefaultSignedURLTTL
	}
	return &Service{
		repo:         repo,
		files:        files,
		signedURLTTL: signedURLTTL,
		now:          time.Now,
	}
}

// ============================================================================
// Resume Lookup
// ============================================================================

// GetResume returns a resume the user owns
func (s *Service) GetResume(ctx context.Context, userID kernel.UserID, id kernel.ResumeID) (*resume.ResumeResponse, error) {
	r, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return resume.ToResumeResponse(r), nil
}

// ListResumes lists the user's resumes, newest first
func (s *Service) ListResumes(ctx context.Context, req resume.ListResumesRequest) (*resume.ListResumesResponse, error) {
	page, err := s.repo.ListByUser(ctx, req.UserID, req.Pagination.Normalize())
	if err != nil {
		return nil, err
	}
	return resume.ToListResumesResponse(page), nil
}

// ============================================================================
// File Access
// ============================================================================

// GetSignedURL issues a short-lived URL for reading the resume PDF directly from storage.
// With download set the URL forces an attachment named after the resume.
func (s *Service) GetSignedURL(ctx context.Context, userID kernel.UserID, id kernel.ResumeID, download bool) (*resume.SignedURLResponse, error) {
	r, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	opts := fsx.SignOptions{}
	if download {
		opts.DownloadName = r.DownloadName()
	}

	issuedAt := s.now()
	url, err := s.files.SignedURL(ctx, r.StoragePath(), s.signedURLTTL, opts)
	if err != nil {
		if errors.Is(err, fsx.ErrNotExist) {
			return nil, resume.ErrFileNotFound().WithDetail("resume_id", id)
		}
		return nil, resume.ErrSignedURLFailed().
			WithCause(err).
			WithDetail("resume_id", id)
	}

	logx.Debugf("Issued signed URL for resume %s (ttl %s)", id, s.signedURLTTL)

	return &resume.SignedURLResponse{
		URL:       url,
		ExpiresIn: int(s.signedURLTTL.Seconds()),
		ExpiresAt: issuedAt.Add(s.signedURLTTL),
		Filename:  r.DownloadName(),
	}, nil
}

// GetPageInfo reads the page count and page sizes of the resume PDF
func (s *Service) GetPageInfo(ctx context.Context, userID kernel.UserID, id kernel.ResumeID) (*resume.PageInfoResponse, error) {
	_, data, err := s.readPDF(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		return nil, resume.ErrInvalidFileFormat().
			WithCause(err).
			WithDetail("resume_id", id)
	}

	return &resume.PageInfoResponse{
		ResumeID:  id,
		PageCount: info.PageCount,
		Pages:     info.Pages,
	}, nil
}

// RenderPage rasterizes one 0-based page of the resume to JPEG. A zero scale renders at 100%.
func (s *Service) RenderPage(ctx context.Context, userID kernel.UserID, id kernel.ResumeID, page int, scale float64) ([]byte, error) {
	if scale == 0 {
		scale = DefaultRenderScale
	}
	if math.IsNaN(scale) || scale < MinRenderScale || scale > MaxRenderScale {
		return nil, resume.ErrInvalidScale().
			WithDetail("scale", scale).
			WithDetail("min", MinRenderScale).
			WithDetail("max", MaxRenderScale)
	}
	if page < 0 {
		return nil, resume.ErrInvalidPage().WithDetail("page", page)
	}

	_, data, err := s.readPDF(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		return nil, resume.ErrInvalidFileFormat().
			WithCause(err).
			WithDetail("resume_id", id)
	}
	if page >= info.PageCount {
		return nil, resume.ErrInvalidPage().
			WithDetail("page", page).
			WithDetail("page_count", info.PageCount)
	}

	img, err := pdf.RenderPage(data, page, scale)
	if err != nil {
		return nil, resume.ErrPageRenderFailed().
			WithCause(err).
			WithDetail("resume_id", id).
			WithDetail("page", page)
	}
	return img, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *Service) owned(ctx context.Context, userID kernel.UserID, id kernel.ResumeID) (*resume.Resume, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.BelongsTo(userID) {
		return nil, resume.ErrAccessDenied().WithDetail("resume_id", id)
	}
	return r, nil
}

func (s *Service) readPDF(ctx context.Context, userID kernel.UserID, id kernel.ResumeID) (*resume.Resume, []byte, error) {
	r, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.files.ReadFile(ctx, r.StoragePath())
	if err != nil {
		if errors.Is(err, fsx.ErrNotExist) {
			return nil, nil, resume.ErrFileNotFound().WithDetail("resume_id", id)
		}
		return nil, nil, resume.ErrFileReadFailed().
			WithCause(err).
			WithDetail("resume_id", id).
			WithDetail("file_path", r.StoragePath())
	}
	return r, data, nil
}
