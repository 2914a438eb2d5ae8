package resume

import (
	"time"

	"github.com/Abraxas-365/jobtrack/internal/pdf"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// ListResumesRequest - DTO for listing the caller's resumes
type ListResumesRequest struct {
	UserID     kernel.UserID
	Pagination kernel.PaginationOptions
}

// ResumeResponse - DTO for resume responses
type ResumeResponse struct {
	Resume
}

type ListResumesResponse struct {
	kernel.Paginated[ResumeResponse]
}

// SignedURLResponse - DTO for a short-lived download link
type SignedURLResponse struct {
	URL       string    `json:"url"`
	ExpiresIn int       `json:"expires_in"`
	ExpiresAt time.Time `json:"expires_at"`
	Filename  string    `json:"filename"`
}

// PageInfoResponse - DTO describing the pages of a resume PDF
type PageInfoResponse struct {
	ResumeID  kernel.ResumeID `json:"resume_id"`
	PageCount int             `json:"page_count"`
	Pages     []pdf.PageSize  `json:"pages"`
}

// ============================================================================
// Mappers
// ============================================================================

func ToResumeResponse(r *Resume) *ResumeResponse {
	return &ResumeResponse{Resume: *r}
}

func ToListResumesResponse(page *kernel.Paginated[Resume]) *ListResumesResponse {
	items := make([]ResumeResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *ToResumeResponse(&page.Items[i]))
	}
	return &ListResumesResponse{
		Paginated: kernel.Paginated[ResumeResponse]{
			Items: items,
			Page:  page.Page,
			Empty: page.Empty,
		},
	}
}
