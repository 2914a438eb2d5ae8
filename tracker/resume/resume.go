package resume

import (
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// Resume is an uploaded resume PDF owned by one user
type Resume struct {
	ID               kernel.ResumeID `json:"resume_id"`
	UserID           kernel.UserID   `json:"user_id"`
	Name             string          `json:"resume_name"`
	FileURL          string          `json:"file_url"`
	FilePath         string          `json:"file_path"`
	FileSize         int64           `json:"file_size"`
	OriginalFilename string          `json:"original_filename"`
	IsDefault        bool            `json:"is_default"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (r *Resume) BelongsTo(userID kernel.UserID) bool {
	return r.UserID == userID
}

// StoragePath is the object key of the PDF. Older rows only carry the file URL.
func (r *Resume) StoragePath() string {
	if r.FilePath != "" {
		return r.FilePath
	}
	return strings.TrimPrefix(path.Clean("/"+urlPath(r.FileURL)), "/")
}

// DownloadName is the filename offered when the PDF is downloaded
func (r *Resume) DownloadName() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = strings.TrimSuffix(r.OriginalFilename, path.Ext(r.OriginalFilename))
	}
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}

func urlPath(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
		if j := strings.Index(raw, "/"); j >= 0 {
			raw = raw[j:]
		} else {
			raw = ""
		}
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
