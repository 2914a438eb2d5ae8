package resumeinfra

import (
	"database/sql"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/resume"
)

// resumeRow represents a row from the resumes table
type resumeRow struct {
	ID               string         `db:"resume_id"`
	UserID           string         `db:"user_id"`
	Name             string         `db:"resume_name"`
	FileURL          string         `db:"file_url"`
	FilePath         sql.NullString `db:"file_path"`
	FileSize         sql.NullInt64  `db:"file_size"`
	OriginalFilename sql.NullString `db:"original_filename"`
	IsDefault        bool           `db:"is_default"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// ToDomain converts a resumeRow to a resume.Resume domain model
func (r *resumeRow) ToDomain() *resume.Resume {
	return &resume.Resume{
		ID:               kernel.ResumeID(r.ID),
		UserID:           kernel.UserID(r.UserID),
		Name:             r.Name,
		FileURL:          r.FileURL,
		FilePath:         r.FilePath.String,
		FileSize:         r.FileSize.Int64,
		OriginalFilename: r.OriginalFilename.String,
		IsDefault:        r.IsDefault,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
