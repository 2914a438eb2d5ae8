package resumeinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/resume"
	"github.com/jmoiron/sqlx"
)

const resumeColumns = `resume_id, user_id, resume_name, file_url, file_path, file_size,
	original_filename, is_default, created_at, updated_at`

type PostgresResumeRepository struct {
	db *sqlx.DB
}

func NewPostgresResumeRepository(db *sqlx.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

// GetByID retrieves a resume by ID
func (r *PostgresResumeRepository) GetByID(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	var row resumeRow
	err := r.db.GetContext(ctx, &row, `SELECT `+resumeColumns+` FROM resumes WHERE resume_id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, resume.ErrResumeNotFound().WithDetail("resume_id", id)
		}
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeRepositoryFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "get_by_id")
	}
	return row.ToDomain(), nil
}

// ListByUser lists a user's resumes, default first then newest first
func (r *PostgresResumeRepository) ListByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID); err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeRepositoryFailed, err).
			WithDetail("user_id", userID).
			WithDetail("operation", "count_by_user")
	}

	var rows []resumeRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+resumeColumns+`
		FROM resumes
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeRepositoryFailed, err).
			WithDetail("user_id", userID).
			WithDetail("operation", "list_by_user")
	}

	items := make([]resume.Resume, 0, len(rows))
	for i := range rows {
		items = append(items, *rows[i].ToDomain())
	}
	return kernel.NewPaginated(items, opts, total), nil
}
