package annotationinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PostgresAnnotationRepository struct {
	db *sqlx.DB
}

func NewPostgresAnnotationRepository(db *sqlx.DB) *PostgresAnnotationRepository {
	return &PostgresAnnotationRepository{db: db}
}

// Save replaces the saved annotations of a resume with set, in one transaction
func (r *PostgresAnnotationRepository) Save(ctx context.Context, set annotation.AnnotationSet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return repoError(err, "begin_transaction", set.ResumeID)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO resume_annotation_sets (resume_id, user_id, session_id, annotation_count, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (resume_id, user_id) DO UPDATE
		SET session_id = EXCLUDED.session_id,
			annotation_count = EXCLUDED.annotation_count,
			saved_at = EXCLUDED.saved_at`,
		set.ResumeID, set.UserID, set.SessionID, len(set.Annotations), set.SavedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return annotation.ErrRegistry.New(annotation.CodeResumeNotFoundForSave).
				WithCause(err).
				WithDetail("resume_id", set.ResumeID)
		}
		return repoError(err, "upsert_set", set.ResumeID)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM resume_annotations
		WHERE resume_id = $1 AND user_id = $2`,
		set.ResumeID, set.UserID); err != nil {
		return repoError(err, "clear_annotations", set.ResumeID)
	}

	insert := `
		INSERT INTO resume_annotations (
			resume_id, user_id, annotation_id, position, annotation_type,
			page, x, y, color, text, font_size, width, height
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for i, a := range set.Annotations {
		row := toAnnotationRow(i, a)
		if _, err := tx.ExecContext(ctx, insert,
			set.ResumeID, set.UserID, row.ID, row.Position, row.Type,
			row.Page, row.X, row.Y, row.Color, row.Text, row.FontSize, row.Width, row.Height,
		); err != nil {
			return repoError(err, "insert_annotation", set.ResumeID).WithDetail("annotation_id", a.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return repoError(err, "commit", set.ResumeID)
	}

	logx.Debugf("Stored %d annotations for resume %s", len(set.Annotations), set.ResumeID)
	return nil
}

// GetByResume returns the last saved annotation set of a user's resume
func (r *PostgresAnnotationRepository) GetByResume(ctx context.Context, userID kernel.UserID, resumeID kernel.ResumeID) (*annotation.AnnotationSet, error) {
	var setRow annotationSetRow
	err := r.db.GetContext(ctx, &setRow, `
		SELECT resume_id, user_id, session_id, annotation_count, saved_at
		FROM resume_annotation_sets
		WHERE resume_id = $1 AND user_id = $2`,
		resumeID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, annotation.ErrAnnotationsNotFound().WithDetail("resume_id", resumeID)
		}
		return nil, repoError(err, "get_set", resumeID)
	}

	var rows []annotationRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT annotation_id, position, annotation_type, page, x, y, color,
			text, font_size, width, height
		FROM resume_annotations
		WHERE resume_id = $1 AND user_id = $2
		ORDER BY position ASC`,
		resumeID, userID)
	if err != nil {
		return nil, repoError(err, "list_annotations", resumeID)
	}

	return setRow.ToDomain(rows), nil
}

func repoError(err error, op string, resumeID kernel.ResumeID) *errx.Error {
	return annotation.ErrRegistry.NewWithCause(annotation.CodeRepositoryFailed, err).
		WithDetail("operation", op).
		WithDetail("resume_id", resumeID)
}
