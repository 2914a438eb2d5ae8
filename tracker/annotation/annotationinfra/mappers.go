package annotationinfra

import (
	"database/sql"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
)

// annotationSetRow represents a row from the resume_annotation_sets table
type annotationSetRow struct {
	ResumeID  string    `db:"resume_id"`
	UserID    string    `db:"user_id"`
	SessionID string    `db:"session_id"`
	Count     int       `db:"annotation_count"`
	SavedAt   time.Time `db:"saved_at"`
}

// annotationRow represents a row from the resume_annotations table
type annotationRow struct {
	ID       string          `db:"annotation_id"`
	Position int             `db:"position"`
	Type     string          `db:"annotation_type"`
	Page     int             `db:"page"`
	X        float64         `db:"x"`
	Y        float64         `db:"y"`
	Color    string          `db:"color"`
	Text     sql.NullString  `db:"text"`
	FontSize sql.NullFloat64 `db:"font_size"`
	Width    sql.NullFloat64 `db:"width"`
	Height   sql.NullFloat64 `db:"height"`
}

// ToDomain converts an annotationRow to an annotation.Annotation
func (r *annotationRow) ToDomain() annotation.Annotation {
	a := annotation.Annotation{
		ID:    kernel.AnnotationID(r.ID),
		Type:  annotation.Type(r.Type),
		Page:  r.Page,
		X:     r.X,
		Y:     r.Y,
		Color: annotation.Color(r.Color),
	}
	if a.IsText() {
		a.Text = r.Text.String
		a.FontSize = r.FontSize.Float64
	} else {
		a.Width = r.Width.Float64
		a.Height = r.Height.Float64
	}
	return a
}

func toAnnotationRow(position int, a annotation.Annotation) annotationRow {
	row := annotationRow{
		ID:       a.ID.String(),
		Position: position,
		Type:     string(a.Type),
		Page:     a.Page,
		X:        a.X,
		Y:        a.Y,
		Color:    string(a.Color),
	}
	if a.IsText() {
		row.Text = sql.NullString{String: a.Text, Valid: true}
		row.FontSize = sql.NullFloat64{Float64: a.FontSize, Valid: true}
	} else {
		row.Width = sql.NullFloat64{Float64: a.Width, Valid: true}
		row.Height = sql.NullFloat64{Float64: a.Height, Valid: true}
	}
	return row
}

// ToDomain converts an annotationSetRow and its annotation rows to an annotation.AnnotationSet
func (r *annotationSetRow) ToDomain(rows []annotationRow) *annotation.AnnotationSet {
	list := make([]annotation.Annotation, 0, len(rows))
	for i := range rows {
		list = append(list, rows[i].ToDomain())
	}
	return &annotation.AnnotationSet{
		ResumeID:    kernel.ResumeID(r.ResumeID),
		UserID:      kernel.UserID(r.UserID),
		SessionID:   kernel.SessionID(r.SessionID),
		Annotations: list,
		SavedAt:     r.SavedAt,
	}
}
