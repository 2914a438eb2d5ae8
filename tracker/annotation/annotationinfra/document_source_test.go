package annotationinfra

import (
	"context"
	"testing"

	"github.com/Abraxas-365/jobtrack/internal/pdf/pdftest"
	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/Abraxas-365/jobtrack/tracker/resume"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumesrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResumes map[kernel.ResumeID]resume.Resume

func (s stubResumes) GetByID(_ context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	r, ok := s[id]
	if !ok {
		return nil, resume.ErrResumeNotFound()
	}
	return &r, nil
}

func (s stubResumes) ListByUser(context.Context, kernel.UserID, kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	return &kernel.Paginated[resume.Resume]{Empty: true}, nil
}

func TestResumeDocumentSource_Open(t *testing.T) {
	ctx := context.Background()
	files := fsxmem.New("http://files.local")
	require.NoError(t, files.WriteFile(ctx, "resumes/cv.pdf", pdftest.Minimal(3, 612, 792)))

	repo := stubResumes{
		"cv":    {ID: "cv", UserID: "user-1", Name: "My CV", FilePath: "resumes/cv.pdf"},
		"other": {ID: "other", UserID: "user-2", FilePath: "resumes/cv.pdf"},
	}
	source := NewResumeDocumentSource(resumesrv.NewService(repo, files, 0))

	doc, err := source.Open(ctx, "user-1", "cv")
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, "My CV.pdf", doc.Filename)
	assert.Contains(t, doc.URL, "http://files.local/resumes/cv.pdf")
	assert.False(t, doc.URLExpiresAt.IsZero())
	assert.Equal(t, annotation.PageSize{Width: 612, Height: 792}, doc.Pages[2])

	_, err = source.Open(ctx, "user-1", "other")
	assert.True(t, errx.IsCode(err, resume.CodeAccessDenied))

	_, err = source.Open(ctx, "user-1", "missing")
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}
