package resumesrv_test

import (
	"bytes"
	"context"
	"image/jpeg"
	"net/url"
	"testing"
	"time"

	"github.com/Abraxas-365/jobtrack/internal/pdf/pdftest"
	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/fsx/fsxmem"
	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/resume"
	"github.com/Abraxas-365/jobtrack/tracker/resume/resumesrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	resumes map[kernel.ResumeID]resume.Resume
}

func (r *fakeRepo) GetByID(_ context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	res, ok := r.resumes[id]
	if !ok {
		return nil, resume.ErrResumeNotFound().WithDetail("resume_id", id)
	}
	return &res, nil
}

func (r *fakeRepo) ListByUser(_ context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	var items []resume.Resume
	for _, res := range r.resumes {
		if res.UserID == userID {
			items = append(items, res)
		}
	}
	return kernel.NewPaginated(items, opts, len(items)), nil
}

func setup(t *testing.T) (*resumesrv.Service, *fsxmem.MemFileSystem) {
	t.Helper()
	files := fsxmem.New("http://files.local")
	require.NoError(t, files.WriteFile(context.Background(), "resumes/user-1/cv.pdf", pdftest.Minimal(2, 300, 400)))
	require.NoError(t, files.WriteFile(context.Background(), "resumes/user-1/broken.pdf", []byte("not a pdf")))

	repo := &fakeRepo{resumes: map[kernel.ResumeID]resume.Resume{
		"cv":      {ID: "cv", UserID: "user-1", Name: "Backend CV", FilePath: "resumes/user-1/cv.pdf", OriginalFilename: "cv.pdf"},
		"broken":  {ID: "broken", UserID: "user-1", Name: "Broken", FilePath: "resumes/user-1/broken.pdf"},
		"missing": {ID: "missing", UserID: "user-1", Name: "Gone", FilePath: "resumes/user-1/gone.pdf"},
		"other":   {ID: "other", UserID: "user-2", Name: "Not yours", FilePath: "resumes/user-2/cv.pdf"},
	}}
	return resumesrv.NewService(repo, files, 0), files
}

func TestGetResume_Ownership(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	res, err := svc.GetResume(ctx, "user-1", "cv")
	require.NoError(t, err)
	assert.Equal(t, "Backend CV", res.Name)

	_, err = svc.GetResume(ctx, "user-1", "other")
	assert.True(t, errx.IsCode(err, resume.CodeAccessDenied))

	_, err = svc.GetResume(ctx, "user-1", "nope")
	assert.True(t, errx.IsCode(err, resume.CodeResumeNotFound))
}

func TestListResumes_NormalizesPagination(t *testing.T) {
	svc, _ := setup(t)

	list, err := svc.ListResumes(context.Background(), resume.ListResumesRequest{UserID: "user-1"})

	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 1, list.Page.Number)
	assert.Equal(t, kernel.DefaultPageSize, list.Page.Size)
}

func TestGetSignedURL(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	before := time.Now()
	signed, err := svc.GetSignedURL(ctx, "user-1", "cv", false)
	require.NoError(t, err)

	assert.Equal(t, 300, signed.ExpiresIn)
	assert.Equal(t, "Backend CV.pdf", signed.Filename)
	assert.WithinDuration(t, before.Add(5*time.Minute), signed.ExpiresAt, 5*time.Second)

	u, err := url.Parse(signed.URL)
	require.NoError(t, err)
	assert.Equal(t, "/resumes/user-1/cv.pdf", u.Path)
	assert.Empty(t, u.Query().Get("download"))

	download, err := svc.GetSignedURL(ctx, "user-1", "cv", true)
	require.NoError(t, err)
	u, err = url.Parse(download.URL)
	require.NoError(t, err)
	assert.Equal(t, "Backend CV.pdf", u.Query().Get("download"))
}

func TestGetSignedURL_Errors(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.GetSignedURL(ctx, "user-1", "other", false)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	_, err = svc.GetSignedURL(ctx, "user-1", "missing", false)
	assert.True(t, errx.IsCode(err, resume.CodeFileNotFound))
}

func TestGetPageInfo(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	info, err := svc.GetPageInfo(ctx, "user-1", "cv")
	require.NoError(t, err)
	assert.Equal(t, 2, info.PageCount)
	require.Len(t, info.Pages, 2)
	assert.Equal(t, 300.0, info.Pages[0].Width)
	assert.Equal(t, 400.0, info.Pages[0].Height)

	_, err = svc.GetPageInfo(ctx, "user-1", "broken")
	assert.True(t, errx.IsCode(err, resume.CodeInvalidFileFormat))
}

func TestRenderPage(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	img, err := svc.RenderPage(ctx, "user-1", "cv", 1, 0.5)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.InDelta(t, 150, cfg.Width, 1)
	assert.InDelta(t, 200, cfg.Height, 1)

	_, err = svc.RenderPage(ctx, "user-1", "cv", 2, 1)
	assert.True(t, errx.IsCode(err, resume.CodeInvalidPage))

	_, err = svc.RenderPage(ctx, "user-1", "cv", 0, 3)
	assert.True(t, errx.IsCode(err, resume.CodeInvalidScale))

	_, err = svc.RenderPage(ctx, "user-1", "other", 0, 1)
	assert.True(t, errx.IsCode(err, resume.CodeAccessDenied))
}
