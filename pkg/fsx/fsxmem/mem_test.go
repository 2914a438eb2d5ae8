package fsxmem

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/fsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemFileSystem_ReadWrite(t *testing.T) {
	ctx := context.Background()
	fs := New("http://files.local")

	require.NoError(t, fs.WriteFile(ctx, "/resumes/u1/cv.pdf", []byte("%PDF")))

	data, err := fs.ReadFile(ctx, "resumes/u1/cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)

	ok, err := fs.Exists(ctx, "resumes/u1/cv.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = fs.ReadFile(ctx, "resumes/u1/missing.pdf")
	assert.ErrorIs(t, err, fsx.ErrNotExist)
}

func TestMemFileSystem_SignedURL(t *testing.T) {
	ctx := context.Background()
	fs := New("http://files.local/")
	fs.now = func() time.Time { return time.Unix(1000, 0) }
	require.NoError(t, fs.WriteFile(ctx, "cv.pdf", []byte("%PDF")))

	u, err := fs.SignedURL(ctx, "cv.pdf", 5*time.Minute, fsx.SignOptions{DownloadName: "cv.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "http://files.local/cv.pdf?download=cv.pdf&expires=1300", u)

	_, err = fs.SignedURL(ctx, "other.pdf", time.Minute, fsx.SignOptions{})
	assert.ErrorIs(t, err, fsx.ErrNotExist)
}
