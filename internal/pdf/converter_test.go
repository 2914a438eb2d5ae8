package pdf_test

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/Abraxas-365/jobtrack/internal/pdf"
	"github.com/Abraxas-365/jobtrack/internal/pdf/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	info, err := pdf.Inspect(pdftest.Minimal(3, 612, 792))
	require.NoError(t, err)

	assert.Equal(t, 3, info.PageCount)
	require.Len(t, info.Pages, 3)
	assert.Equal(t, pdf.PageSize{Width: 612, Height: 792}, info.Pages[0])
}

func TestInspect_RejectsGarbage(t *testing.T) {
	_, err := pdf.Inspect([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestRenderPage_ScalesWithZoom(t *testing.T) {
	data := pdftest.Minimal(2, 200, 100)

	img, err := pdf.RenderPage(data, 1, 2)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.InDelta(t, 400, cfg.Width, 1)
	assert.InDelta(t, 200, cfg.Height, 1)

	_, err = pdf.RenderPage(data, 2, 1)
	assert.Error(t, err)
	_, err = pdf.RenderPage(data, 0, 0)
	assert.Error(t, err)
}
