package pdf

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"math"

	"github.com/gen2brain/go-fitz" // Lightweight PDF renderer
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// BaseDPI is the resolution at which one PDF point maps to one pixel
const BaseDPI = 72.0

// PageSize is a page's media box size in PDF points
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Info describes the page structure of a PDF
type Info struct {
	PageCount int        `json:"page_count"`
	Pages     []PageSize `json:"pages"`
}

// Inspect reads the page count and page sizes of a PDF
func Inspect(pdfData []byte) (*Info, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(pdfData), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	info := &Info{
		PageCount: ctx.PageCount,
		Pages:     make([]PageSize, 0, len(dims)),
	}
	for _, d := range dims {
		info.Pages = append(info.Pages, PageSize{Width: d.Width, Height: d.Height})
	}
	return info, nil
}

// RenderPage rasterizes one 0-based page to JPEG at the given zoom scale
func RenderPage(pdfData []byte, page int, scale float64) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}

	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if page < 0 || page >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range [0, %d)", page, doc.NumPage())
	}

	img, err := doc.ImageDPI(page, BaseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", page, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", page, err)
	}

	return buf.Bytes(), nil
}
