package annotation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/google/uuid"
)

// Type discriminates the annotation variants
type Type string

const (
	TypeText      Type = "text"
	TypeHighlight Type = "highlight"
)

func (t Type) IsValid() bool {
	return t == TypeText || t == TypeHighlight
}

// Color is a CSS hex color, #rgb or #rrggbb
type Color string

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func (c Color) IsValid() bool {
	return hexColor.MatchString(string(c))
}

const (
	DefaultText           = "New Text"
	DefaultFontSize       = 14.0
	MinFontSize           = 8.0
	MaxFontSize           = 72.0
	DefaultTextColor      = Color("#000000")
	DefaultHighlightColor = Color("#ffff00")

	// HighlightOpacity is the fixed fill opacity highlights are drawn with
	HighlightOpacity = 0.4

	// Approximate glyph advance and line height, as multiples of the font size,
	// used for the hit box of text annotations
	TextAdvanceFactor    = 0.6
	TextLineHeightFactor = 1.2
)

// Annotation is either a text note or a highlight rectangle placed on one page.
// Coordinates and sizes are unscaled document units with a top-left origin.
type Annotation struct {
	ID    kernel.AnnotationID `json:"id"`
	Type  Type                `json:"type"`
	Page  int                 `json:"page"`
	X     float64             `json:"x"`
	Y     float64             `json:"y"`
	Color Color               `json:"color"`

	// Text only
	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`

	// Highlight only
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// NewAnnotationID returns an id prefixed with the annotation type
func NewAnnotationID(t Type) kernel.AnnotationID {
	return kernel.AnnotationID(fmt.Sprintf("%s-%s", t, uuid.NewString()))
}

// ============================================================================
// Domain Methods
// ============================================================================

func (a Annotation) IsText() bool {
	return a.Type == TypeText
}

func (a Annotation) IsHighlight() bool {
	return a.Type == TypeHighlight
}

func (a Annotation) OnPage(page int) bool {
	return a.Page == page
}

// Bounds returns the hit box in document coordinates
func (a Annotation) Bounds() Rect {
	if a.IsHighlight() {
		return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	}
	runes := utf8.RuneCountInString(a.Text)
	if runes < 1 {
		runes = 1
	}
	return Rect{
		X:      a.X,
		Y:      a.Y,
		Width:  a.FontSize * TextAdvanceFactor * float64(runes),
		Height: a.FontSize * TextLineHeightFactor,
	}
}

// Contains reports whether a document point falls inside the annotation's bounds
func (a Annotation) Contains(p Point) bool {
	return a.Bounds().Contains(p)
}

// Validate checks the variant fields against pageCount
func (a Annotation) Validate(pageCount int) error {
	if a.ID.IsEmpty() {
		return ErrInvalidAnnotation().WithDetail("field", "id")
	}
	if a.Page < 0 || a.Page >= pageCount {
		return ErrInvalidPage().WithDetails(map[string]any{"page": a.Page, "page_count": pageCount})
	}
	if !a.Color.IsValid() {
		return ErrInvalidColor().WithDetail("color", a.Color)
	}
	switch a.Type {
	case TypeText:
		if a.FontSize <= 0 {
			return ErrInvalidFontSize().WithDetail("font_size", a.FontSize)
		}
	case TypeHighlight:
		if a.Width <= 0 || a.Height <= 0 {
			return ErrInvalidAnnotation().WithDetails(map[string]any{"width": a.Width, "height": a.Height})
		}
	default:
		return ErrInvalidAnnotation().WithDetail("type", a.Type)
	}
	return nil
}

func cloneList(list []Annotation) []Annotation {
	out := make([]Annotation, len(list))
	copy(out, list)
	return out
}

func indexOf(list []Annotation, id kernel.AnnotationID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func equalLists(a, b []Annotation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
