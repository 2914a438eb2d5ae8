package annotation

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains is inclusive on every edge
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// RectFromDrag normalises a drag so the origin is the min corner and extents are positive
func RectFromDrag(start, end Point) Rect {
	return Rect{
		X:      math.Min(start.X, end.X),
		Y:      math.Min(start.Y, end.Y),
		Width:  math.Abs(end.X - start.X),
		Height: math.Abs(end.Y - start.Y),
	}
}

// Viewport maps between screen space (relative to the canvas origin) and unscaled document space
type Viewport struct {
	Scale  float64 `json:"scale"`
	Origin Point   `json:"origin"`
}

func (v Viewport) ToDocument(screen Point) Point {
	return Point{
		X: (screen.X - v.Origin.X) / v.Scale,
		Y: (screen.Y - v.Origin.Y) / v.Scale,
	}
}

func (v Viewport) ToScreen(doc Point) Point {
	return Point{
		X: doc.X*v.Scale + v.Origin.X,
		Y: doc.Y*v.Scale + v.Origin.Y,
	}
}

func (v Viewport) RectToScreen(r Rect) Rect {
	p := v.ToScreen(Point{X: r.X, Y: r.Y})
	return Rect{X: p.X, Y: p.Y, Width: r.Width * v.Scale, Height: r.Height * v.Scale}
}

// ZoomConfig bounds the viewport scale
type ZoomConfig struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Initial float64 `json:"initial"`
}

func DefaultZoom() ZoomConfig {
	return ZoomConfig{Min: 0.5, Max: 2.0, Step: 0.1, Initial: 1.0}
}

// Clamp bounds s and rounds it to two decimals so repeated steps do not drift
func (z ZoomConfig) Clamp(s float64) float64 {
	if math.IsNaN(s) {
		return z.Initial
	}
	s = math.Round(s*100) / 100
	return math.Max(z.Min, math.Min(z.Max, s))
}

func (z ZoomConfig) In(s float64) float64 {
	return z.Clamp(s + z.Step)
}

func (z ZoomConfig) Out(s float64) float64 {
	return z.Clamp(s - z.Step)
}

// Percent is the scale as the whole percentage shown to users
func Percent(scale float64) int {
	return int(math.Round(scale * 100))
}
