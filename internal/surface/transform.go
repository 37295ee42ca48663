package surface

import (
	"math"

	"github.com/matsen/ringmap/internal/geom"
)

// Transform is the zoom/pan transform applied to the whole scene:
// screen = (X, Y) + K * scene.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity returns the unscaled transform centered on the surface.
func Identity(width, height float64) Transform {
	return Transform{X: width / 2, Y: height / 2, K: 1}
}

// Apply maps a scene point to the screen.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Point{X: t.X + t.K*p.X, Y: t.Y + t.K*p.Y}
}

// Invert maps a screen point back into the scene.
func (t Transform) Invert(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// ScaleAt multiplies the scale by factor, clamped to [MinScale, MaxScale],
// keeping the screen point p fixed.
func (t Transform) ScaleAt(p geom.Point, factor float64) Transform {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return t
	}
	k := clamp(t.K*factor, MinScale, MaxScale)
	ratio := k / t.K
	return Transform{
		X: p.X - (p.X-t.X)*ratio,
		Y: p.Y - (p.Y-t.Y)*ratio,
		K: k,
	}
}

// Translate shifts the transform by a screen offset.
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	s := "translate(" + geom.Point{X: t.X, Y: t.Y}.String() + ")"
	if t.K != 1 {
		s += " scale(" + geom.FormatFloat(t.K) + ")"
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
