package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/matsen/ringmap/internal/geom"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// ErrNoDimensions is returned when a layout is requested before the drawing
// surface has a size.
var ErrNoDimensions = errors.New("layout dimensions not set")

// Ring geometry relative to the outer radius R = min(width, height)/2.
const (
	ModelBandWidth   = 180.0 // model band: [R-180, R]
	SchemeBandInset  = 260.0 // scheme band: [R-320, R-260]
	SchemeBandWidth  = 60.0
	SceneBandInset   = 400.0 // scene band: [R-460, R-400]
	SceneBandWidth   = 60.0
	SceneAnchorInset = 410.0 // first scene level sits at R-410
	SceneDepthOffset = 40.0  // second scene level pulled in by this much after halving
)

// Band is a radial interval [Inner, Outer].
type Band struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// Width returns Outer - Inner.
func (b Band) Width() float64 {
	return b.Outer - b.Inner
}

// Mid returns the middle radius of the band.
func (b Band) Mid() float64 {
	return (b.Inner + b.Outer) / 2
}

// Contains reports whether r lies within the band, allowing for rounding.
func (b Band) Contains(r float64) bool {
	const eps = 1e-9
	return r >= b.Inner-eps && r <= b.Outer+eps
}

// Ring is the radial budget of one hierarchy.
type Ring struct {
	Band Band `json:"band"`
	// Extent is the radius assigned to leaves by the cluster layout.
	Extent float64 `json:"extent"`
	// DepthOffset is subtracted from halved depth-2 radii (scene only).
	DepthOffset float64 `json:"depth_offset,omitempty"`
}

// Config holds the drawing dimensions and per-hierarchy rings.
type Config struct {
	Width  float64                      `json:"width"`
	Height float64                      `json:"height"`
	Rings  map[taxonomy.ModuleType]Ring `json:"rings"`
}

// NewConfig derives the default rings from the drawing size.
func NewConfig(width, height float64) (Config, error) {
	if !(width > 0) || !(height > 0) {
		return Config{}, fmt.Errorf("%w: %gx%g", ErrNoDimensions, width, height)
	}
	cfg := Config{Width: width, Height: height}
	cfg.Rings = DefaultRings(cfg.Radius())
	return cfg, nil
}

// DefaultRings returns the standard ring geometry for an outer radius.
func DefaultRings(radius float64) map[taxonomy.ModuleType]Ring {
	return map[taxonomy.ModuleType]Ring{
		taxonomy.Model: {
			Band:   Band{Inner: radius - ModelBandWidth, Outer: radius},
			Extent: radius - ModelBandWidth/2,
		},
		taxonomy.Scheme: {
			Band:   Band{Inner: radius - SchemeBandInset - SchemeBandWidth, Outer: radius - SchemeBandInset},
			Extent: (radius - SchemeBandInset - SchemeBandWidth/2) * 2,
		},
		taxonomy.Scene: {
			Band:        Band{Inner: radius - SceneBandInset - SceneBandWidth, Outer: radius - SceneBandInset},
			Extent:      (radius - SceneAnchorInset) * 2,
			DepthOffset: SceneDepthOffset,
		},
	}
}

// Radius returns the outer radius of the diagram.
func (c Config) Radius() float64 {
	return math.Min(c.Width/2, c.Height/2)
}

// Center returns the pixel position of the diagram origin.
func (c Config) Center() geom.Point {
	return geom.Point{X: c.Width / 2, Y: c.Height / 2}
}

// Ring returns the ring of a hierarchy.
func (c Config) Ring(t taxonomy.ModuleType) Ring {
	return c.Rings[t]
}
