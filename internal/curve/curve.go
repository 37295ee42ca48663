// Package curve generates the SVG geometry of direct and cross-hierarchy edges.
package curve

import (
	"math"

	"github.com/matsen/ringmap/internal/geom"
)

const (
	// AngleThreshold is the separation below which a cross-hierarchy edge is
	// drawn as a plain bow.
	AngleThreshold = 20.0
	// EndpointSweep is how far each quadratic end segment travels along the arc.
	EndpointSweep = AngleThreshold / 2
	// Padding separates the innermost fan arc from the scheme band edge.
	Padding = 10.0
	// MaxBand is the radial room shared by all arcs of one bucket.
	MaxBand = 80.0
)

// Endpoint is a polar edge endpoint.
type Endpoint struct {
	Angle  float64
	Radius float64
}

// Point projects the endpoint.
func (e Endpoint) Point() geom.Point {
	return geom.Project(e.Angle, e.Radius)
}

// Shape names the geometry family chosen for an edge.
type Shape int

const (
	Bow Shape = iota
	Hybrid
)

func (s Shape) String() string {
	if s == Hybrid {
		return "hybrid"
	}
	return "bow"
}

// Direct returns a cubic curve from one endpoint to the other whose control
// points both sit at the mean radius, one on each endpoint's angle.
func Direct(from, to Endpoint) geom.Path {
	mid := (from.Radius + to.Radius) / 2
	return geom.Path{
		geom.MoveTo{P: from.Point()},
		geom.CubicTo{
			C1: geom.Project(from.Angle, mid),
			C2: geom.Project(to.Angle, mid),
			P:  to.Point(),
		},
	}
}

// Delta returns the signed angular separation from a to b, normalized into
// (-180, 180].
func Delta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// Fan places a cross-hierarchy edge within its bucket's concentric arcs.
type Fan struct {
	// RingWidth is the width of the scheme band.
	RingWidth float64
	Index     int
	// Total is the number of relations in the bucket.
	Total int
	// Outward puts the arc outside the scheme endpoint's radius.
	Outward bool
}

// Offset returns the radial distance of the arc from the scheme endpoint.
func (f Fan) Offset() float64 {
	offset := f.RingWidth/2 + Padding
	if f.Total > 0 {
		offset += float64(f.Index) * (MaxBand - 2*Padding) / float64(f.Total)
	}
	return offset
}

// Radius returns the arc radius around a scheme endpoint at base.
func (f Fan) Radius(base float64) float64 {
	if f.Outward {
		return base + f.Offset()
	}
	return base - f.Offset()
}

// Indirect returns the path of a relation drawn from a member endpoint to its
// scheme endpoint. Small separations reuse the Direct bow; larger ones leave
// the member radially, travel along a fan arc and enter the scheme radially.
func Indirect(from, to Endpoint, fan Fan) (geom.Path, Shape) {
	delta := Delta(from.Angle, to.Angle)
	if math.Abs(delta) < AngleThreshold {
		return Direct(from, to), Bow
	}

	clockwise := delta > 0
	sweep := -EndpointSweep
	if clockwise {
		sweep = EndpointSweep
	}
	r := fan.Radius(to.Radius)

	return geom.Path{
		geom.MoveTo{P: from.Point()},
		geom.QuadTo{
			C: geom.Project(from.Angle, r),
			P: geom.Project(from.Angle+sweep, r),
		},
		geom.ArcTo{
			RX:       r,
			RY:       r,
			LargeArc: math.Abs(delta)-2*EndpointSweep > 180,
			Sweep:    clockwise,
			P:        geom.Project(to.Angle-sweep, r),
		},
		geom.QuadTo{
			C: geom.Project(to.Angle, r),
			P: to.Point(),
		},
	}, Hybrid
}

// Annulus returns a closed ring between two radii, filled with the even-odd
// rule.
func Annulus(inner, outer float64) geom.Path {
	p := circle(outer)
	if inner > 0 {
		p = append(p, circle(inner)...)
	}
	return p
}

func circle(r float64) geom.Path {
	return geom.Path{
		geom.MoveTo{P: geom.Point{X: r}},
		geom.ArcTo{RX: r, RY: r, LargeArc: true, Sweep: true, P: geom.Point{X: -r}},
		geom.ArcTo{RX: r, RY: r, LargeArc: true, Sweep: true, P: geom.Point{X: r}},
		geom.Close{},
	}
}
