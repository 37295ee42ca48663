package geom

import "strings"

// Segment is one command of an SVG path.
type Segment interface {
	write(b *strings.Builder)
}

// MoveTo starts a new subpath.
type MoveTo struct{ P Point }

// CubicTo draws a cubic Bézier curve.
type CubicTo struct{ C1, C2, P Point }

// QuadTo draws a quadratic Bézier curve.
type QuadTo struct{ C, P Point }

// ArcTo draws an elliptical arc. Sweep true is the positive-angle (clockwise on
// screen) direction.
type ArcTo struct {
	RX, RY   float64
	Rotation float64
	LargeArc bool
	Sweep    bool
	P        Point
}

// Close closes the current subpath.
type Close struct{}

func (s MoveTo) write(b *strings.Builder) {
	b.WriteByte('M')
	s.P.write(b)
}

func (s CubicTo) write(b *strings.Builder) {
	b.WriteByte('C')
	s.C1.write(b)
	b.WriteByte(' ')
	s.C2.write(b)
	b.WriteByte(' ')
	s.P.write(b)
}

func (s QuadTo) write(b *strings.Builder) {
	b.WriteByte('Q')
	s.C.write(b)
	b.WriteByte(' ')
	s.P.write(b)
}

func (s ArcTo) write(b *strings.Builder) {
	b.WriteString("A ")
	b.WriteString(FormatFloat(s.RX))
	b.WriteByte(' ')
	b.WriteString(FormatFloat(s.RY))
	b.WriteByte(' ')
	b.WriteString(FormatFloat(s.Rotation))
	b.WriteByte(' ')
	b.WriteString(flag(s.LargeArc))
	b.WriteByte(' ')
	b.WriteString(flag(s.Sweep))
	b.WriteByte(' ')
	s.P.write(b)
}

func (Close) write(b *strings.Builder) {
	b.WriteByte('Z')
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Path is an ordered list of segments.
type Path []Segment

// String renders the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for _, s := range p {
		s.write(&b)
	}
	return b.String()
}

// MarshalText lets paths be embedded directly in JSON documents.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
