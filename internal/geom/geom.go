// Package geom provides the polar projection and SVG path primitives shared by
// every draw routine.
package geom

import (
	"math"
	"strconv"
	"strings"
)

// Point is a Cartesian coordinate relative to the diagram origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Project maps a polar coordinate (degrees, radius) onto the plane.
func Project(angle, radius float64) Point {
	theta := angle * math.Pi / 180
	return Point{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
}

// String formats the point as "x,y", the form used in SVG path data.
func (p Point) String() string {
	var b strings.Builder
	p.write(&b)
	return b.String()
}

func (p Point) write(b *strings.Builder) {
	b.WriteString(FormatFloat(p.X))
	b.WriteByte(',')
	b.WriteString(FormatFloat(p.Y))
}

// FormatFloat renders the shortest decimal that round-trips the value, as used
// in SVG attributes.
func FormatFloat(v float64) string {
	if v == 0 {
		// Avoid "-0".
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
