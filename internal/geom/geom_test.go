package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name          string
		angle, radius float64
		want          Point
	}{
		{"origin", 45, 0, Point{0, 0}},
		{"zero angle", 0, 10, Point{10, 0}},
		{"right angle", 90, 10, Point{0, 10}},
		{"half turn", 180, 10, Point{-10, 0}},
		{"three quarters", 270, 10, Point{0, -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.angle, tt.radius)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestProject_Reproducible(t *testing.T) {
	a := Project(123.456, 789.012)
	b := Project(123.456, 789.012)
	assert.Equal(t, math.Float64bits(a.X), math.Float64bits(b.X))
	assert.Equal(t, math.Float64bits(a.Y), math.Float64bits(b.Y))
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "1.5,-2", Point{1.5, -2}.String())
	assert.Equal(t, "0,0", Point{math.Copysign(0, -1), 0}.String())
}

func TestPathString(t *testing.T) {
	p := Path{
		MoveTo{Point{0, 0}},
		CubicTo{Point{1, 0}, Point{0, 1}, Point{1, 1}},
		QuadTo{Point{2, 2}, Point{3, 3}},
		ArcTo{RX: 5, RY: 5, Sweep: true, P: Point{4, 4}},
		Close{},
	}
	assert.Equal(t, "M0,0C1,0 0,1 1,1Q2,2 3,3A 5 5 0 0 1 4,4Z", p.String())

	text, err := p.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, p.String(), string(text))
}
