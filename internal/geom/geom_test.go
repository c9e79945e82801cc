package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestDistance(t *testing.T) {
	a := r3.Vec{X: 1, Y: 2, Z: 3}
	b := r3.Vec{X: 4, Y: 6, Z: 3}
	if got := Distance(a, b); math.Abs(got-5) > tol {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c r3.Vec
		want    float64
	}{
		{
			"right angle",
			r3.Vec{X: 1}, r3.Vec{}, r3.Vec{Y: 1},
			90,
		},
		{
			"straight",
			r3.Vec{X: -1}, r3.Vec{}, r3.Vec{X: 1},
			180,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.a, tt.b, tt.c); math.Abs(got-tt.want) > tol {
				t.Errorf("Angle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDihedral(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d r3.Vec
		want       float64
	}{
		{
			"cis is zero",
			r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, r3.Vec{X: 2}, r3.Vec{X: 2, Y: 1},
			0,
		},
		{
			"trans is 180",
			r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, r3.Vec{X: 2}, r3.Vec{X: 2, Y: -1},
			180,
		},
		{
			"gauche plus",
			r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, r3.Vec{X: 2}, r3.Vec{X: 2, Z: 1},
			90,
		},
		{
			"gauche minus",
			r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1}, r3.Vec{X: 2}, r3.Vec{X: 2, Z: -1},
			-90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dihedral(tt.a, tt.b, tt.c, tt.d)
			diff := math.Abs(got - tt.want)
			if diff > 180 {
				diff = 360 - diff
			}
			if diff > tol {
				t.Errorf("Dihedral() = %v, want %v", got, tt.want)
			}
		})
	}
}
