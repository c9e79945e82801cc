// Package geom provides the small amount of vector geometry needed to
// compare molecular conformations: distances, angles and dihedrals over
// Cartesian coordinates in Angstroms.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Distance returns the distance between two points.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Angle returns the angle a-b-c in degrees.
func Angle(a, b, c r3.Vec) float64 {
	u := r3.Sub(a, b)
	v := r3.Sub(c, b)
	cos := r3.Dot(u, v) / (r3.Norm(u) * r3.Norm(v))
	// clamp against rounding just outside [-1, 1]
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Dihedral returns the signed torsion angle a-b-c-d in degrees, in the range
// (-180, 180]. The sign convention matches Gaussian's dihedral tables, so
// values computed from coordinates compare directly against "! D" entries.
func Dihedral(a, b, c, d r3.Vec) float64 {
	b1 := r3.Sub(b, a)
	b2 := r3.Sub(c, b)
	b3 := r3.Sub(d, c)

	n1 := r3.Cross(b1, b2)
	n2 := r3.Cross(b2, b3)

	x := r3.Dot(n1, n2)
	y := r3.Dot(r3.Cross(n1, n2), r3.Scale(1/r3.Norm(b2), b2))
	return math.Atan2(y, x) * 180 / math.Pi
}
