// Package vector provides a fixed-size 3D vector of doubles and the
// arithmetic helpers the rest of the gravity library builds on.
package vector

import "math"

// Vector3 is an ordered triple of finite doubles.
type Vector3 [3]float64

// Zero is the additive identity.
var Zero = Vector3{}

// Add returns the component-wise sum of v and other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v[0] + other[0], v[1] + other[1], v[2] + other[2]}
}

// Sub returns the component-wise difference v - other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v[0] - other[0], v[1] - other[1], v[2] - other[2]}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v[0] * s, v[1] * s, v[2] * s}
}

// Div returns v divided by the scalar s.
func (v Vector3) Div(s float64) Vector3 {
	return Vector3{v[0] / s, v[1] / s, v[2] / s}
}

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.SquaredNorm())
}

// SquaredNorm returns the squared Euclidean length of v, avoiding the
// square root when only a comparison is needed.
func (v Vector3) SquaredNorm() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// AnyLessThan reports whether any component of v is strictly less than s.
func (v Vector3) AnyLessThan(s float64) bool {
	return v[0] < s || v[1] < s || v[2] < s
}

// AnyLessEqual reports whether any component of v is less than or equal to s.
func (v Vector3) AnyLessEqual(s float64) bool {
	return v[0] <= s || v[1] <= s || v[2] <= s
}
