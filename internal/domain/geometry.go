package domain

import "math"

// Vec3 is a 3-component vector in scene units.
type Vec3 [3]float64

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Length returns the Euclidean norm of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Quat is a rotation quaternion stored in x, y, z, w order.
type Quat [4]float64

// IdentityQuat is the zero rotation.
var IdentityQuat = Quat{0, 0, 0, 1}

// QuatFromAxisAngle builds the rotation of angle radians around axis.
// The axis is used as given; joint axes are expected to be unit length.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	half := angle / 2
	s := math.Sin(half)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, math.Cos(half)}
}
