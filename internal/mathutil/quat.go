package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the camera viewing axis in camera space.
var Forward = mgl64.Vec3{0, 0, -1}

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// Slerp interpolates along the shortest arc between a and b.
// q and -q encode the same rotation; b is flipped into a's hemisphere first.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	a, b = a.Normalize(), b.Normalize()
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}

// QuatAngle returns the rotation angle (radians, 0..π) that takes a to b.
func QuatAngle(a, b mgl64.Quat) float64 {
	d := math.Abs(a.Normalize().Dot(b.Normalize()))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// LookRotation returns the orientation of a camera at eye looking at center.
// The camera looks down its local -Z with local +Y as close to up as possible.
// When the view direction is parallel to up, +Z is used as the up hint.
func LookRotation(eye, center, up mgl64.Vec3) mgl64.Quat {
	f := center.Sub(eye)
	if f.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	f = f.Normalize()
	s := f.Cross(up)
	if s.Len() < 1e-9 {
		s = f.Cross(mgl64.Vec3{0, 0, 1})
	}
	s = s.Normalize()
	u := s.Cross(f)

	m := mgl64.Mat3FromCols(s, u, f.Mul(-1))
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// IsUnit reports whether q has length 1 within eps.
func IsUnit(q mgl64.Quat, eps float64) bool {
	return math.Abs(q.Len()-1) <= eps
}
