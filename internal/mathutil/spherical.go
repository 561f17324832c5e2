package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spherical is a point on a sphere around an origin, Y up.
// Polar is measured from +Y, Azimuth around +Y starting at +Z.
type Spherical struct {
	Radius  float64
	Polar   float64
	Azimuth float64
}

// ToSpherical converts an offset vector into spherical coordinates.
func ToSpherical(v mgl64.Vec3) Spherical {
	r := v.Len()
	if r < 1e-12 {
		return Spherical{}
	}
	return Spherical{
		Radius:  r,
		Polar:   math.Acos(Clamp(v[1]/r, -1, 1)),
		Azimuth: math.Atan2(v[0], v[2]),
	}
}

// Vec3 converts back to a Cartesian offset.
func (s Spherical) Vec3() mgl64.Vec3 {
	sp := math.Sin(s.Polar)
	return mgl64.Vec3{
		s.Radius * sp * math.Sin(s.Azimuth),
		s.Radius * math.Cos(s.Polar),
		s.Radius * sp * math.Cos(s.Azimuth),
	}
}
