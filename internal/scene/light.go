package scene

import (
	"math"

	"asset-previewer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
)

// sunRadius is the distance of the sun from the origin.
const sunRadius = 50.0

// Sun is the directional key light, aimed at the origin.
// Elevation is measured from straight up (0 = zenith, 90 = horizon).
type Sun struct {
	Azimuth   float64 // degrees
	Elevation float64 // degrees
	Intensity float64
}

// DefaultSun sits high and to the side.
func DefaultSun() Sun {
	return Sun{Azimuth: 45, Elevation: 35, Intensity: 1}
}

// Position places the sun on a sphere of radius 50 around the origin.
func (s Sun) Position() mgl64.Vec3 {
	az := mathutil.Deg2Rad(s.Azimuth)
	el := mathutil.Deg2Rad(s.Elevation)
	return mgl64.Vec3{
		sunRadius * math.Sin(el) * math.Cos(az),
		sunRadius * math.Cos(el),
		sunRadius * math.Sin(el) * math.Sin(az),
	}
}

// Direction is the unit vector from the origin toward the sun.
func (s Sun) Direction() mgl64.Vec3 {
	return s.Position().Normalize()
}
