package scene

import (
	"math"

	"asset-previewer/internal/mathutil"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"
)

// Orbit rotates, dollies and zooms a camera around a look-at target.
// Nudges add angular velocity that decays through a critically damped
// spring, giving the same glide as a damped orbit control.
type Orbit struct {
	Target      mgl64.Vec3
	MinDistance float64
	MaxDistance float64
	MaxPolar    float64 // radians from +Y; π/2 keeps the camera above ground
	MinZoom     float64
	MaxZoom     float64

	spring   harmonica.Spring
	velAz    float64
	accAz    float64
	velPolar float64
	accPolar float64
}

// NewOrbit returns an orbit with default distance and zoom limits.
func NewOrbit(fps int) *Orbit {
	if fps <= 0 {
		fps = 60
	}
	return &Orbit{
		MinDistance: 1,
		MaxDistance: 500,
		MaxPolar:    math.Pi / 2,
		MinZoom:     0.1,
		MaxZoom:     20,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Rotate moves the camera by the given azimuth and polar deltas (radians)
// and re-aims it at the target.
func (o *Orbit) Rotate(cam *Camera, dAz, dPolar float64) {
	off := cam.Position.Sub(o.Target)
	s := mathutil.ToSpherical(off)
	if s.Radius < 1e-9 {
		s = mathutil.Spherical{Radius: o.MinDistance, Polar: math.Pi / 4}
	}
	s.Azimuth += dAz
	s.Polar = mathutil.Clamp(s.Polar+dPolar, 1e-3, o.MaxPolar)
	s.Radius = mathutil.Clamp(s.Radius, o.MinDistance, o.MaxDistance)

	cam.Position = o.Target.Add(s.Vec3())
	cam.Orientation = mathutil.LookRotation(cam.Position, o.Target, mathutil.Up)
}

// Nudge adds angular velocity, consumed by Update.
func (o *Orbit) Nudge(dAz, dPolar float64) {
	o.velAz += dAz
	o.velPolar += dPolar
}

// Stop drops any remaining inertia.
func (o *Orbit) Stop() {
	o.velAz, o.accAz, o.velPolar, o.accPolar = 0, 0, 0, 0
}

// Moving reports whether inertia is still being applied.
func (o *Orbit) Moving() bool {
	return math.Abs(o.velAz) > 1e-5 || math.Abs(o.velPolar) > 1e-5
}

// Update applies one frame of inertia and decays it. Returns true if the
// camera moved.
func (o *Orbit) Update(cam *Camera) bool {
	if !o.Moving() {
		o.Stop()
		return false
	}
	o.Rotate(cam, o.velAz, o.velPolar)
	o.velAz, o.accAz = o.spring.Update(o.velAz, o.accAz, 0)
	o.velPolar, o.accPolar = o.spring.Update(o.velPolar, o.accPolar, 0)
	return true
}

// Dolly moves the camera toward (factor < 1) or away from (factor > 1) the
// target. Orthographic cameras change zoom instead, since distance does not
// change their image.
func (o *Orbit) Dolly(cam *Camera, factor float64) {
	if factor <= 0 {
		return
	}
	if cam.Projection == Orthographic {
		cam.Zoom = mathutil.Clamp(cam.Zoom/factor, o.MinZoom, o.MaxZoom)
		return
	}
	off := cam.Position.Sub(o.Target)
	r := off.Len()
	if r < 1e-9 {
		return
	}
	nr := mathutil.Clamp(r*factor, o.MinDistance, o.MaxDistance)
	cam.Position = o.Target.Add(off.Mul(nr / r))
}
