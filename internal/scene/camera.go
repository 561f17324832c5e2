package scene

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose fully places a camera.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Projection selects how the camera maps view space to the image.
type Projection int

const (
	Orthographic Projection = iota
	Perspective
)

// ParseProjection accepts "orthographic"/"ortho" or "perspective"/"persp".
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(s) {
	case "", "orthographic", "ortho":
		return Orthographic, nil
	case "perspective", "persp":
		return Perspective, nil
	}
	return 0, fmt.Errorf("scene: unknown projection %q", s)
}

func (p Projection) String() string {
	if p == Perspective {
		return "perspective"
	}
	return "orthographic"
}

// Camera is the live viewing camera.
type Camera struct {
	Pose
	Projection  Projection
	FOV         float64 // vertical, degrees (perspective)
	FrustumSize float64 // visible height in world units at Zoom 1 (orthographic)
	Zoom        float64
	Near, Far   float64
}

// DefaultCamera is orthographic with frustum 200 and
// clip planes at ±1000.
func DefaultCamera() Camera {
	return Camera{
		Pose: Pose{
			Position:    mgl64.Vec3{0, 0, 100},
			Orientation: mgl64.QuatIdent(),
		},
		Projection:  Orthographic,
		FOV:         45,
		FrustumSize: 200,
		Zoom:        1,
		Near:        -1000,
		Far:         1000,
	}
}

// ToView maps a world-space point into camera space (camera looks down -Z).
func (c *Camera) ToView(p mgl64.Vec3) mgl64.Vec3 {
	return c.Orientation.Conjugate().Rotate(p.Sub(c.Position))
}

// DirToView maps a world-space direction into camera space.
func (c *Camera) DirToView(d mgl64.Vec3) mgl64.Vec3 {
	return c.Orientation.Conjugate().Rotate(d)
}
