package raster

import (
	"math"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

// minPerspectiveNear keeps the perspective divide away from zero when the
// camera is configured with a non-positive near plane.
const minPerspectiveNear = 0.1

// Projector maps world space to pixel coordinates for one camera and
// target size.
type Projector struct {
	cam    scene.Camera
	width  float64
	height float64
	aspect float64

	// orthographic half extents
	halfW, halfH float64
	// perspective focal scale
	focal float64
	near  float64
}

// NewProjector prepares a projection for a w×h target.
func NewProjector(cam scene.Camera, w, h int) *Projector {
	p := &Projector{
		cam:    cam,
		width:  float64(w),
		height: float64(h),
		aspect: float64(w) / math.Max(float64(h), 1),
	}
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	switch cam.Projection {
	case scene.Perspective:
		fov := mathutil.Clamp(cam.FOV, 1, 179)
		p.focal = 1 / math.Tan(mathutil.Deg2Rad(fov)/2) * zoom
		p.near = math.Max(cam.Near, minPerspectiveNear)
	default:
		p.halfH = cam.FrustumSize / (2 * zoom)
		p.halfW = p.halfH * p.aspect
	}
	return p
}

// Project returns the pixel position and depth of a world point. ok is false
// when the point is outside the clip range.
func (p *Projector) Project(w mgl64.Vec3) (x, y, depth float64, ok bool) {
	v := p.cam.ToView(w)
	dist := -v[2]

	var nx, ny float64
	if p.cam.Projection == scene.Perspective {
		if dist < p.near || dist > p.cam.Far {
			return 0, 0, 0, false
		}
		nx = p.focal * v[0] / dist / p.aspect
		ny = p.focal * v[1] / dist
		// 1/dist interpolates linearly in screen space
		depth = 1 / dist
	} else {
		if dist < p.cam.Near || dist > p.cam.Far {
			return 0, 0, 0, false
		}
		nx = v[0] / p.halfW
		ny = v[1] / p.halfH
		depth = v[2]
	}

	x = (nx*0.5 + 0.5) * p.width
	y = (0.5 - ny*0.5) * p.height
	return x, y, depth, true
}

// ViewDir is the world-space direction the camera looks along.
func (p *Projector) ViewDir() mgl64.Vec3 {
	return p.cam.Orientation.Rotate(mathutil.Forward)
}
