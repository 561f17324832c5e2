package scene

import (
	"asset-previewer/internal/preset"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBackground is the viewport clear color.
var DefaultBackground = colorful.Color{R: 0x11 / 255.0, G: 0x11 / 255.0, B: 0x11 / 255.0}

// Background controls the clear color. A custom background hides the grid.
type Background struct {
	Custom  bool
	Color   colorful.Color
	Default colorful.Color
}

// Current returns the color to clear with.
func (b Background) Current() colorful.Color {
	if b.Custom {
		return b.Color
	}
	return b.Default
}

// Scene is everything drawn except the camera.
type Scene struct {
	Model      *Model
	Grid       *preset.Grid
	Sun        Sun
	Material   Material
	Background Background
}

// GridVisible reports whether the grid should be drawn.
func (s *Scene) GridVisible() bool {
	return s.Grid != nil && !s.Background.Custom
}

// Runtime is the viewport context: scene, camera and orbit controller.
// It is built once at startup and handed to whatever drives the camera.
type Runtime struct {
	Scene  *Scene
	Camera *Camera
	Orbit  *Orbit
}

// NewRuntime returns an empty viewport.
func NewRuntime(cam Camera, fps int) *Runtime {
	return &Runtime{
		Scene: &Scene{
			Sun:      DefaultSun(),
			Material: DefaultMaterial(),
			Background: Background{
				Color:   colorful.Color{R: 1, G: 1, B: 1},
				Default: DefaultBackground,
			},
		},
		Camera: &cam,
		Orbit:  NewOrbit(fps),
	}
}

// Pose returns the live camera pose.
func (r *Runtime) Pose() Pose {
	return r.Camera.Pose
}

// SetPose overwrites the live camera pose.
func (r *Runtime) SetPose(p Pose) {
	r.Camera.Pose = p
}

// Target returns the orbit look-at target.
func (r *Runtime) Target() mgl64.Vec3 {
	return r.Orbit.Target
}

// SetTarget moves the orbit look-at target.
func (r *Runtime) SetTarget(t mgl64.Vec3) {
	r.Orbit.Target = t
}

// CurrentModel returns the loaded model, or nil.
func (r *Runtime) CurrentModel() *Model {
	return r.Scene.Model
}

// SetModel replaces the loaded model. Loading a model switches on the
// custom background, which also hides the grid.
func (r *Runtime) SetModel(m *Model) {
	r.Scene.Model = m
	if m != nil {
		r.Scene.Background.Custom = true
	}
}

// SetGrid swaps the grid preset. A nil grid removes it.
func (r *Runtime) SetGrid(g *preset.Grid) {
	r.Scene.Grid = g
}

// Snapshot copies the camera so a frame can be rendered while the live
// camera keeps moving.
func (r *Runtime) Snapshot() Camera {
	return *r.Camera
}
