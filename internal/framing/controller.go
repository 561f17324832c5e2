// Package framing places the camera from named presets and animates it
// there. The Controller owns the single in-flight transition; an external
// frame loop drives it by calling Tick once per displayed frame.
package framing

import (
	"fmt"
	"time"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultDuration is how long a preset transition takes.
const DefaultDuration = time.Second

// Presets resolves camera presets by name.
type Presets interface {
	Camera(name string) (preset.Camera, bool)
}

// Viewport is the part of the viewport runtime the controller drives.
type Viewport interface {
	Pose() scene.Pose
	SetPose(scene.Pose)
	SetTarget(mgl64.Vec3)
	CurrentModel() *scene.Model
}

// State of the transition driver.
type State int

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	if s == Animating {
		return "animating"
	}
	return "idle"
}

// Transition is a timed interpolation from Start to Dest.
type Transition struct {
	Preset    string
	Start     scene.Pose
	Dest      scene.Pose
	StartTime time.Time
	Duration  time.Duration
	Target    mgl64.Vec3
}

// Progress returns the linear progress at now, clamped to [0,1].
func (t *Transition) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return mathutil.Clamp(float64(now.Sub(t.StartTime))/float64(t.Duration), 0, 1)
}

// PoseAt returns the eased pose at now: position is lerped and orientation
// slerped along the shortest arc, both with quadratic ease-out.
func (t *Transition) PoseAt(now time.Time) scene.Pose {
	e := mathutil.EaseOutQuad(t.Progress(now))
	return scene.Pose{
		Position:    t.Start.Position.Add(t.Dest.Position.Sub(t.Start.Position).Mul(e)),
		Orientation: mathutil.Slerp(t.Start.Orientation, t.Dest.Orientation, e),
	}
}

// Controller frames the viewport camera from presets.
type Controller struct {
	presets  Presets
	viewport Viewport
	logger   *log.Logger
	clock    func() time.Time
	duration time.Duration

	active *Transition
}

// Option configures a Controller.
type Option func(*Controller)

// WithDuration sets the transition length. Zero or negative snaps.
func WithDuration(d time.Duration) Option {
	return func(c *Controller) { c.duration = d }
}

// WithClock replaces time.Now as the source of transition start times.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New builds a controller. presets must already be fully loaded.
func New(presets Presets, vp Viewport, opts ...Option) *Controller {
	c := &Controller{
		presets:  presets,
		viewport: vp,
		clock:    time.Now,
		duration: DefaultDuration,
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	c.logger = c.logger.WithPrefix("framing")
	return c
}

// State reports whether a transition is in flight.
func (c *Controller) State() State {
	if c.active != nil {
		return Animating
	}
	return Idle
}

// Busy is true while the controller owns the camera.
func (c *Controller) Busy() bool {
	return c.active != nil
}

// Transition returns a copy of the active transition.
func (c *Controller) Transition() (Transition, bool) {
	if c.active == nil {
		return Transition{}, false
	}
	return *c.active, true
}

// Resolve looks up a camera preset. It has no side effects.
func (c *Controller) Resolve(name string) (preset.Camera, error) {
	p, ok := c.presets.Camera(name)
	if !ok {
		return preset.Camera{}, &ConfigurationError{Preset: name, Err: ErrPresetNotFound}
	}
	if err := p.Validate(); err != nil {
		return preset.Camera{}, &ConfigurationError{Preset: name, Err: err}
	}
	return p, nil
}

// Apply starts a transition to the named preset framed around target.
// On failure the error is logged and returned, and neither the camera nor
// any in-flight transition is disturbed. A transition already in flight is
// replaced; the new one starts from the camera's live pose.
func (c *Controller) Apply(name string, target mgl64.Vec3) error {
	p, err := c.Resolve(name)
	if err != nil {
		c.logger.Error("camera preset rejected", "preset", name, "err", err)
		return err
	}
	return c.start(p, target)
}

// ApplyPreset is Apply for a preset that is not in the store.
func (c *Controller) ApplyPreset(p preset.Camera, target mgl64.Vec3) error {
	if err := p.Validate(); err != nil {
		cerr := &ConfigurationError{Preset: p.Name, Err: err}
		c.logger.Error("camera preset rejected", "preset", p.Name, "err", cerr)
		return cerr
	}
	return c.start(p, target)
}

func (c *Controller) start(p preset.Camera, target mgl64.Vec3) error {
	ext := scene.MeasureExtent(c.viewport.CurrentModel())
	dest, err := Destination(p, ext, target)
	if err != nil {
		c.logger.Error("camera preset rejected", "preset", p.Name, "err", err)
		return err
	}

	if c.active != nil {
		c.logger.Debug("superseding transition", "from", c.active.Preset, "to", p.Name)
	}
	c.active = &Transition{
		Preset:    p.Name,
		Start:     c.viewport.Pose(),
		Dest:      dest,
		StartTime: c.clock(),
		Duration:  c.duration,
		Target:    target,
	}
	dist, angle := poseDelta(c.active.Start, dest)
	c.logger.Info("camera transition started",
		"preset", p.Name,
		"kind", p.Kind,
		"extent", fmt.Sprintf("%.2f", ext.MaxDimension()),
		"travel", fmt.Sprintf("%.2f", dist),
		"turn_deg", fmt.Sprintf("%.1f", mathutil.Rad2Deg(angle)))
	return nil
}

// Tick advances the active transition to now and writes the pose and
// look-at target into the viewport. The target is rewritten every frame so
// the orbit controller cannot drift from the camera mid-flight. Returns
// false when idle.
func (c *Controller) Tick(now time.Time) bool {
	t := c.active
	if t == nil {
		return false
	}

	c.viewport.SetPose(t.PoseAt(now))
	c.viewport.SetTarget(t.Target)

	if t.Progress(now) >= 1 {
		c.active = nil
		c.logger.Debug("camera transition completed", "preset", t.Preset)
	}
	return true
}
