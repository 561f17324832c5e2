package framing

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func alongX(ratio float64) preset.Camera {
	return preset.Camera{
		Name:          "alongX",
		Kind:          preset.Directional,
		Direction:     mgl64.Vec3{1, 0, 0},
		DistanceRatio: ratio,
	}
}

func testStore(t *testing.T, cams ...preset.Camera) *preset.Store {
	t.Helper()
	s := preset.NewStore()
	for _, c := range cams {
		require.NoError(t, s.AddCamera(c))
	}
	return s
}

type fixture struct {
	rt    *scene.Runtime
	ctl   *Controller
	clock *fakeClock
	logs  *bytes.Buffer
}

func newFixture(t *testing.T, cams ...preset.Camera) *fixture {
	t.Helper()
	f := &fixture{
		rt:    scene.NewRuntime(scene.DefaultCamera(), 60),
		clock: &fakeClock{now: t0},
		logs:  &bytes.Buffer{},
	}
	f.ctl = New(testStore(t, cams...), f.rt,
		WithClock(f.clock.Now),
		WithLogger(log.New(f.logs)),
	)
	return f
}

func pointModel() *scene.Model {
	return &scene.Model{
		Meshes:    []scene.Mesh{{Verts: [][3]float32{{0, 0, 0}}}},
		Transform: scene.IdentityTransform(),
	}
}

func vecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], eps)
}

func TestDestinationDirectionalDefaultExtent(t *testing.T) {
	pose, err := Destination(alongX(2), scene.DefaultExtent, mgl64.Vec3{})
	require.NoError(t, err)
	vecNear(t, mgl64.Vec3{100, 0, 0}, pose.Position, 1e-9)
}

func TestDestinationZeroExtentUsesFloor(t *testing.T) {
	ext := scene.MeasureExtent(pointModel())
	require.Zero(t, ext.MaxDimension())

	pose, err := Destination(alongX(2), ext, mgl64.Vec3{})
	require.NoError(t, err)
	vecNear(t, mgl64.Vec3{2, 0, 0}, pose.Position, 1e-9)
}

func TestDestinationDirectionalDistance(t *testing.T) {
	p := preset.Camera{
		Name:          "diag",
		Kind:          preset.Directional,
		Direction:     mgl64.Vec3{1, 0.8, 1}.Normalize(),
		DistanceRatio: 3.5,
	}
	target := mgl64.Vec3{5, -2, 1}
	ext := scene.Extent{Max: mgl64.Vec3{10, 20, 5}}

	pose, err := Destination(p, ext, target)
	require.NoError(t, err)

	off := pose.Position.Sub(target)
	assert.InDelta(t, 20*3.5, off.Len(), 1e-9)
	vecNear(t, p.Direction, off.Normalize(), 1e-9)

	fwd := pose.Orientation.Rotate(mathutil.Forward)
	vecNear(t, p.Direction.Mul(-1), fwd, 1e-9)
}

func TestDestinationDirectionalFixedRotation(t *testing.T) {
	p := alongX(1)
	p.Rotation = &preset.Euler{X: -math.Pi / 6, Y: math.Pi / 4, Order: mathutil.OrderYXZ}

	pose, err := Destination(p, scene.DefaultExtent, mgl64.Vec3{})
	require.NoError(t, err)
	assert.True(t, pose.Orientation.ApproxEqualThreshold(p.Rotation.Quat(), 1e-12))
}

func TestDestinationAbsolute(t *testing.T) {
	q := mgl64.Quat{W: 0.977, V: mgl64.Vec3{0, 0, 0.214}}.Normalize()
	p := preset.Camera{
		Name:            "abs",
		Kind:            preset.Absolute,
		BasePosition:    mgl64.Vec3{1, 2, 3},
		ScaleMultiplier: 10,
		Orientation:     q,
	}
	target := mgl64.Vec3{1, 1, 1}

	for _, ext := range []scene.Extent{scene.DefaultExtent, {}, {Max: mgl64.Vec3{900, 900, 900}}} {
		pose, err := Destination(p, ext, target)
		require.NoError(t, err)
		assert.Equal(t, mgl64.Vec3{11, 21, 31}, pose.Position, "extent never affects absolute presets")
		assert.Equal(t, q, pose.Orientation)
	}
}

func TestDestinationRejectsIncomplete(t *testing.T) {
	_, err := Destination(preset.Camera{Name: "empty"}, scene.DefaultExtent, mgl64.Vec3{})
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "empty", cerr.Preset)
}

func TestApplyUnknownPresetLeavesPose(t *testing.T) {
	f := newFixture(t, alongX(2))
	before := f.rt.Pose()

	err := f.ctl.Apply("nope", mgl64.Vec3{})
	require.ErrorIs(t, err, ErrPresetNotFound)
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))

	assert.Equal(t, before, f.rt.Pose())
	assert.Equal(t, Idle, f.ctl.State())
	assert.Equal(t, 1, strings.Count(f.logs.String(), "camera preset rejected"))

	assert.False(t, f.ctl.Tick(f.clock.advance(time.Second)))
	assert.Equal(t, before, f.rt.Pose())
}

func TestApplyUnknownPresetKeepsActiveTransition(t *testing.T) {
	f := newFixture(t, alongX(2))
	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))
	want, _ := f.ctl.Transition()

	require.Error(t, f.ctl.Apply("nope", mgl64.Vec3{}))
	got, ok := f.ctl.Transition()
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, Animating, f.ctl.State())
}

func TestTickEndpoints(t *testing.T) {
	f := newFixture(t, alongX(2))
	start := f.rt.Pose()
	target := mgl64.Vec3{1, 2, 3}
	require.NoError(t, f.ctl.Apply("alongX", target))
	tr, _ := f.ctl.Transition()

	require.True(t, f.ctl.Tick(t0))
	vecNear(t, start.Position, f.rt.Pose().Position, 1e-12)
	assert.InDelta(t, 0, mathutil.QuatAngle(start.Orientation, f.rt.Pose().Orientation), 1e-6)
	assert.Equal(t, target, f.rt.Target())
	assert.Equal(t, Animating, f.ctl.State())

	require.True(t, f.ctl.Tick(t0.Add(DefaultDuration+time.Millisecond)))
	vecNear(t, tr.Dest.Position, f.rt.Pose().Position, 1e-12)
	assert.InDelta(t, 0, mathutil.QuatAngle(tr.Dest.Orientation, f.rt.Pose().Orientation), 1e-6)
	assert.Equal(t, Idle, f.ctl.State())

	settled := f.rt.Pose()
	f.rt.SetTarget(mgl64.Vec3{})
	assert.False(t, f.ctl.Tick(t0.Add(5*time.Second)))
	assert.Equal(t, settled, f.rt.Pose())
	assert.Equal(t, mgl64.Vec3{}, f.rt.Target(), "idle ticks write nothing")
}

func TestTickEasesOut(t *testing.T) {
	f := newFixture(t, alongX(2))
	f.rt.SetPose(scene.Pose{Orientation: mgl64.QuatIdent()})
	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))

	f.ctl.Tick(t0.Add(DefaultDuration / 2))
	// ease-out: 0.5*(2-0.5) = 0.75 of the way at the halfway mark
	assert.InDelta(t, 75.0, f.rt.Pose().Position[0], 1e-9)
}

func TestTickBeforeStartClamps(t *testing.T) {
	f := newFixture(t, alongX(2))
	start := f.rt.Pose()
	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))
	f.ctl.Tick(t0.Add(-time.Second))
	vecNear(t, start.Position, f.rt.Pose().Position, 1e-12)
}

func TestZeroDurationSnaps(t *testing.T) {
	f := newFixture(t, alongX(2))
	f.ctl = New(testStore(t, alongX(2)), f.rt, WithDuration(0), WithLogger(log.New(f.logs)))
	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))
	f.ctl.Tick(time.Now())
	vecNear(t, mgl64.Vec3{100, 0, 0}, f.rt.Pose().Position, 1e-9)
	assert.Equal(t, Idle, f.ctl.State())
}

func TestOrientationFollowsShortestArc(t *testing.T) {
	for name, dest := range map[string]mgl64.Quat{
		"half turn":              mgl64.QuatRotate(math.Pi, mathutil.Up),
		"negated near half turn": mgl64.QuatRotate(0.95*math.Pi, mathutil.Up).Scale(-1),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.rt.SetPose(scene.Pose{Orientation: mgl64.QuatIdent()})
			f.ctl.active = &Transition{
				Start:     f.rt.Pose(),
				Dest:      scene.Pose{Orientation: dest},
				StartTime: t0,
				Duration:  DefaultDuration,
			}
			total := mathutil.QuatAngle(mgl64.QuatIdent(), dest)

			prev := math.Inf(1)
			for ms := 0; ms <= 1000; ms += 50 {
				f.ctl.Tick(t0.Add(time.Duration(ms) * time.Millisecond))
				q := f.rt.Pose().Orientation
				left := mathutil.QuatAngle(q, dest)
				assert.LessOrEqual(t, left, prev+1e-7, "at %dms", ms)
				prev = left

				travelled := mathutil.QuatAngle(mgl64.QuatIdent(), q)
				assert.InDelta(t, total, travelled+left, 1e-6, "stays on the geodesic at %dms", ms)
			}
			assert.InDelta(t, 0, prev, 1e-6)
		})
	}
}

func TestSupersedeStartsFromLivePose(t *testing.T) {
	abs := preset.Camera{
		Name:            "abs",
		Kind:            preset.Absolute,
		BasePosition:    mgl64.Vec3{0, 10, -10},
		ScaleMultiplier: 5,
		Orientation:     mgl64.QuatRotate(math.Pi/3, mathutil.Up),
	}
	f := newFixture(t, alongX(2), abs)
	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))

	mid := f.clock.advance(400 * time.Millisecond)
	f.ctl.Tick(mid)
	live := f.rt.Pose()
	first, _ := f.ctl.Transition()

	require.NoError(t, f.ctl.Apply("abs", mgl64.Vec3{}))
	second, ok := f.ctl.Transition()
	require.True(t, ok)
	assert.Equal(t, live, second.Start)
	assert.NotEqual(t, first.Dest, second.Start)
	assert.Equal(t, mid, second.StartTime)

	f.ctl.Tick(mid)
	assert.Less(t, f.rt.Pose().Position.Sub(live.Position).Len(), 1e-9)
	assert.Less(t, mathutil.QuatAngle(f.rt.Pose().Orientation, live.Orientation), 1e-6)

	f.ctl.Tick(mid.Add(DefaultDuration))
	vecNear(t, mgl64.Vec3{0, 50, -50}, f.rt.Pose().Position, 1e-12)
}

func TestApplyMeasuresLiveModel(t *testing.T) {
	f := newFixture(t, alongX(2))
	m := pointModel()
	m.Meshes[0].Verts = append(m.Meshes[0].Verts, [3]float32{10, 0, 0})
	f.rt.SetModel(m)

	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))
	tr, _ := f.ctl.Transition()
	vecNear(t, mgl64.Vec3{20, 0, 0}, tr.Dest.Position, 1e-9)

	m.Transform.Scale = 4
	require.NoError(t, f.ctl.Apply("alongX", mgl64.Vec3{}))
	tr, _ = f.ctl.Transition()
	vecNear(t, mgl64.Vec3{80, 0, 0}, tr.Dest.Position, 1e-9)
}

func TestApplyPresetValidates(t *testing.T) {
	f := newFixture(t)
	err := f.ctl.ApplyPreset(preset.Camera{Name: "bad", Kind: preset.Directional}, mgl64.Vec3{})
	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, Idle, f.ctl.State())

	require.NoError(t, f.ctl.ApplyPreset(alongX(1), mgl64.Vec3{}))
	assert.True(t, f.ctl.Busy())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "animating", Animating.String())
}
