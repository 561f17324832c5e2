package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asset-previewer/internal/framing"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func setup(t *testing.T) (*framing.Controller, *scene.Runtime) {
	t.Helper()
	store := preset.NewStore()
	require.NoError(t, store.AddCamera(preset.Camera{
		Name:          "side",
		Kind:          preset.Directional,
		Direction:     mgl64.Vec3{1, 0, 0},
		DistanceRatio: 2,
	}))
	rt := scene.NewRuntime(scene.DefaultCamera(), 30)
	rt.SetModel(&scene.Model{
		Meshes: []scene.Mesh{{
			Verts:   [][3]float32{{-5, -5, 0}, {5, -5, 0}, {0, 5, 0}},
			Indices: []uint32{0, 1, 2},
			Alpha:   1,
		}},
		Transform: scene.IdentityTransform(),
	})
	clock := func() time.Time { return time.Unix(1000, 0) }
	ctl := framing.New(store, rt, framing.WithClock(clock), framing.WithLogger(log.New(&bytes.Buffer{})))
	return ctl, rt
}

func TestPlanCoversTransition(t *testing.T) {
	ctl, rt := setup(t)
	frames, err := Plan(ctl, rt, "side", mgl64.Vec3{}, 10)
	require.NoError(t, err)

	require.Len(t, frames, 11)
	assert.Equal(t, 0.0, frames[0].Progress)
	assert.Equal(t, scene.DefaultCamera().Position, frames[0].Camera.Position)
	last := frames[len(frames)-1]
	assert.Equal(t, 1.0, last.Progress)
	assert.Equal(t, time.Second, last.Elapsed)
	assert.InDeltaSlice(t, []float64{20, 0, 0}, last.Camera.Position[:], 1e-9)
	assert.False(t, ctl.Busy())

	for i := 1; i < len(frames); i++ {
		assert.Greater(t, frames[i].Progress, frames[i-1].Progress)
	}
}

func TestPlanDeterministic(t *testing.T) {
	ctl1, rt1 := setup(t)
	ctl2, rt2 := setup(t)
	a, err := Plan(ctl1, rt1, "side", mgl64.Vec3{}, 24)
	require.NoError(t, err)
	b, err := Plan(ctl2, rt2, "side", mgl64.Vec3{}, 24)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlanStillAndErrors(t *testing.T) {
	ctl, rt := setup(t)
	frames, err := Plan(ctl, rt, "", mgl64.Vec3{}, 10)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, rt.Snapshot(), frames[0].Camera)

	_, err = Plan(ctl, rt, "missing", mgl64.Vec3{}, 10)
	assert.ErrorIs(t, err, framing.ErrPresetNotFound)

	_, err = Plan(ctl, rt, "side", mgl64.Vec3{}, 0)
	assert.Error(t, err)
}

func TestRunWritesFramesAndManifest(t *testing.T) {
	ctl, rt := setup(t)
	frames, err := Plan(ctl, rt, "side", mgl64.Vec3{}, 4)
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := Config{
		OutputDir:   dir,
		Width:       32,
		Height:      24,
		Supersample: 2,
		Workers:     3,
		Caption:     "side",
		Logger:      log.New(&bytes.Buffer{}),
	}
	results := Run(context.Background(), cfg, rt.Scene, frames)
	require.Len(t, results, len(frames))

	for i, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, FrameName(i), r.Image)

		f, err := os.Open(filepath.Join(dir, r.Image))
		require.NoError(t, err)
		img, err := webp.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
	}

	m := BuildManifest(Manifest{Model: "tri", Preset: "side", FPS: 4, Width: 32, Height: 24}, frames, results)
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, WriteManifest(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, int64(1000), got.DurationMS)
	require.Len(t, got.Frames, len(frames))
	assert.Equal(t, "frame_0000.webp", got.Frames[0].Image)
	assert.InDelta(t, 20, got.Frames[len(frames)-1].Position[0], 1e-9)
}

func TestRunCanceled(t *testing.T) {
	ctl, rt := setup(t)
	frames, err := Plan(ctl, rt, "side", mgl64.Vec3{}, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := Run(ctx, Config{OutputDir: t.TempDir(), Width: 8, Height: 8, Logger: log.New(&bytes.Buffer{})}, rt.Scene, frames)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	assert.Equal(t, len(frames), failed)
}

func TestDrawCaption(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 40))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	drawCaption(img, "hello")
	assert.Less(t, img.NRGBAAt(1, 39).R, uint8(255), "backing strip darkens the corner")
	assert.Equal(t, uint8(255), img.NRGBAAt(119, 0).R)

	tiny := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	drawCaption(tiny, "x")
}
