// Package snapshot renders a camera transition offline: it steps the framing
// controller at a fixed frame rate, then renders every planned pose to WebP
// in parallel.
package snapshot

import (
	"fmt"
	"time"

	"asset-previewer/internal/framing"
	"asset-previewer/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

// maxFrames caps a plan so a misconfigured duration cannot run away.
const maxFrames = 10000

// Frame is one planned camera pose.
type Frame struct {
	Index    int
	Elapsed  time.Duration
	Progress float64
	Camera   scene.Camera
}

// Plan applies a camera preset and records the camera at every frame of the
// transition, sampled at fps. Frame 0 is the pose before any movement; the
// last frame is the destination. An empty preset name plans a single still
// frame of the current camera.
func Plan(ctl *framing.Controller, rt *scene.Runtime, presetName string, target mgl64.Vec3, fps int) ([]Frame, error) {
	if presetName == "" {
		return []Frame{{Camera: rt.Snapshot(), Progress: 1}}, nil
	}
	if fps <= 0 {
		return nil, fmt.Errorf("snapshot: fps must be > 0, got %d", fps)
	}

	if err := ctl.Apply(presetName, target); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	tr, _ := ctl.Transition()
	interval := time.Second / time.Duration(fps)

	var frames []Frame
	for i := 0; i < maxFrames; i++ {
		elapsed := time.Duration(i) * interval
		now := tr.StartTime.Add(elapsed)
		ctl.Tick(now)
		frames = append(frames, Frame{
			Index:    i,
			Elapsed:  elapsed,
			Progress: tr.Progress(now),
			Camera:   rt.Snapshot(),
		})
		if !ctl.Busy() {
			return frames, nil
		}
	}
	return nil, fmt.Errorf("snapshot: transition longer than %d frames", maxFrames)
}
