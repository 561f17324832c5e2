package framing

import (
	"errors"
	"fmt"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

// MinExtent is the floor substituted for a zero or near-zero model extent
// before it is multiplied by a preset's distance ratio.
const MinExtent = 1.0

// ErrPresetNotFound is returned when a camera preset name is unknown.
var ErrPresetNotFound = errors.New("camera preset not found")

// ConfigurationError reports a preset that cannot be applied: an unknown
// name or an incomplete record. The camera is left untouched.
type ConfigurationError struct {
	Preset string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("framing: preset %q: %v", e.Preset, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Destination computes where a preset puts the camera for a model of the
// given extent, framed around target.
//
// Directional presets sit at target + Direction * (maxDim * DistanceRatio),
// oriented by their fixed Euler rotation if they carry one and aimed at the
// target otherwise. Absolute presets sit at BasePosition * ScaleMultiplier +
// target with their stored orientation; extent does not affect them.
func Destination(p preset.Camera, ext scene.Extent, target mgl64.Vec3) (scene.Pose, error) {
	if err := p.Validate(); err != nil {
		return scene.Pose{}, &ConfigurationError{Preset: p.Name, Err: err}
	}

	switch p.Kind {
	case preset.Directional:
		d := ext.MaxDimension()
		if !mathutil.Finite(d) || d < MinExtent {
			d = MinExtent
		}
		dir := p.Direction.Normalize()
		pos := target.Add(dir.Mul(d * p.DistanceRatio))

		var q mgl64.Quat
		if p.Rotation != nil {
			q = p.Rotation.Quat()
		} else {
			q = mathutil.LookRotation(pos, target, mathutil.Up)
		}
		return scene.Pose{Position: pos, Orientation: q}, nil

	case preset.Absolute:
		pos := p.BasePosition.Mul(p.ScaleMultiplier).Add(target)
		return scene.Pose{Position: pos, Orientation: p.Orientation}, nil
	}

	// Validate rejects every other kind.
	return scene.Pose{}, &ConfigurationError{Preset: p.Name, Err: fmt.Errorf("unknown kind %v", p.Kind)}
}

// poseDelta reports how far apart two poses are: translation and rotation angle.
func poseDelta(a, b scene.Pose) (float64, float64) {
	return a.Position.Sub(b.Position).Len(), mathutil.QuatAngle(a.Orientation, b.Orientation)
}
