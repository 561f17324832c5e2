package preset

import (
	"fmt"
	"math"

	"asset-previewer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Kind selects which shape of camera preset a record carries.
type Kind int

const (
	// Directional places the camera along a unit direction from the target,
	// at a distance proportional to the model extent.
	Directional Kind = iota + 1
	// Absolute places the camera at a scaled base position offset by the
	// target, with a fixed orientation.
	Absolute
)

func (k Kind) String() string {
	switch k {
	case Directional:
		return "directional"
	case Absolute:
		return "absolute"
	}
	return "invalid"
}

// Euler is a fixed rotation: angles in radians applied in Order.
type Euler struct {
	X, Y, Z float64
	Order   mathutil.EulerOrder
}

// Quat converts the rotation to a unit quaternion.
func (e Euler) Quat() mgl64.Quat {
	return mathutil.EulerToQuat(e.X, e.Y, e.Z, e.Order)
}

// Camera is a named camera preset. Only the fields of its Kind are meaningful.
type Camera struct {
	Name        string
	Label       string
	Description string
	Kind        Kind

	// Directional
	Direction     mgl64.Vec3
	DistanceRatio float64
	Rotation      *Euler // nil: orientation is aimed at the target

	// Absolute
	BasePosition    mgl64.Vec3
	ScaleMultiplier float64
	Orientation     mgl64.Quat
}

// Grid is a named ground-grid preset.
type Grid struct {
	Name            string
	Label           string
	Size            float64
	Divisions       int
	CenterLineColor colorful.Color
	GridLineColor   colorful.Color
}

// ValidationError reports a preset record that cannot be applied.
type ValidationError struct {
	Preset string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("preset %q: %s", e.Preset, e.Reason)
}

func invalid(name, format string, args ...any) error {
	return &ValidationError{Preset: name, Reason: fmt.Sprintf(format, args...)}
}

// unitTolerance is how far from unit length a stored quaternion may drift.
const unitTolerance = 1e-6

// Validate checks that the preset's shape is complete and numerically sane.
func (c Camera) Validate() error {
	switch c.Kind {
	case Directional:
		if !finiteVec(c.Direction) || c.Direction.Len() < 1e-9 {
			return invalid(c.Name, "direction must be a non-zero finite vector")
		}
		if !mathutil.Finite(c.DistanceRatio) || c.DistanceRatio < 0 {
			return invalid(c.Name, "distance_ratio must be >= 0, got %v", c.DistanceRatio)
		}
		if c.Rotation != nil {
			if !finiteVec(mgl64.Vec3{c.Rotation.X, c.Rotation.Y, c.Rotation.Z}) {
				return invalid(c.Name, "rotation angles must be finite")
			}
			if _, err := mathutil.ParseEulerOrder(string(c.Rotation.Order)); err != nil {
				return invalid(c.Name, "%v", err)
			}
		}
	case Absolute:
		if !finiteVec(c.BasePosition) {
			return invalid(c.Name, "base_position must be finite")
		}
		if !mathutil.Finite(c.ScaleMultiplier) {
			return invalid(c.Name, "scale_multiplier must be finite")
		}
		if !mathutil.IsUnit(c.Orientation, unitTolerance) {
			return invalid(c.Name, "quaternion must be unit length, got %.6f", c.Orientation.Len())
		}
	default:
		return invalid(c.Name, "unknown preset kind")
	}
	return nil
}

// Validate checks display parameters.
func (g Grid) Validate() error {
	if !mathutil.Finite(g.Size) || g.Size <= 0 {
		return invalid(g.Name, "size must be > 0")
	}
	if g.Divisions <= 0 {
		return invalid(g.Name, "divisions must be > 0")
	}
	return nil
}

func finiteVec(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
