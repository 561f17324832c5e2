package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultExtentSize is the side of the cube used when no model is loaded.
const DefaultExtentSize = 50.0

// Extent is an axis-aligned bounding box in world space.
type Extent struct {
	Min, Max mgl64.Vec3
}

// DefaultExtent is a cube of side DefaultExtentSize centred on the origin.
var DefaultExtent = Extent{
	Min: mgl64.Vec3{-DefaultExtentSize / 2, -DefaultExtentSize / 2, -DefaultExtentSize / 2},
	Max: mgl64.Vec3{DefaultExtentSize / 2, DefaultExtentSize / 2, DefaultExtentSize / 2},
}

// Size returns the box dimensions.
func (e Extent) Size() mgl64.Vec3 {
	return e.Max.Sub(e.Min)
}

// Center returns the box centre.
func (e Extent) Center() mgl64.Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}

// MaxDimension returns the largest side.
func (e Extent) MaxDimension() float64 {
	s := e.Size()
	return math.Max(s[0], math.Max(s[1], s[2]))
}

// MeasureExtent computes the world-space bounds of m under its current
// transform. A nil model, or one with no vertices, yields DefaultExtent.
func MeasureExtent(m *Model) Extent {
	if m == nil || m.VertexCount() == 0 {
		return DefaultExtent
	}

	mat := m.Transform.Matrix()
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range m.Meshes {
		for _, v := range m.Meshes[i].Verts {
			w := mgl64.TransformCoordinate(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}, mat)
			for k := 0; k < 3; k++ {
				if w[k] < lo[k] {
					lo[k] = w[k]
				}
				if w[k] > hi[k] {
					hi[k] = w[k]
				}
			}
		}
	}
	return Extent{Min: lo, Max: hi}
}
