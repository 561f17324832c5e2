package scene

import (
	"image"

	"asset-previewer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// Mesh holds triangle geometry for one primitive of a model.
// Verts are in model space, after load-time normalization.
type Mesh struct {
	Name    string
	Verts   [][3]float32
	UVs     [][2]float32 // parallel to Verts, may be empty
	Indices []uint32     // triangle list, len%3 == 0

	Texture   *image.NRGBA // base color texture, nil if untextured
	BaseColor colorful.Color
	Alpha     float64
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Transform is the user-editable placement of the model in the scene.
type Transform struct {
	Position    mgl64.Vec3
	RotationDeg mgl64.Vec3 // Euler XYZ, degrees
	Scale       float64
}

// IdentityTransform leaves the model where the loader put it.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// Matrix returns T * R * S.
func (t Transform) Matrix() mgl64.Mat4 {
	s := t.Scale
	r := mathutil.EulerDegToQuat(t.RotationDeg).Mat4()
	return mgl64.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(r).
		Mul4(mgl64.Scale3D(s, s, s))
}

// Model is a loaded asset.
type Model struct {
	Name      string
	Format    string
	Meshes    []Mesh
	Transform Transform

	// LoadScale is the uniform factor applied at load time to reach the
	// scene's target size; reported by info output.
	LoadScale float64
}

// VertexCount sums vertices over all meshes.
func (m *Model) VertexCount() int {
	n := 0
	for i := range m.Meshes {
		n += len(m.Meshes[i].Verts)
	}
	return n
}

// TriangleCount sums triangles over all meshes.
func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Meshes {
		n += m.Meshes[i].TriangleCount()
	}
	return n
}

// WorldVerts transforms a mesh's vertices by the model's current transform.
func (m *Model) WorldVerts(mesh *Mesh) []mgl64.Vec3 {
	mat := m.Transform.Matrix()
	out := make([]mgl64.Vec3, len(mesh.Verts))
	for i, v := range mesh.Verts {
		out[i] = mgl64.TransformCoordinate(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}, mat)
	}
	return out
}
