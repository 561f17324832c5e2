// Package raster is a software renderer for the preview scene: flat-shaded,
// z-buffered triangles lit by the sun, plus the ground grid and background.
package raster

import (
	"image"

	"asset-previewer/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

// Options controls the output raster.
type Options struct {
	Width       int
	Height      int
	Supersample int
	// FlatTextures replaces each texture with its average color. Used for
	// the terminal preview where texels are far smaller than a cell.
	FlatTextures bool
}

// Render draws the scene from cam into a (Width·Supersample)×(Height·Supersample)
// image. Callers downsample the result with postprocess.Downsample.
func Render(sc *scene.Scene, cam scene.Camera, opts Options) *image.NRGBA {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	w, h := opts.Width*ss, opts.Height*ss
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	fb := NewFrameBuffer(w, h)
	fb.Clear(sc.Background.Current())

	proj := NewProjector(cam, w, h)
	if sc.GridVisible() {
		DrawGrid(fb, proj, sc.Grid)
	}

	if m := sc.Model; m != nil {
		lc := NewLightConfig(sc.Sun, sc.Material, proj.ViewDir())
		var translucent []int
		for i := range m.Meshes {
			if m.Meshes[i].Alpha < 1 {
				translucent = append(translucent, i)
				continue
			}
			drawMesh(fb, proj, &lc, sc, &m.Meshes[i], opts.FlatTextures)
		}
		// Translucent meshes after all opaque ones so they blend over them.
		for _, i := range translucent {
			drawMesh(fb, proj, &lc, sc, &m.Meshes[i], opts.FlatTextures)
		}
	}

	return fb.Image()
}

func drawMesh(fb *FrameBuffer, proj *Projector, lc *LightConfig, sc *scene.Scene, mesh *scene.Mesh, flat bool) {
	if len(mesh.Verts) == 0 {
		return
	}
	world := sc.Model.WorldVerts(mesh)

	px := make([]Vertex, len(world))
	visible := make([]bool, len(world))
	for i, w := range world {
		x, y, z, ok := proj.Project(w)
		px[i] = Vertex{X: x, Y: y, Z: z}
		visible[i] = ok
	}

	surf := Surface{Blend: mesh.Alpha < 1}
	alpha := clamp255(mesh.Alpha * 255)
	tex := mesh.Texture
	hasUV := tex != nil && len(mesh.UVs) == len(mesh.Verts)
	switch {
	case hasUV && flat:
		surf.Color = averageColor(tex)
		surf.Color[3] = uint8(float64(surf.Color[3])*float64(alpha)/255 + 0.5)
	case hasUV:
		surf.Tex = tex
		surf.Color = [4]uint8{255, 255, 255, alpha}
		for i, uv := range mesh.UVs {
			px[i].U, px[i].V = float64(uv[0]), float64(uv[1])
		}
	default:
		c := sc.Material.Tint(mesh.BaseColor, false)
		r, g, b := c.Clamped().RGB255()
		surf.Color = [4]uint8{r, g, b, alpha}
	}

	nv := uint32(len(world))
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a, b, c := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		if a >= nv || b >= nv || c >= nv {
			continue
		}
		if !visible[a] || !visible[b] || !visible[c] {
			continue
		}
		n := faceNormal(world[a], world[b], world[c])
		if n == (mgl64.Vec3{}) {
			continue
		}
		surf.Shade = lc.ComputeShade(n)
		RasterizeTriangle(fb, [3]Vertex{px[a], px[b], px[c]}, &surf, lc)
	}
}

func faceNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / l)
}
