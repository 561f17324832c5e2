package raster

import (
	"math"

	"asset-previewer/internal/preset"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// gridSegments is how many pieces each grid line is cut into, so that lines
// crossing the perspective near plane still draw their visible part.
const gridSegments = 32

// DrawGrid draws a square ground grid on the XZ plane centered at the origin.
// Lines are depth tested and written so the model occludes them correctly.
func DrawGrid(fb *FrameBuffer, proj *Projector, g *preset.Grid) {
	if g == nil || g.Divisions <= 0 || g.Size <= 0 {
		return
	}
	half := g.Size / 2
	step := g.Size / float64(g.Divisions)

	for i := 0; i <= g.Divisions; i++ {
		c := -half + float64(i)*step
		col := g.GridLineColor
		if math.Abs(c) < step*1e-6 {
			col = g.CenterLineColor
		}
		drawLine3D(fb, proj, mgl64.Vec3{c, 0, -half}, mgl64.Vec3{c, 0, half}, col)
		drawLine3D(fb, proj, mgl64.Vec3{-half, 0, c}, mgl64.Vec3{half, 0, c}, col)
	}
}

func drawLine3D(fb *FrameBuffer, proj *Projector, a, b mgl64.Vec3, col colorful.Color) {
	r, g, bl := col.Clamped().RGB255()
	rgba := [4]uint8{r, g, bl, 255}

	prev := a
	for s := 1; s <= gridSegments; s++ {
		next := a.Add(b.Sub(a).Mul(float64(s) / gridSegments))
		x0, y0, z0, ok0 := proj.Project(prev)
		x1, y1, z1, ok1 := proj.Project(next)
		if ok0 && ok1 {
			drawLine(fb, x0, y0, z0, x1, y1, z1, rgba)
		}
		prev = next
	}
}

// drawLine is a DDA line with linearly interpolated depth.
func drawLine(fb *FrameBuffer, x0, y0, z0, x1, y1, z1 float64, c [4]uint8) {
	dx, dy := x1-x0, y1-y0
	n := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if n == 0 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := int(x0 + dx*t)
		y := int(y0 + dy*t)
		if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
			continue
		}
		z := z0 + (z1-z0)*t
		idx := y*fb.Width + x
		if z <= fb.ZBuf[idx] {
			continue
		}
		fb.ZBuf[idx] = z
		copy(fb.Color[idx*4:idx*4+4], c[:])
	}
}
