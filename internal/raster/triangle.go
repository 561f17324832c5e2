package raster

import (
	"image"
	"math"
)

// Vertex is a projected vertex: pixel position, depth and texture coordinate.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Surface describes how a triangle is filled. Color is the untextured
// sRGB color; its alpha scales texel alpha. Shade is the flat lighting term.
type Surface struct {
	Tex   *image.NRGBA
	Color [4]uint8
	Shade float64
	// Blend composites over the buffer without writing depth, for
	// translucent meshes.
	Blend bool
}

// RasterizeTriangle fills a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting and ACES tone mapping.
//
// This is the hot path and does not allocate. Lighting is flat (per face).
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, s *Surface, lc *LightConfig) {
	x0, y0, z0 := v[0].X, v[0].Y, v[0].Z
	x1, y1, z1 := v[1].X, v[1].Y, v[1].Z
	x2, y2, z2 := v[2].X, v[2].Y, v[2].Z

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	tex := s.Tex
	alphaScale := float64(s.Color[3]) / 255

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if tex != nil {
				u := w0*v[0].U + w1*v[1].U + w2*v[2].U
				t := w0*v[0].V + w1*v[1].V + w2*v[2].V
				cr, cg, cb, ca = SampleTexture(tex, u, t)
				ca = uint8(float64(ca)*alphaScale + 0.5)
			} else {
				cr, cg, cb, ca = s.Color[0], s.Color[1], s.Color[2], s.Color[3]
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}

			r, g, b := lc.shadePixel(cr, cg, cb, s.Shade)
			pxIdx := zIdx * 4

			if s.Blend {
				a := float64(ca) / 255
				fb.Color[pxIdx] = clamp255(float64(r)*a + float64(fb.Color[pxIdx])*(1-a))
				fb.Color[pxIdx+1] = clamp255(float64(g)*a + float64(fb.Color[pxIdx+1])*(1-a))
				fb.Color[pxIdx+2] = clamp255(float64(b)*a + float64(fb.Color[pxIdx+2])*(1-a))
				if ca > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = ca
				}
				continue
			}

			fb.ZBuf[zIdx] = z
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = 255
		}
	}
}
