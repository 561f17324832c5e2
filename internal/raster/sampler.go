package raster

import (
	"image"
	"math"
)

// SampleTexture performs bilinear filtering with repeat wrapping, matching
// the glTF default sampler. UV (0,0) is the top-left texel.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0, 0
	}

	u -= math.Floor(u)
	v -= math.Floor(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	ch := func(off int) uint8 {
		f := float64(pix[i00+off])*w00 + float64(pix[i10+off])*w10 +
			float64(pix[i01+off])*w01 + float64(pix[i11+off])*w11
		return uint8(f + 0.5)
	}
	return ch(0), ch(1), ch(2), ch(3)
}

// averageColor is the mean texel color, used where a texture is too small
// on screen to be worth sampling.
func averageColor(tex *image.NRGBA) [4]uint8 {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{160, 160, 170, 255}
	}

	var sumR, sumG, sumB, sumA float64
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(tex.Pix[i])
			sumG += float64(tex.Pix[i+1])
			sumB += float64(tex.Pix[i+2])
			sumA += float64(tex.Pix[i+3])
		}
	}
	n := float64(w * h)
	return [4]uint8{uint8(sumR/n + 0.5), uint8(sumG/n + 0.5), uint8(sumB/n + 0.5), uint8(sumA/n + 0.5)}
}
