package snapshot

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const captionMargin = 6

// drawCaption writes a line of text in the bottom-left corner over a dark
// backing strip.
func drawCaption(img *image.NRGBA, text string) {
	face := basicfont.Face7x13
	b := img.Bounds()
	lineH := face.Metrics().Height.Ceil()
	top := b.Max.Y - lineH - 2*captionMargin
	if top < b.Min.Y {
		return
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 235, G: 235, B: 235, A: 255}),
		Face: face,
	}
	width := drawer.MeasureString(text).Ceil() + 2*captionMargin

	strip := color.NRGBA{A: 160}
	for y := top; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Min.X+width && x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			img.SetNRGBA(x, y, blend(c, strip))
		}
	}

	drawer.Dot = fixed.Point26_6{
		X: fixed.I(b.Min.X + captionMargin),
		Y: fixed.I(b.Max.Y - captionMargin - face.Metrics().Descent.Ceil()),
	}
	drawer.DrawString(text)
}

func blend(dst, src color.NRGBA) color.NRGBA {
	a := float64(src.A) / 255
	mix := func(d, s uint8) uint8 { return uint8(float64(s)*a + float64(d)*(1-a) + 0.5) }
	return color.NRGBA{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: dst.A}
}
