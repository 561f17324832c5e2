package raster

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
// Depth grows toward the camera: a fragment wins if its depth is greater.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, initialized to -inf
}

// NewFrameBuffer allocates a zeroed color buffer and -inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// Clear fills the color buffer with an opaque background.
func (fb *FrameBuffer) Clear(bg colorful.Color) {
	r, g, b := bg.Clamped().RGB255()
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = 255
	}
}

// Image copies the color buffer into an NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// At returns the RGBA bytes of a pixel.
func (fb *FrameBuffer) At(x, y int) [4]uint8 {
	i := (y*fb.Width + x) * 4
	return [4]uint8{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}
