// Package postprocess finishes rendered frames: supersample reduction and
// the image-space material controls.
package postprocess

import (
	"image"

	"github.com/disintegration/imaging"
)

// Downsample reduces a supersampled frame to w×h with Catmull-Rom filtering.
// imaging weights colour by alpha while resampling, so transparent edges do
// not pick up dark halos. Frames already at or below the target size are
// returned as is.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	return imaging.Resize(img, w, h, imaging.CatmullRom)
}
