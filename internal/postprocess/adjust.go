package postprocess

import (
	"image"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/scene"

	"github.com/disintegration/imaging"
)

// maxSharpenSigma bounds the unsharp mask radius.
const maxSharpenSigma = 5.0

// Contrast adjusts contrast by percent in [-100, 100]. Zero is a no-op.
func Contrast(img *image.NRGBA, percent float64) *image.NRGBA {
	if percent == 0 {
		return img
	}
	return imaging.AdjustContrast(img, mathutil.Clamp(percent, -100, 100))
}

// Sharpen applies an unsharp mask of the given sigma. Zero is a no-op.
func Sharpen(img *image.NRGBA, sigma float64) *image.NRGBA {
	if sigma <= 0 {
		return img
	}
	return imaging.Sharpen(img, mathutil.Clamp(sigma, 0, maxSharpenSigma))
}

// Finish reduces a supersampled render to w×h and applies the material's
// image-space controls.
func Finish(img *image.NRGBA, w, h int, mat scene.Material) *image.NRGBA {
	img = Downsample(img, w, h)
	img = Contrast(img, mat.Contrast)
	return Sharpen(img, mat.Sharpness)
}
