package raster

import (
	"math"

	"asset-previewer/internal/scene"

	"github.com/go-gl/mathgl/mgl64"
)

// LightConfig holds precomputed lighting parameters. All directions are
// world space and point away from the surface.
type LightConfig struct {
	LightDir  mgl64.Vec3
	RimDir    mgl64.Vec3
	ViewDir   mgl64.Vec3
	HalfMain  mgl64.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	SRGBGamma float64
	InvGamma  float64
}

// NewLightConfig derives lighting from the sun, the material overrides and
// the camera's viewing direction.
func NewLightConfig(sun scene.Sun, mat scene.Material, viewDir mgl64.Vec3) LightConfig {
	lightDir := sun.Direction()
	toEye := viewDir.Mul(-1).Normalize()
	// rim light comes from behind the model, opposite the sun
	rimDir := mgl64.Vec3{-lightDir[0], lightDir[1] * 0.5, -lightDir[2]}.Normalize()

	intensity := sun.Intensity
	if intensity < 0 {
		intensity = 0
	}

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		ViewDir:   toEye,
		HalfMain:  lightDir.Add(toEye).Normalize(),
		Ambient:   0.35,
		Hemi:      0.35,
		Direct:    1.10 * intensity * mat.DiffuseFactor(),
		Rim:       0.30,
		SpecInt:   mat.SpecularIntensity() * intensity,
		SpecPow:   mat.SpecularPower(),
		Exposure:  1.05,
		SRGBGamma: 2.2,
		InvGamma:  1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mgl64.Vec3) float64 {
	// double-sided: flip normals that face away from the eye
	if normal.Dot(lc.ViewDir) < 0 {
		normal = normal.Mul(-1)
	}

	ndlMain := math.Max(normal.Dot(lc.LightDir), 0)
	ndlRim := math.Max(normal.Dot(lc.RimDir), 0)

	// Hemisphere fill: brighter facing up
	hemi := normal[1]*0.25 + 0.75
	hemiLight := hemi * lc.Hemi

	ndh := normal.Dot(lc.HalfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemiLight + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

// shadePixel lights an sRGB color and returns it tone mapped, in sRGB.
func (lc *LightConfig) shadePixel(r, g, b uint8, shade float64) (uint8, uint8, uint8) {
	k := shade * lc.Exposure
	tr := ACESTonemap(srgbToLinear[r] * k)
	tg := ACESTonemap(srgbToLinear[g] * k)
	tb := ACESTonemap(srgbToLinear[b] * k)
	return clamp255(math.Pow(tr, lc.InvGamma) * 255),
		clamp255(math.Pow(tg, lc.InvGamma) * 255),
		clamp255(math.Pow(tb, lc.InvGamma) * 255)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
