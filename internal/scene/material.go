package scene

import (
	"math"

	"asset-previewer/internal/mathutil"

	"github.com/lucasb-eyer/go-colorful"
)

// Material holds user overrides applied to every mesh of the model.
// Hue and Brightness only recolor untextured meshes; Roughness and
// Metalness apply to all. Contrast and Sharpness act on the final image.
type Material struct {
	Hue         float64 // degrees, used when OverrideHue is set
	OverrideHue bool
	Brightness  float64 // lightness multiplier
	Contrast    float64 // percent, -100..100
	Sharpness   float64 // unsharp sigma, 0 disables
	Roughness   float64 // 0..1
	Metalness   float64 // 0..1
}

// DefaultMaterial leaves loaded colors untouched.
func DefaultMaterial() Material {
	return Material{Brightness: 1, Roughness: 0.5}
}

// Tint returns the surface color for a mesh.
func (m Material) Tint(base colorful.Color, textured bool) colorful.Color {
	if textured {
		return base
	}
	h, s, l := base.Hsl()
	if m.OverrideHue {
		h = math.Mod(m.Hue, 360)
		if h < 0 {
			h += 360
		}
		if s < 0.05 {
			s = 0.6
		}
	}
	l = mathutil.Clamp(l*m.Brightness, 0, 1)
	return colorful.Hsl(h, s, l).Clamped()
}

// SpecularPower maps roughness to a Blinn-Phong exponent: smooth surfaces
// get tight highlights.
func (m Material) SpecularPower() float64 {
	r := mathutil.Clamp(m.Roughness, 0, 1)
	return 2 + (1-r)*(1-r)*62
}

// SpecularIntensity fades highlights out as roughness grows.
func (m Material) SpecularIntensity() float64 {
	return 0.1 + 0.6*(1-mathutil.Clamp(m.Roughness, 0, 1))
}

// DiffuseFactor darkens the diffuse term of metallic surfaces.
func (m Material) DiffuseFactor() float64 {
	return 1 - 0.7*mathutil.Clamp(m.Metalness, 0, 1)
}
