package tui

import (
	"fmt"
	"strconv"
	"strings"

	"asset-previewer/internal/mathutil"
	"asset-previewer/internal/scene"
)

// slider is one adjustable scene parameter. The value shown is always read
// back from the runtime so it cannot drift from what is rendered.
type slider struct {
	group string
	label string
	min   float64
	max   float64
	step  float64
	get   func(*scene.Runtime) float64
	set   func(*scene.Runtime, float64)
}

func (s slider) value(rt *scene.Runtime) float64 {
	return s.get(rt)
}

// apply clamps v into range and writes it.
func (s slider) apply(rt *scene.Runtime, v float64) float64 {
	v = mathutil.Clamp(v, s.min, s.max)
	s.set(rt, v)
	return v
}

func (s slider) nudge(rt *scene.Runtime, steps float64) float64 {
	return s.apply(rt, s.value(rt)+steps*s.step)
}

// parse reads a typed value. Empty input is rejected.
func (s slider) parse(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%s: enter a number", s.label)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !mathutil.Finite(v) {
		return 0, fmt.Errorf("%s: %q is not a number", s.label, text)
	}
	return v, nil
}

func (s slider) format(v float64) string {
	if s.step >= 1 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// bar draws the slider position as a fixed-width gauge.
func (s slider) bar(v float64, width int) string {
	if width < 1 {
		return ""
	}
	f := 0.0
	if s.max > s.min {
		f = (v - s.min) / (s.max - s.min)
	}
	n := int(mathutil.Clamp(f, 0, 1)*float64(width) + 0.5)
	return strings.Repeat("━", n) + strings.Repeat("─", width-n)
}

func sliders() []slider {
	return []slider{
		{group: "Sun", label: "Azimuth", min: 0, max: 360, step: 5,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Sun.Azimuth },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Sun.Azimuth = v }},
		{group: "Sun", label: "Elevation", min: 0, max: 90, step: 5,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Sun.Elevation },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Sun.Elevation = v }},
		{group: "Sun", label: "Intensity", min: 0, max: 3, step: 0.1,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Sun.Intensity },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Sun.Intensity = v }},

		{group: "Material", label: "Hue", min: 0, max: 360, step: 10,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Material.Hue },
			set: func(rt *scene.Runtime, v float64) {
				rt.Scene.Material.Hue = v
				rt.Scene.Material.OverrideHue = true
			}},
		{group: "Material", label: "Brightness", min: 0, max: 3, step: 0.1,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Material.Brightness },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Material.Brightness = v }},
		{group: "Material", label: "Contrast", min: -100, max: 100, step: 5,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Material.Contrast },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Material.Contrast = v }},
		{group: "Material", label: "Sharpness", min: 0, max: 5, step: 0.25,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Material.Sharpness },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Material.Sharpness = v }},
		{group: "Material", label: "Roughness", min: 0, max: 1, step: 0.05,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Material.Roughness },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Material.Roughness = v }},
		{group: "Material", label: "Metalness", min: 0, max: 1, step: 0.05,
			get: func(rt *scene.Runtime) float64 { return rt.Scene.Material.Metalness },
			set: func(rt *scene.Runtime, v float64) { rt.Scene.Material.Metalness = v }},

		{group: "Model", label: "Scale", min: 0.1, max: 10, step: 0.1,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.Scale }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.Scale })},
		{group: "Model", label: "Rotate X", min: -180, max: 180, step: 15,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.RotationDeg[0] }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.RotationDeg[0] })},
		{group: "Model", label: "Rotate Y", min: -180, max: 180, step: 15,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.RotationDeg[1] }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.RotationDeg[1] })},
		{group: "Model", label: "Rotate Z", min: -180, max: 180, step: 15,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.RotationDeg[2] }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.RotationDeg[2] })},
		{group: "Model", label: "Position X", min: -100, max: 100, step: 1,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.Position[0] }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.Position[0] })},
		{group: "Model", label: "Position Y", min: -100, max: 100, step: 1,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.Position[1] }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.Position[1] })},
		{group: "Model", label: "Position Z", min: -100, max: 100, step: 1,
			get: transformGet(func(t *scene.Transform) *float64 { return &t.Position[2] }),
			set: transformSet(func(t *scene.Transform) *float64 { return &t.Position[2] })},
	}
}

// Model transform sliders read the identity transform and ignore writes
// until a model is loaded.
func transformGet(field func(*scene.Transform) *float64) func(*scene.Runtime) float64 {
	return func(rt *scene.Runtime) float64 {
		if m := rt.CurrentModel(); m != nil {
			return *field(&m.Transform)
		}
		t := scene.IdentityTransform()
		return *field(&t)
	}
}

func transformSet(field func(*scene.Transform) *float64) func(*scene.Runtime, float64) {
	return func(rt *scene.Runtime, v float64) {
		if m := rt.CurrentModel(); m != nil {
			*field(&m.Transform) = v
		}
	}
}
