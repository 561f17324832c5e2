package preset

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"unicode"

	"asset-previewer/internal/mathutil"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// cameraFile matches the JSON schema of camera/*.json.
// Pointers distinguish a missing field from a zero value.
type cameraFile struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description"`

	Direction     *[3]float64 `json:"direction"`
	DistanceRatio *float64    `json:"distance_ratio"`
	Rotation      *eulerFile  `json:"rotation"`

	BasePosition    *[3]float64 `json:"base_position"`
	ScaleMultiplier *float64    `json:"scale_multiplier"`
	Quaternion      *[4]float64 `json:"quaternion"` // x, y, z, w
}

type eulerFile struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Order string  `json:"order"`
}

// gridFile matches the JSON schema of grid/*.json.
type gridFile struct {
	Name            string   `json:"name"`
	Label           string   `json:"label"`
	Size            *float64 `json:"size"`
	Divisions       *int     `json:"divisions"`
	CenterLineColor string   `json:"center_line_color"`
	GridLineColor   string   `json:"grid_line_color"`
}

// normalizeTolerance is how far a quaternion may be from unit length and
// still be accepted (and renormalized) on load.
const normalizeTolerance = 1e-2

// DecodeCamera parses one camera preset file. fallbackName is used when the
// record has no "name" (normally the file stem).
func DecodeCamera(data []byte, fallbackName string) (Camera, error) {
	var f cameraFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Camera{}, fmt.Errorf("preset: parse camera %s: %w", fallbackName, err)
	}
	name := f.Name
	if name == "" {
		name = fallbackName
	}

	c := Camera{Name: name, Label: f.Label, Description: f.Description}

	directional := f.Direction != nil || f.DistanceRatio != nil || f.Rotation != nil
	absolute := f.BasePosition != nil || f.ScaleMultiplier != nil || f.Quaternion != nil

	switch {
	case directional && absolute:
		return Camera{}, invalid(name, "mixes directional and absolute fields")
	case directional:
		if f.Direction == nil || f.DistanceRatio == nil {
			return Camera{}, invalid(name, "directional preset needs direction and distance_ratio")
		}
		c.Kind = Directional
		c.Direction = mgl64.Vec3(*f.Direction)
		if c.Direction.Len() < 1e-9 {
			return Camera{}, invalid(name, "direction must be non-zero")
		}
		c.Direction = c.Direction.Normalize()
		c.DistanceRatio = *f.DistanceRatio
		if f.Rotation != nil {
			order, err := mathutil.ParseEulerOrder(f.Rotation.Order)
			if err != nil {
				return Camera{}, invalid(name, "%v", err)
			}
			c.Rotation = &Euler{X: f.Rotation.X, Y: f.Rotation.Y, Z: f.Rotation.Z, Order: order}
		}
	case absolute:
		if f.BasePosition == nil || f.ScaleMultiplier == nil || f.Quaternion == nil {
			return Camera{}, invalid(name, "absolute preset needs base_position, scale_multiplier and quaternion")
		}
		c.Kind = Absolute
		c.BasePosition = mgl64.Vec3(*f.BasePosition)
		c.ScaleMultiplier = *f.ScaleMultiplier
		q := *f.Quaternion
		c.Orientation = mgl64.Quat{W: q[3], V: mgl64.Vec3{q[0], q[1], q[2]}}
		if !mathutil.IsUnit(c.Orientation, normalizeTolerance) {
			return Camera{}, invalid(name, "quaternion is not unit length (%.4f)", c.Orientation.Len())
		}
		c.Orientation = c.Orientation.Normalize()
	default:
		return Camera{}, invalid(name, "record has neither directional nor absolute fields")
	}

	if err := c.Validate(); err != nil {
		return Camera{}, err
	}
	return c, nil
}

// DecodeGrid parses one grid preset file.
func DecodeGrid(data []byte, fallbackName string) (Grid, error) {
	var f gridFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Grid{}, fmt.Errorf("preset: parse grid %s: %w", fallbackName, err)
	}
	name := f.Name
	if name == "" {
		name = fallbackName
	}
	if f.Size == nil || f.Divisions == nil {
		return Grid{}, invalid(name, "grid preset needs size and divisions")
	}

	g := Grid{Name: name, Label: f.Label, Size: *f.Size, Divisions: *f.Divisions}

	var err error
	if g.CenterLineColor, err = parseColor(f.CenterLineColor, "#444444"); err != nil {
		return Grid{}, invalid(name, "center_line_color: %v", err)
	}
	if g.GridLineColor, err = parseColor(f.GridLineColor, "#888888"); err != nil {
		return Grid{}, invalid(name, "grid_line_color: %v", err)
	}

	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func parseColor(s, def string) (colorful.Color, error) {
	if s == "" {
		s = def
	}
	// Accept 0x-prefixed values as well as #rrggbb.
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = "#" + s[2:]
	}
	return colorful.Hex(s)
}

// stem returns the file name without directory or extension.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// DisplayName turns a camelCase key into a title: "tiberianSun" → "Tiberian Sun",
// "redAlert2" → "Red Alert 2".
func DisplayName(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			prev = r
			continue
		}
		if unicode.IsUpper(r) || (unicode.IsDigit(r) && !unicode.IsDigit(prev)) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// Title is the label shown in pickers.
func (c Camera) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return DisplayName(c.Name)
}

// Title is the label shown in pickers.
func (g Grid) Title() string {
	if g.Label != "" {
		return g.Label
	}
	return DisplayName(g.Name)
}
