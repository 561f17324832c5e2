package model

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"asset-previewer/internal/scene"
	"asset-previewer/internal/texture"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTargetSize is the largest side a model is scaled to on load.
const DefaultTargetSize = 50.0

// LoadError reports a model file that could not be loaded. The scene is
// never touched when one is returned.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("model: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options controls loading.
type Options struct {
	TargetSize float64          // 0 means DefaultTargetSize, <0 disables rescaling
	Textures   texture.Resolver // resolves external image URIs; may be nil
	Logger     *log.Logger
}

// Extensions lists the model formats Load accepts.
var Extensions = []string{".glb", ".gltf"}

// Load parses a model file, centres it on the origin and scales it so its
// largest side equals the target size. Failures are returned as *LoadError
// and left to the caller to report.
func Load(path string, opts Options) (*scene.Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("model")

	ext := strings.ToLower(filepath.Ext(path))
	var (
		m   *scene.Model
		err error
	)
	switch ext {
	case ".glb", ".gltf":
		m, err = loadGLTF(path, opts.Textures, logger)
	default:
		err = fmt.Errorf("unsupported format %q (use .glb or .gltf)", ext)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if m.VertexCount() == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no triangle geometry")}
	}

	m.Name = filepath.Base(path)
	m.Format = strings.ToUpper(strings.TrimPrefix(ext, "."))
	m.Transform = scene.IdentityTransform()

	target := opts.TargetSize
	if target == 0 {
		target = DefaultTargetSize
	}
	Normalize(m, target)

	logger.Info("model loaded",
		"name", m.Name,
		"meshes", len(m.Meshes),
		"verts", m.VertexCount(),
		"tris", m.TriangleCount(),
		"scale", fmt.Sprintf("%.4f", m.LoadScale))
	return m, nil
}

// Normalize bakes a centring translation and uniform scale into the
// vertices so the model's box is centred on the origin with its largest
// side equal to target. target <= 0 only centres.
func Normalize(m *scene.Model, target float64) {
	saved := m.Transform
	m.Transform = scene.IdentityTransform()
	ext := scene.MeasureExtent(m)
	m.Transform = saved

	center := ext.Center()
	maxDim := ext.MaxDimension()
	scale := 1.0
	if target > 0 && maxDim > 1e-9 && !math.IsInf(maxDim, 0) {
		scale = target / maxDim
	}

	for i := range m.Meshes {
		verts := m.Meshes[i].Verts
		for j, v := range verts {
			p := mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}.Sub(center).Mul(scale)
			verts[j] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
		}
	}
	m.LoadScale = scale
}
