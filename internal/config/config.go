package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"asset-previewer/internal/scene"
)

// Config holds all configurable paths and viewer/render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	PresetDir  string `json:"preset_dir"`
	TextureDir string `json:"texture_dir"`
	OutputDir  string `json:"output_dir"`

	// Render settings
	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	WebPQuality int `json:"webp_quality"`
	Workers     int `json:"workers"`

	// Viewer settings
	FPS          int     `json:"fps"`
	TransitionMS int     `json:"transition_ms"`
	TargetSize   float64 `json:"target_size"`
	CameraPreset string  `json:"camera_preset"`
	GridPreset   string  `json:"grid_preset"`
	Projection   string  `json:"projection"`
	FOV          float64 `json:"fov"`
	FrustumSize  float64 `json:"frustum_size"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault is Load for an optional file: an empty path, or a missing
// default file, yields an empty Config.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); err != nil {
			return Config{}, nil
		}
	}
	return Load(path)
}

// DefaultPath is previewer.json in the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "previewer.json"
	}
	return filepath.Join(dir, "asset-previewer", "previewer.json")
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	PresetDir    string
	TextureDir   string
	OutputDir    string
	Size         int
	Quality      int
	Workers      int
	FPS          int
	CameraPreset string
	GridPreset   string
	Projection   string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.PresetDir != "" {
		c.PresetDir = flags.PresetDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.CameraPreset != "" {
		c.CameraPreset = flags.CameraPreset
	}
	if flags.GridPreset != "" {
		c.GridPreset = flags.GridPreset
	}
	if flags.Projection != "" {
		c.Projection = flags.Projection
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// Resolve relative paths against base dir
	c.PresetDir = c.resolvePath(c.PresetDir)
	c.TextureDir = c.resolvePath(c.TextureDir)
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "renders")
	} else {
		c.OutputDir = c.resolvePath(c.OutputDir)
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	// Defaults for the viewer
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.TransitionMS <= 0 {
		c.TransitionMS = 1000
	}
	if c.TargetSize <= 0 {
		c.TargetSize = 50
	}
	if c.CameraPreset == "" {
		c.CameraPreset = "redAlert2"
	}
	if c.GridPreset == "" {
		c.GridPreset = "redAlert2"
	}
	c.Projection = strings.ToLower(c.Projection)
	if c.Projection == "" {
		c.Projection = scene.Orthographic.String()
	}
	if c.FOV <= 0 {
		c.FOV = 45
	}
	if c.FrustumSize <= 0 {
		c.FrustumSize = 200
	}
}

// Validate reports settings Resolve cannot repair.
func (c *Config) Validate() error {
	if _, err := scene.ParseProjection(c.Projection); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.WebPQuality > 100 {
		return fmt.Errorf("config: webp_quality %d out of range 1-100", c.WebPQuality)
	}
	if c.FOV >= 180 {
		return fmt.Errorf("config: fov %.1f must be below 180", c.FOV)
	}
	return nil
}

// Camera builds the initial viewport camera from the projection settings.
func (c *Config) Camera() scene.Camera {
	cam := scene.DefaultCamera()
	if p, err := scene.ParseProjection(c.Projection); err == nil {
		cam.Projection = p
	}
	if cam.Projection == scene.Perspective {
		// perspective needs a positive near plane
		cam.Near = 0.1
	}
	cam.FOV = c.FOV
	cam.FrustumSize = c.FrustumSize
	return cam
}

func (c *Config) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
