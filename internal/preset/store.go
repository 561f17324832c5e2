package preset

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

//go:embed defaults/camera/*.json defaults/grid/*.json
var defaults embed.FS

// Defaults returns the built-in preset directory (camera/ and grid/).
func Defaults() fs.FS {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// Store holds loaded presets by name. It is filled once at startup and is
// read-only afterwards.
type Store struct {
	cameras map[string]Camera
	grids   map[string]Grid
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		cameras: make(map[string]Camera),
		grids:   make(map[string]Grid),
	}
}

// AddCamera validates and registers a camera preset, replacing any preset of
// the same name.
func (s *Store) AddCamera(c Camera) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.cameras[c.Name] = c
	return nil
}

// AddGrid validates and registers a grid preset.
func (s *Store) AddGrid(g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.grids[g.Name] = g
	return nil
}

// Camera looks up a camera preset.
func (s *Store) Camera(name string) (Camera, bool) {
	c, ok := s.cameras[name]
	return c, ok
}

// Grid looks up a grid preset.
func (s *Store) Grid(name string) (Grid, bool) {
	g, ok := s.grids[name]
	return g, ok
}

// CameraNames returns all camera preset names, sorted.
func (s *Store) CameraNames() []string {
	return sortedKeys(s.cameras)
}

// GridNames returns all grid preset names, sorted.
func (s *Store) GridNames() []string {
	return sortedKeys(s.grids)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LoadError reports one preset file that could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("preset: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type loadResult struct {
	path   string
	camera *Camera
	grid   *Grid
	err    error
}

// LoadAll reads camera/*.json and grid/*.json from every source concurrently.
// A file that fails to read or validate is logged and skipped; it never
// aborts the rest of the load. Sources are merged in order, so a later
// source overrides a same-named preset from an earlier one.
func LoadAll(ctx context.Context, logger *log.Logger, sources ...fs.FS) (*Store, []error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("preset")

	type job struct {
		src    fs.FS
		path   string
		camera bool
	}

	var jobs []job
	var errs []error
	for _, src := range sources {
		for _, kind := range []string{"camera", "grid"} {
			matches, err := fs.Glob(src, kind+"/*.json")
			if err != nil {
				errs = append(errs, &LoadError{Path: kind, Err: err})
				continue
			}
			for _, m := range matches {
				jobs = append(jobs, job{src: src, path: m, camera: kind == "camera"})
			}
		}
	}

	results := make([]loadResult, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = loadOne(ctx, j.src, j.path, j.camera)
		}()
	}
	wg.Wait()

	store := NewStore()
	for _, r := range results {
		if r.err != nil {
			logger.Error("failed to load preset", "path", r.path, "err", r.err)
			errs = append(errs, &LoadError{Path: r.path, Err: r.err})
			continue
		}
		switch {
		case r.camera != nil:
			if _, dup := store.cameras[r.camera.Name]; dup {
				logger.Info("camera preset overridden", "name", r.camera.Name, "path", r.path)
			}
			store.cameras[r.camera.Name] = *r.camera
			logger.Debug("loaded camera preset", "name", r.camera.Name, "kind", r.camera.Kind)
		case r.grid != nil:
			if _, dup := store.grids[r.grid.Name]; dup {
				logger.Info("grid preset overridden", "name", r.grid.Name, "path", r.path)
			}
			store.grids[r.grid.Name] = *r.grid
			logger.Debug("loaded grid preset", "name", r.grid.Name)
		}
	}

	logger.Info("presets loaded", "cameras", len(store.cameras), "grids", len(store.grids), "failed", len(errs))
	return store, errs
}

func loadOne(ctx context.Context, src fs.FS, path string, camera bool) loadResult {
	r := loadResult{path: path}
	if err := ctx.Err(); err != nil {
		r.err = err
		return r
	}
	data, err := fs.ReadFile(src, path)
	if err != nil {
		r.err = err
		return r
	}
	if camera {
		c, err := DecodeCamera(data, stem(path))
		if err != nil {
			r.err = err
			return r
		}
		r.camera = &c
		return r
	}
	g, err := DecodeGrid(data, stem(path))
	if err != nil {
		r.err = err
		return r
	}
	r.grid = &g
	return r
}
