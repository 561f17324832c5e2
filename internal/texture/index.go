package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths, so a model that
// names "Textures\Hull.PNG" still finds hull.png in a search directory.
// PNG and TGA win over JPEG for the same stem (alpha channel).
type Index struct {
	entries map[string]string
}

// BuildIndex scans dirs recursively for supported image files.
func BuildIndex(dirs ...string) *Index {
	idx := &Index{entries: make(map[string]string)}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !Supported(path) {
				return nil
			}
			key := stemKey(path)
			existing, exists := idx.entries[key]
			if !exists || (hasAlpha(path) && !hasAlpha(existing)) {
				idx.entries[key] = path
			}
			return nil
		})
	}
	return idx
}

func hasAlpha(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".tga", ".webp":
		return true
	}
	return false
}

func stemKey(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResolvePath returns the filesystem path for a texture name, or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	if idx == nil {
		return "", false
	}
	path, ok := idx.entries[stemKey(texName)]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
