package snapshot

import (
	"encoding/json"
	"os"
)

// Manifest describes a rendered transition.
type Manifest struct {
	Model      string          `json:"model,omitempty"`
	Preset     string          `json:"preset,omitempty"`
	Grid       string          `json:"grid,omitempty"`
	FPS        int             `json:"fps"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	DurationMS int64           `json:"duration_ms"`
	Frames     []ManifestEntry `json:"frames"`
}

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index       int        `json:"index"`
	TimeMS      int64      `json:"time_ms"`
	Progress    float64    `json:"progress"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"` // x, y, z, w
	Image       string     `json:"image,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// BuildManifest pairs planned frames with their render results.
func BuildManifest(m Manifest, frames []Frame, results []Result) Manifest {
	m.Frames = make([]ManifestEntry, len(frames))
	for i, f := range frames {
		q := f.Camera.Orientation
		e := ManifestEntry{
			Index:       f.Index,
			TimeMS:      f.Elapsed.Milliseconds(),
			Progress:    f.Progress,
			Position:    f.Camera.Position,
			Orientation: [4]float64{q.V[0], q.V[1], q.V[2], q.W},
		}
		if i < len(results) {
			if results[i].Success {
				e.Image = results[i].Image
			} else {
				e.Error = results[i].Error
			}
		}
		m.Frames[i] = e
		if e.TimeMS > m.DurationMS {
			m.DurationMS = e.TimeMS
		}
	}
	return m
}

// WriteManifest writes manifest.json to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
