package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"asset-previewer/internal/postprocess"
	"asset-previewer/internal/raster"
	"asset-previewer/internal/scene"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/log"
)

// Config holds all shared settings for a render run.
type Config struct {
	OutputDir   string
	Width       int
	Height      int
	Supersample int
	Workers     int
	// Caption, when set, is drawn on every frame followed by the frame number.
	Caption string
	Logger  *log.Logger
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Index   int
	Image   string // path relative to OutputDir
	Success bool
	Error   string
}

// FrameName is the file name of frame i.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%04d.webp", i)
}

// Run renders all frames using a worker pool. The scene must not be mutated
// while Run is in progress. Frames not started before ctx is done are
// reported as failed.
func Run(ctx context.Context, cfg Config, sc *scene.Scene, frames []Frame) []Result {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("snapshot")

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					logger.Info("rendering", "done", p, "total", total, "fps", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				results[idx] = processFrame(cfg, sc, frames[idx], total)
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for i := range frames {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break send
		case frameChan <- i:
			sent++
		}
	}
	close(frameChan)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{Index: frames[i].Index, Error: ctx.Err().Error()}
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			logger.Error("frame failed", "frame", r.Index, "err", r.Error)
		}
	}
	logger.Info("render finished", "frames", total, "failed", failed, "elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

func processFrame(cfg Config, sc *scene.Scene, f Frame, total int) Result {
	name := FrameName(f.Index)
	fail := func(err error) Result {
		return Result{Index: f.Index, Image: name, Error: err.Error()}
	}

	img := raster.Render(sc, f.Camera, raster.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
	})

	// Post-processing: supersample downsample + material image controls
	img = postprocess.Finish(img, cfg.Width, cfg.Height, sc.Material)

	if cfg.Caption != "" {
		drawCaption(img, fmt.Sprintf("%s  %d/%d", cfg.Caption, f.Index+1, total))
	}

	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fail(err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fail(err)
	}
	defer out.Close()

	if err := nativewebp.Encode(out, img, nil); err != nil {
		return fail(fmt.Errorf("webp encode: %w", err))
	}

	return Result{Index: f.Index, Image: name, Success: true}
}
