package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"asset-previewer/internal/config"
	"asset-previewer/internal/scene"
	"asset-previewer/internal/snapshot"
	"asset-previewer/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func viewCmd() *cobra.Command {
	var flags config.Flags
	cmd := &cobra.Command{
		Use:   "view [model.glb|model.gltf]",
		Short: "Interactive terminal viewer",
		Long: `Interactive terminal viewer.

Keys:
  o           open a model
  [ ]         select camera preset, enter/p to apply
  g           cycle grid preset
  b           toggle background
  arrows/hjkl orbit, +/- zoom
  tab         scene controls (type a number to set a value)
  ?           help, q to quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; logs go to --log or nowhere.
			a, err := setup(cmd.Context(), flags, io.Discard)
			if err != nil {
				return err
			}
			defer a.closeLog()

			rt, ctl := a.viewport()
			opts := tui.Options{
				Store:        a.store,
				Runtime:      rt,
				Controller:   ctl,
				Load:         a.loadModel,
				CameraPreset: a.cfg.CameraPreset,
				GridPreset:   a.cfg.GridPreset,
				FPS:          a.cfg.FPS,
				StartDir:     a.cfg.BaseDir,
				Logger:       a.logger,
			}
			if len(args) == 1 {
				opts.InitialModel = args[0]
				opts.StartDir = filepath.Dir(args[0])
			}

			p := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&flags.CameraPreset, "camera", "", "Initial camera preset")
	cmd.Flags().StringVar(&flags.GridPreset, "grid", "", "Initial grid preset")
	cmd.Flags().StringVar(&flags.Projection, "projection", "", "orthographic or perspective")
	cmd.Flags().IntVar(&flags.FPS, "fps", 0, "Animation frame rate (default 30)")
	return cmd
}

func renderCmd() *cobra.Command {
	var (
		flags   config.Flags
		caption bool
	)
	cmd := &cobra.Command{
		Use:   "render <model.glb|model.gltf>",
		Short: "Render a camera preset transition to WebP frames",
		Long: `Render a camera preset transition to WebP frames.

The camera starts at the default pose and moves to --preset; every frame of
the transition is written to --out as frame_NNNN.webp, followed by a
manifest.json with the camera pose of each frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), flags, os.Stderr)
			if err != nil {
				return err
			}
			defer a.closeLog()
			return runRender(cmd, a, args[0], caption)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.CameraPreset, "preset", "", "Camera preset to frame the model with")
	f.StringVar(&flags.GridPreset, "grid", "", "Grid preset")
	f.StringVar(&flags.Projection, "projection", "", "orthographic or perspective")
	f.StringVarP(&flags.OutputDir, "out", "o", "", "Output directory (default: ./renders)")
	f.IntVar(&flags.FPS, "fps", 0, "Frames per second of the transition (default 30)")
	f.IntVar(&flags.Size, "size", 0, "Frame width and height in pixels (default 512)")
	f.IntVar(&flags.Workers, "workers", 0, "Number of render workers (default: NumCPU)")
	f.IntVar(&flags.Quality, "quality", 0, "WebP quality 1-100 (default: 90)")
	f.BoolVar(&caption, "caption", false, "Draw the preset name and frame number on each frame")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, modelPath string, caption bool) error {
	cfg := a.cfg
	mdl, err := a.loadModel(modelPath)
	if err != nil {
		return err
	}
	rt, ctl := a.viewport()
	rt.SetModel(mdl)
	target := scene.MeasureExtent(mdl).Center()

	frames, err := snapshot.Plan(ctl, rt, cfg.CameraPreset, target, cfg.FPS)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Model:   %s (%d triangles)\n", filepath.Base(modelPath), mdl.TriangleCount())
	fmt.Fprintf(out, "Preset:  %s\n", cfg.CameraPreset)
	fmt.Fprintf(out, "Frames:  %d at %d fps, %dx%d, Workers: %d\n", len(frames), cfg.FPS, cfg.RenderSize, cfg.RenderSize, cfg.Workers)
	fmt.Fprintf(out, "Output:  %s\n", cfg.OutputDir)
	fmt.Fprintln(out, "------------------------------------------------------------")

	start := time.Now()
	runCfg := snapshot.Config{
		OutputDir:   cfg.OutputDir,
		Width:       cfg.RenderSize,
		Height:      cfg.RenderSize,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Logger:      a.logger,
	}
	if caption {
		runCfg.Caption = cfg.CameraPreset
	}
	results := snapshot.Run(cmd.Context(), runCfg, rt.Scene, frames)

	fmt.Fprintln(out, "------------------------------------------------------------")
	fmt.Fprintf(out, "Done in %.1fs\n", time.Since(start).Seconds())

	var failed []snapshot.Result
	for _, r := range results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	fmt.Fprintf(out, "Rendered: %d/%d\n", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		fmt.Fprintf(out, "\nFailed (%d):\n", len(failed))
		for i, r := range failed {
			if i == 20 {
				break
			}
			fmt.Fprintf(out, "  %s: %s\n", snapshot.FrameName(r.Index), r.Error)
		}
	}

	m := snapshot.Manifest{
		Model:  filepath.Base(modelPath),
		Preset: cfg.CameraPreset,
		FPS:    cfg.FPS,
		Width:  cfg.RenderSize,
		Height: cfg.RenderSize,
	}
	if rt.Scene.GridVisible() {
		m.Grid = rt.Scene.Grid.Name
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := snapshot.WriteManifest(manifestPath, snapshot.BuildManifest(m, frames, results)); err != nil {
		a.logger.Warn("manifest write failed", "err", err)
	} else {
		fmt.Fprintf(out, "Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d frames failed", len(failed))
	}
	return nil
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.glb|model.gltf>",
		Short: "Display model information",
		Long:  "Display format, vertex and triangle counts, and the bounding box of a model as loaded (centred and scaled).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), config.Flags{}, os.Stderr)
			if err != nil {
				return err
			}
			defer a.closeLog()

			path := args[0]
			st, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot access file: %w", err)
			}
			mdl, err := a.loadModel(path)
			if err != nil {
				return err
			}
			ext := scene.MeasureExtent(mdl)
			size, center := ext.Size(), ext.Center()
			textured := 0
			for i := range mdl.Meshes {
				if mdl.Meshes[i].Texture != nil {
					textured++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:       %s\n", filepath.Base(path))
			fmt.Fprintf(out, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), ".")))
			fmt.Fprintf(out, "Size:       %.2f KB\n", float64(st.Size())/1024)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Meshes:     %d (%d textured)\n", len(mdl.Meshes), textured)
			fmt.Fprintf(out, "Vertices:   %d\n", mdl.VertexCount())
			fmt.Fprintf(out, "Triangles:  %d\n", mdl.TriangleCount())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Bounds Min: (%.3f, %.3f, %.3f)\n", ext.Min[0], ext.Min[1], ext.Min[2])
			fmt.Fprintf(out, "Bounds Max: (%.3f, %.3f, %.3f)\n", ext.Max[0], ext.Max[1], ext.Max[2])
			fmt.Fprintf(out, "Dimensions: %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
			fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", center[0], center[1], center[2])
			return nil
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List camera and grid presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), config.Flags{}, os.Stderr)
			if err != nil {
				return err
			}
			defer a.closeLog()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Cameras:")
			for _, name := range a.store.CameraNames() {
				c, _ := a.store.Camera(name)
				mark := " "
				if name == a.cfg.CameraPreset {
					mark = "*"
				}
				fmt.Fprintf(out, " %s %-16s %-20s %s\n", mark, name, c.Title(), c.Kind)
			}
			fmt.Fprintln(out, "\nGrids:")
			for _, name := range a.store.GridNames() {
				g, _ := a.store.Grid(name)
				mark := " "
				if name == a.cfg.GridPreset {
					mark = "*"
				}
				fmt.Fprintf(out, " %s %-16s %-20s size %.0f, %d divisions\n", mark, name, g.Title(), g.Size, g.Divisions)
			}
			return nil
		},
	}
}
