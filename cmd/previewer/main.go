// previewer - 3D model viewer with camera framing presets.
//
// Commands:
//
//	view [model]     interactive terminal viewer
//	render <model>   render a preset transition to WebP frames + manifest.json
//	info <model>     print model statistics
//	presets          list camera and grid presets
package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-previewer/internal/config"
	"asset-previewer/internal/framing"
	"asset-previewer/internal/model"
	"asset-previewer/internal/preset"
	"asset-previewer/internal/scene"
	"asset-previewer/internal/texture"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Root flags shared by every command.
var (
	configFile string
	presetDir  string
	textureDir string
	logFile    string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "previewer",
		Short: "3D model viewer with camera framing presets",
		Long: `previewer - 3D model viewer with camera framing presets

Loads glTF models, frames them with named camera presets and animates
between poses. Presets are read from the built-in set plus camera/*.json
and grid/*.json under --presets.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to previewer.json (default: user config dir)")
	pf.StringVar(&presetDir, "presets", "", "Directory with camera/ and grid/ preset files")
	pf.StringVar(&textureDir, "textures", "", "Extra directory searched for model textures")
	pf.StringVar(&logFile, "log", "", "Write logs to this file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(viewCmd(), renderCmd(), infoCmd(), presetsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app is everything a command needs after configuration is resolved.
type app struct {
	cfg      config.Config
	logger   *log.Logger
	store    *preset.Store
	textures texture.Resolver
	closeLog func()
}

// setup loads config, presets and the texture index. Preset files that fail
// to load are reported and skipped.
func setup(ctx context.Context, flags config.Flags, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return nil, err
	}
	flags.PresetDir = presetDir
	flags.TextureDir = textureDir
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	closeLog := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		logOut = f
		closeLog = func() { f.Close() }
	}
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	sources := []fs.FS{preset.Defaults()}
	if cfg.PresetDir != "" {
		if _, err := os.Stat(cfg.PresetDir); err == nil {
			sources = append(sources, os.DirFS(cfg.PresetDir))
		} else {
			logger.Warn("preset directory not found", "dir", cfg.PresetDir)
		}
	}
	store, errs := preset.LoadAll(ctx, logger, sources...)
	if len(errs) > 0 {
		logger.Warn("some presets were skipped", "count", len(errs))
	}

	index := texture.BuildIndex(cfg.TextureDir)
	logger.Debug("textures indexed", "count", index.Len())

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		textures: texture.NewCache(index),
		closeLog: closeLog,
	}, nil
}

func (a *app) loadModel(path string) (*scene.Model, error) {
	return model.Load(path, model.Options{
		TargetSize: a.cfg.TargetSize,
		Textures:   a.textures,
		Logger:     a.logger,
	})
}

// viewport builds the runtime and framing controller with the configured
// grid preset selected.
func (a *app) viewport() (*scene.Runtime, *framing.Controller) {
	rt := scene.NewRuntime(a.cfg.Camera(), a.cfg.FPS)
	if g, ok := a.store.Grid(a.cfg.GridPreset); ok {
		rt.SetGrid(&g)
	}
	ctl := framing.New(a.store, rt,
		framing.WithDuration(time.Duration(a.cfg.TransitionMS)*time.Millisecond),
		framing.WithLogger(a.logger),
	)
	return rt, ctl
}
