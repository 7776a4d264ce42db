package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chewxy/math32"
	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-morph/common"
	"github.com/Carmen-Shannon/oxy-morph/config"
	"github.com/Carmen-Shannon/oxy-morph/engine"
	"github.com/Carmen-Shannon/oxy-morph/engine/camera"
	"github.com/Carmen-Shannon/oxy-morph/engine/loader"
	"github.com/Carmen-Shannon/oxy-morph/engine/metrics"
	"github.com/Carmen-Shannon/oxy-morph/engine/morph"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointcloud"
	"github.com/Carmen-Shannon/oxy-morph/engine/pointsfx"
	"github.com/Carmen-Shannon/oxy-morph/engine/profiler"
	"github.com/Carmen-Shannon/oxy-morph/engine/renderer"
	"github.com/Carmen-Shannon/oxy-morph/engine/window"
)

// orbitSensitivity converts dragged pixels to radians.
const orbitSensitivity = 0.005

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the viewer window",
	Long: `view loads every configured model, samples it into a point cloud and opens a window.
Number keys select a model, the arrow keys and space step through them. Dragging orbits the
camera and scrolling zooms. The config file is reloaded when it changes; duration, curve and
colors apply immediately while geometry changes need a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")
		software, _ := cmd.Flags().GetBool("software")
		return runViewer(cmd.Context(), cfg, path, viewOptions{watch: watch, software: software}, logger)
	},
}

func init() {
	viewCmd.Flags().Bool("watch", true, "Reload duration, curve and colors when the config file changes")
	viewCmd.Flags().Bool("software", false, "Force a software (fallback) adapter")
	rootCmd.AddCommand(viewCmd)
}

type viewOptions struct {
	watch    bool
	software bool
}

// loadPointSets loads each configured mesh and samples every one into the same number of points.
//
// Parameters:
//   - cfg: the configuration
//   - logger: the logger
//
// Returns:
//   - []pointcloud.PointSet: one set per model, in config order
//   - error: the first load or sampling failure
func loadPointSets(cfg config.Config, logger *slog.Logger) ([]pointcloud.PointSet, error) {
	ld := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))
	sources := make([]pointcloud.Source, 0, len(cfg.Models))
	for i, m := range cfg.Models {
		mesh, err := ld.LoadMesh(m.Path, m.Node)
		if err != nil {
			return nil, fmt.Errorf("model %d (%s): %w", i, m.Path, err)
		}
		mesh.Name = m.Name
		sources = append(sources, pointcloud.Source{Mesh: mesh, Scale: m.Scale})
	}

	builder, err := pointcloud.NewBuilder(cfg.Points.Size, pointcloud.WithSeed(cfg.Points.Seed))
	if err != nil {
		return nil, err
	}
	return builder.BuildAll(sources)
}

// framingRadius returns a camera distance that keeps every point set in view.
func framingRadius(sets []pointcloud.PointSet) float32 {
	var extent float32
	for _, ps := range sets {
		lo, hi := ps.Bounds()
		for axis := range 3 {
			extent = max(extent, math32.Abs(lo[axis]), math32.Abs(hi[axis]))
		}
	}
	if extent == 0 {
		return 3
	}
	return extent * 2.5
}

// windowOptions maps the window section of the config onto window builder options.
// Zero sizes keep the window's defaults.
func windowOptions(wc config.WindowConfig) []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(wc.Title),
		window.WithSize(wc.Width, wc.Height),
		window.WithMinSize(wc.MinWidth, wc.MinHeight),
		window.WithMaxSize(wc.MaxWidth, wc.MaxHeight),
	}
}

// runViewer wires the viewer together and blocks until the window closes or ctx is cancelled.
func runViewer(ctx context.Context, cfg config.Config, path string, opts viewOptions, logger *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sets, err := loadPointSets(cfg, logger)
	if err != nil {
		return err
	}
	random, err := pointcloud.RandomAttribute(cfg.Points.Size, cfg.Points.Spread, cfg.Points.Seed)
	if err != nil {
		return err
	}
	colors, err := cfg.ParseColors()
	if err != nil {
		return err
	}
	points, err := pointsfx.NewUniformRenderer(
		pointsfx.WithPointSets(sets),
		pointsfx.WithRandomAttribute(random),
		pointsfx.WithColors(colors),
		pointsfx.WithPointSize(cfg.Points.PointSize),
		pointsfx.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(windowOptions(cfg.Window)...)
	if err != nil {
		return err
	}

	present := renderer.PresentModeUncapped
	if cfg.Window.VSyncEnabled() {
		present = renderer.PresentModeVSync
	}
	gpu, err := renderer.NewRenderer(win, points,
		renderer.WithPresentMode(present),
		renderer.WithForceSoftwareRenderer(opts.software),
		renderer.WithLogger(logger),
	)
	if err != nil {
		_ = win.Close()
		return err
	}

	var collector *metrics.Collector
	hooks := morph.Hooks{}
	if cfg.Metrics.Addr != "" {
		collector = metrics.NewCollector(metrics.WithLogger(logger), metrics.WithGoCollector())
		hooks = collector.Hooks()
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	cv, err := cfg.BuildCurve()
	if err != nil {
		gpu.Release()
		_ = win.Close()
		return err
	}
	ctrl, err := morph.NewController(len(sets),
		morph.WithDuration(cfg.Duration),
		morph.WithCurve(cv),
		morph.WithRenderer(points),
		morph.WithLogger(logger),
		morph.WithHooks(hooks),
		morph.WithHooks(morph.Hooks{
			OnCommit: func(model int, took float64) {
				win.SetTitle(fmt.Sprintf("%s | %s", cfg.Window.Title, sets[model].Name))
				logger.Info("model settled", "model", model, "name", sets[model].Name, "took", took)
			},
		}),
	)
	if err != nil {
		gpu.Release()
		_ = win.Close()
		return err
	}
	selector := morph.NewSelector(ctrl)
	if _, err := selector.Set(0); err != nil {
		gpu.Release()
		_ = win.Close()
		return err
	}

	radius := framingRadius(sets)
	cam := camera.NewCamera(
		camera.WithRadius(radius),
		camera.WithRadiusBounds(radius*0.2, radius*5),
		camera.WithAutoRotate(0.15),
	)

	prof := profiler.NewProfiler(
		profiler.WithLogger(logger),
		profiler.WithReporter(func(r profiler.Report) {
			if collector != nil {
				collector.ObserveProfile(r.FPS, r.HeapAlloc)
			}
		}),
	)
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithProfiler(prof),
		engine.WithLogger(logger),
	)

	eng.SetTickCallback(func(elapsed float64, dt float32) {
		ctrl.OnFrameTick(elapsed)
		cam.Update(dt)
		aspect := float32(1)
		if w, h := win.Width(), win.Height(); w > 0 && h > 0 {
			aspect = float32(w) / float32(h)
		}
		points.SetViewProjection(cam.ViewProjection(aspect))
	})
	eng.SetRenderCallback(func(float32) {
		if err := gpu.Render(); err != nil {
			logger.Debug("frame skipped", "error", err)
		}
	})
	eng.SetResizeCallback(gpu.Resize)
	eng.SetStopCallback(gpu.Release)

	win.SetKeyDownCallback(func(key int) {
		var err error
		switch key {
		case common.KeyRight, common.KeySpace:
			err = selector.Next()
		case common.KeyLeft:
			err = selector.Prev()
		default:
			if idx, ok := common.DigitIndex(key); ok {
				_, err = selector.Set(idx)
			}
		}
		if err != nil {
			logger.Debug("selection ignored", "key", key, "error", err)
		}
	})
	win.SetDragCallback(func(dx, dy float32) {
		cam.Orbit(-dx*orbitSensitivity, dy*orbitSensitivity)
	})
	win.SetScrollCallback(cam.Zoom)

	if opts.watch && path != "" {
		w, err := config.NewWatcher(path, config.WithLogger(logger))
		if err != nil {
			logger.Warn("config watch disabled", "path", path, "error", err)
		} else {
			defer w.Close()
			go retune(ctx, w, ctrl, points, logger)
		}
	}

	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	eng.Run()
	return nil
}

// retune applies reloaded duration, curve and color settings until ctx is cancelled or w closes.
func retune(ctx context.Context, w *config.Watcher, ctrl morph.Controller, points pointsfx.UniformRenderer, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("config reload rejected", "error", err)
		case cfg, ok := <-w.Configs:
			if !ok {
				return
			}
			applyLive(cfg, ctrl, points, logger)
		}
	}
}

// applyLive pushes the hot-reloadable parts of cfg into the running viewer.
//
// Parameters:
//   - cfg: a validated configuration
//   - ctrl: the transition controller
//   - points: the point renderer
//   - logger: the logger
func applyLive(cfg config.Config, ctrl morph.Controller, points pointsfx.UniformRenderer, logger *slog.Logger) {
	if err := ctrl.SetDuration(cfg.Duration); err != nil {
		logger.Warn("duration not applied", "error", err)
	}
	if cv, err := cfg.BuildCurve(); err == nil {
		ctrl.SetCurve(cv)
	} else {
		logger.Warn("curve not applied", "error", err)
	}
	if colors, err := cfg.ParseColors(); err == nil {
		points.SetColors(colors)
	} else {
		logger.Warn("colors not applied", "error", err)
	}
	if len(cfg.Models) != ctrl.ModelCount() {
		logger.Info("model list changed; restart to reload geometry", "configured", len(cfg.Models), "loaded", ctrl.ModelCount())
	}
	logger.Info("config reloaded", "duration", cfg.Duration, "preset", cfg.Curve.Preset, "point_size", cfg.Points.PointSize)
}
