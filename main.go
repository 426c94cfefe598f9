package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/jdginn/go-mirror-box/interact"
	gomirrors "github.com/jdginn/go-mirror-box/mirrors"
	"github.com/jdginn/go-mirror-box/mirrors/config"
	"github.com/jdginn/go-mirror-box/mirrors/experiment"
	"github.com/jdginn/go-mirror-box/mirrors/trail"
)

type Globals struct {
	Config string `name:"config" short:"c" type:"existingfile" help:"YAML experiment config"`
	OutDir string `name:"out-dir" default:"experiments" help:"directory experiment folders are created in"`
	Debug  bool   `name:"debug" help:"human-readable debug logging"`
}

var CLI struct {
	Globals

	Trace     TraceCmd     `cmd:"" help:"Trace one launch angle and print its segments"`
	Render    RenderCmd    `cmd:"" help:"Render a set of launch angles as a fading trail"`
	Sweep     SweepCmd     `cmd:"" help:"Trace a range of angles concurrently and plot path lengths"`
	ExportSTL ExportSTLCmd `cmd:"" name:"export-stl" help:"Extrude the scene and write it as STL"`
	Interact  InteractCmd  `cmd:"" help:"Step through launch angles in the terminal"`
}

func (g *Globals) loadConfig() (*config.ExperimentConfig, error) {
	if g.Config == "" {
		cfg := config.Default()
		if errs := cfg.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("default config is invalid: %s", config.FormatValidationErrors(errs))
		}
		return cfg, nil
	}
	return config.LoadFromFile(g.Config, config.LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
	})
}

// setup loads the config, builds the scene and creates a fresh experiment directory
func (g *Globals) setup(logger *zap.Logger) (*config.ExperimentConfig, *gomirrors.Scene, *experiment.Run, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	scene, err := cfg.BuildScene()
	if err != nil {
		return nil, nil, nil, err
	}
	dir, err := experiment.NewRun(g.OutDir)
	if err != nil {
		return nil, nil, nil, err
	}
	if g.Config != "" {
		if err := dir.Keep(g.Config); err != nil {
			return nil, nil, nil, err
		}
	}
	if err := config.SaveToFile(cfg, dir.File("resolved.yaml")); err != nil {
		return nil, nil, nil, err
	}
	logger.Info("experiment created",
		zap.String("id", dir.ID),
		zap.String("path", dir.Dir),
		zap.Int("mirrors", len(scene.Mirrors())),
		zap.Int("walls", len(scene.Walls())))
	return cfg, scene, dir, nil
}

type TraceCmd struct {
	Angle      float64 `arg:"" help:"launch angle in degrees"`
	MaxBounces int     `name:"max-bounces" help:"bounce cap (defaults to simulation.max_bounces)"`
}

func (c *TraceCmd) Run(g *Globals, logger *zap.Logger) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	scene, err := cfg.BuildScene()
	if err != nil {
		return err
	}
	path, err := scene.TraceDegrees(c.Angle, c.MaxBounces)
	if err != nil {
		return err
	}
	for i, s := range path {
		fmt.Printf("%3d  (%9.3f, %9.3f) -> (%9.3f, %9.3f)\n", i+1, s.From.X, s.From.Y, s.To.X, s.To.Y)
	}
	logger.Info("traced",
		zap.Float64("angle_deg", c.Angle),
		zap.Int("bounces", len(path)),
		zap.Float64("length", path.Length()),
		zap.String("digest", fmt.Sprintf("%016x", path.Digest())))
	return nil
}

type RenderCmd struct {
	Angles     []float64 `arg:"" help:"launch angles in degrees, oldest first"`
	MaxBounces int       `name:"max-bounces" help:"bounce cap (defaults to simulation.max_bounces)"`
}

func (c *RenderCmd) Run(g *Globals, logger *zap.Logger) error {
	cfg, scene, dir, err := g.setup(logger)
	if err != nil {
		return err
	}

	// Space the angles out in time so older ones fade
	maxAge := time.Duration(cfg.Render.TrailMaxAgeMS * float64(time.Millisecond))
	history := trail.New(cfg.Render.TrailLength, maxAge)
	now := time.Now()
	for i, angle := range c.Angles {
		age := time.Duration(len(c.Angles)-1-i) * maxAge / time.Duration(max(len(c.Angles), 1))
		history.Push(angle, now.Add(-age))
	}

	paths, err := trail.Paths(scene, history, now, c.MaxBounces)
	if err != nil {
		return err
	}
	view := &gomirrors.View{Scene: scene, XSize: cfg.Render.Width, YSize: cfg.Render.Height, Margin: cfg.Render.Margin}
	imgPath := dir.File("render.png")
	if err := gomirrors.SaveImage(imgPath, view.Render(paths)); err != nil {
		return err
	}
	logger.Info("rendered", zap.String("file", imgPath), zap.Int("paths", len(paths)))

	if !cfg.Flags.SkipJSON {
		traces := make([]gomirrors.TracedPath, 0, len(c.Angles))
		for _, f := range history.Snapshot(now) {
			path, err := scene.TraceDegrees(f.AngleDeg, c.MaxBounces)
			if err != nil {
				return err
			}
			traces = append(traces, gomirrors.TracedPath{AngleDeg: f.AngleDeg, Path: path, Opacity: f.Opacity})
		}
		jsonPath := dir.File("paths.json")
		if err := gomirrors.SaveScenePathsToJSON(jsonPath, scene, traces); err != nil {
			return err
		}
		logger.Info("exported paths", zap.String("file", jsonPath))
	}
	return nil
}

type SweepCmd struct {
	MaxBounces int `name:"max-bounces" help:"bounce cap (defaults to simulation.max_bounces)"`
}

func (c *SweepCmd) Run(g *Globals, logger *zap.Logger) error {
	cfg, scene, dir, err := g.setup(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := gomirrors.Sweep(ctx, scene, gomirrors.SweepParams{
		StartDeg:   cfg.Sweep.StartDeg,
		StopDeg:    cfg.Sweep.StopDeg,
		StepDeg:    cfg.Sweep.StepDeg,
		MaxBounces: c.MaxBounces,
		Workers:    cfg.Sweep.Workers,
	}, logger)
	if err != nil {
		return err
	}
	escaped := 0
	for _, r := range results {
		if r.Escaped {
			escaped++
		}
	}
	logger.Info("sweep complete",
		zap.Int("angles", len(results)),
		zap.Int("escaped", escaped),
		zap.Duration("elapsed", time.Since(start)))

	if !cfg.Flags.SkipPlot {
		plotPath := dir.File("sweep.png")
		if err := gomirrors.PlotSweep(results, cfg.Render.PlotWidth, cfg.Render.PlotHeight, plotPath); err != nil {
			return err
		}
		logger.Info("plotted sweep", zap.String("file", plotPath))
	}

	if !cfg.Flags.SkipJSON {
		traces := make([]gomirrors.TracedPath, len(results))
		for i, r := range results {
			path, err := scene.TraceDegrees(r.AngleDeg, c.MaxBounces)
			if err != nil {
				return err
			}
			traces[i] = gomirrors.TracedPath{AngleDeg: r.AngleDeg, Path: path}
		}
		jsonPath := dir.File("sweep.json")
		if err := gomirrors.SaveScenePathsToJSON(jsonPath, scene, traces); err != nil {
			return err
		}
		logger.Info("exported paths", zap.String("file", jsonPath))
	}
	return nil
}

type ExportSTLCmd struct {
	Output string `name:"output" short:"o" help:"STL file to write, or 3MF when it ends in .3mf (defaults to scene.stl in the experiment directory)"`
}

func (c *ExportSTLCmd) Run(g *Globals, logger *zap.Logger) error {
	cfg, scene, dir, err := g.setup(logger)
	if err != nil {
		return err
	}
	out := c.Output
	if out == "" {
		out = dir.File("scene.stl")
	}
	save := scene.SaveSTL
	if strings.EqualFold(filepath.Ext(out), ".3mf") {
		save = scene.Save3MF
	}
	if err := save(out, cfg.Render.STLHeight, cfg.Render.STLSides); err != nil {
		return err
	}
	logger.Info("exported mesh", zap.String("file", out))
	return nil
}

type InteractCmd struct {
	Step float64 `name:"step" default:"1" help:"degrees per key press"`
}

func (c *InteractCmd) Run(g *Globals, logger *zap.Logger) error {
	cfg, scene, dir, err := g.setup(logger)
	if err != nil {
		return err
	}
	maxAge := time.Duration(cfg.Render.TrailMaxAgeMS * float64(time.Millisecond))
	return interact.Interact(scene, interact.Options{
		StartDeg:    cfg.Simulation.AngleDeg,
		StepDeg:     c.Step,
		MaxBounces:  cfg.Simulation.MaxBounces,
		PreviewPath: dir.File("preview.png"),
		View:        &gomirrors.View{Scene: scene, XSize: cfg.Render.Width, YSize: cfg.Render.Height, Margin: cfg.Render.Margin},
		History:     trail.New(cfg.Render.TrailLength, maxAge),
	})
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.DisableCaller = true
	return config.Build()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("mirrorbox"),
		kong.Description("Trace a light ray bouncing between circular mirrors in a walled box."),
		kong.UsageOnError(),
	)
	logger, err := newLogger(CLI.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := ctx.Run(&CLI.Globals, logger); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}
