package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/config"
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/output"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
	"github.com/golang/glog"
	"golang.org/x/xerrors"
)

var (
	configPath = flag.String("config", "", "YAML render config; flags override its values")
	sceneName  = flag.String("scene", scene.DefaultSceneName, "Scene to render (see -help)")
	width      = flag.Int("width", 0, "Image width in pixels")
	height     = flag.Int("height", 0, "Image height in pixels")
	samples    = flag.Int("samples", 0, "Samples per pixel")
	depth      = flag.Int("depth", 0, "Maximum ray bounce depth")
	workers    = flag.Int("workers", 0, "Parallel workers (0 = CPU count)")
	passes     = flag.Int("passes", 0, "Progressive passes (1 = single pass)")
	seed       = flag.Int64("seed", 0, "Random seed for scene layout and sampling")
	outPath    = flag.String("o", "", "Output file (.ppm or .png); default output/<scene>/render_<timestamp>.ppm")
	reference  = flag.Bool("reference", false, "Use the single-threaded reference renderer")
	help       = flag.Bool("help", false, "Show help information")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if *help {
		printHelp()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx, cfg, *reference, core.NewDefaultLogger())
	if err != nil {
		glog.Exitf("Render failed: %v", err)
	}
	glog.Infof("Render saved as %s", path)
}

func printHelp() {
	fmt.Println("Sphere Path Tracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-15s %s\n", info.ID, info.Description)
	}
}

// loadConfig reads -config if given and applies every flag set on the command line
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg = applyFlags(cfg, set)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// applyFlags copies the explicitly set flags over cfg
func applyFlags(cfg config.Config, set map[string]bool) config.Config {
	if set["scene"] {
		cfg.Scene = *sceneName
	}
	if set["width"] {
		cfg.Width = *width
	}
	if set["height"] {
		cfg.Height = *height
	}
	if set["samples"] {
		cfg.Samples = *samples
	}
	if set["depth"] {
		cfg.MaxDepth = *depth
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["passes"] {
		cfg.Passes = *passes
	}
	if set["seed"] {
		cfg.Seed = *seed
	}
	if set["o"] {
		cfg.Output = *outPath
	}
	return cfg
}

// createScene builds the configured scene at the configured resolution and sampling
func createScene(cfg config.Config) (*scene.Scene, error) {
	overrides, err := cfg.CameraOverrides()
	if err != nil {
		return nil, err
	}
	sc, err := scene.NewScene(cfg.Scene, cfg.Seed, overrides...)
	if err != nil {
		return nil, err
	}

	// An explicit camera aspect wins over the image shape
	if cfg.Camera == nil || cfg.Camera.Aspect == 0 {
		if err := sc.SetResolution(cfg.Width, cfg.Height); err != nil {
			return nil, err
		}
	}
	sc.SamplingConfig = cfg.SamplingConfig()
	return sc, nil
}

// run renders according to cfg and writes the image, returning its path
func run(ctx context.Context, cfg config.Config, useReference bool, logger core.Logger) (string, error) {
	sc, err := createScene(cfg)
	if err != nil {
		return "", xerrors.Errorf("while creating scene: %w", err)
	}

	logger.Printf("Rendering %s: %dx%d, %d samples/pixel, max depth %d, %d shapes\n",
		cfg.Scene, cfg.Width, cfg.Height, cfg.Samples, cfg.MaxDepth, sc.GetPrimitiveCount())

	img, stats, err := render(ctx, cfg, sc, useReference, logger)
	if err != nil {
		return "", err
	}

	logger.Printf("Render completed in %v\n", stats.Duration)
	logger.Printf("Samples per pixel: %.1f (range %d - %d)\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)

	path := cfg.Output
	if path == "" {
		path = output.DefaultPath(cfg.Scene, "ppm", time.Now())
	}
	if err := output.Write(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func render(ctx context.Context, cfg config.Config, sc *scene.Scene, useReference bool, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	integ := integrator.NewPathTracingIntegrator(cfg.MaxDepth)

	if useReference {
		rt := renderer.NewRaytracer(sc, integ, core.NewSeededSampler(cfg.Seed))
		img, stats := rt.RenderPass()
		return img, stats, nil
	}

	if cfg.Passes == 1 {
		return renderer.RenderParallel(ctx, sc, integ, cfg.Workers, cfg.Seed, logger)
	}

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxSamplesPerPixel = cfg.Samples
	progressiveConfig.MaxPasses = cfg.Passes
	progressiveConfig.NumWorkers = cfg.Workers
	progressiveConfig.Seed = cfg.Seed

	pr, err := renderer.NewProgressiveRaytracer(sc, integ, progressiveConfig, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	start := time.Now()
	passChan, errChan := pr.RenderProgressive(ctx)

	var last renderer.PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if last.Image == nil {
		return nil, renderer.RenderStats{}, xerrors.New("progressive render produced no passes")
	}

	last.Stats.Duration = time.Since(start)
	return last.Image, last.Stats, nil
}
