package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"
)

var tracer = otel.Tracer("github.com/df07/go-sphere-tracer/pkg/renderer")

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Tile i draws from a generator seeded with Seed+i
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               42,
	}
}

// Validate checks the progressive configuration
func (c ProgressiveConfig) Validate() error {
	if c.TileSize <= 0 {
		return xerrors.Errorf("tile size %d must be positive", c.TileSize)
	}
	if c.MaxSamplesPerPixel <= 0 {
		return xerrors.Errorf("max samples per pixel %d must be positive", c.MaxSamplesPerPixel)
	}
	if c.InitialSamples <= 0 || c.InitialSamples > c.MaxSamplesPerPixel {
		return xerrors.Errorf("initial samples %d must be in [1, %d]", c.InitialSamples, c.MaxSamplesPerPixel)
	}
	if c.MaxPasses <= 0 {
		return xerrors.Errorf("max passes %d must be positive", c.MaxPasses)
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes.
// Samples accumulate across passes so each pass refines the previous image.
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	currentPass   int            // Progressive state
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	tileRenderer  *TileRenderer
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer creates a new progressive raytracer.
// A nil logger logs through glog.
func NewProgressiveRaytracer(sc *scene.Scene, integ integrator.Integrator, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := config.Validate(); err != nil {
		return nil, xerrors.Errorf("while creating progressive raytracer: %w", err)
	}
	if err := sc.SamplingConfig.Validate(); err != nil {
		return nil, xerrors.Errorf("while creating progressive raytracer: %w", err)
	}
	if logger == nil {
		logger = core.NewDefaultLogger()
	}

	width := sc.SamplingConfig.Width
	height := sc.SamplingConfig.Height

	return &ProgressiveRaytracer{
		scene:        sc,
		width:        width,
		height:       height,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize, config.Seed),
		pixelStats:   newPixelStatsGrid(width, height),
		tileRenderer: NewTileRenderer(sc, integ),
		workerPool:   NewWorkerPool(config.NumWorkers),
		logger:       logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// For multiple passes: first pass is quick preview
	if passNumber <= 1 {
		return pr.config.InitialSamples
	}

	// For the final pass, use all remaining samples
	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := max(1, remainingSamples/remainingPasses)

	return min(pr.config.InitialSamples+(passNumber-1)*samplesPerPass, pr.config.MaxSamplesPerPixel)
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int) (*image.RGBA, RenderStats, error) {
	targetSamples := pr.getSamplesForPass(passNumber)

	ctx, span := tracer.Start(ctx, "ProgressiveRaytracer.RenderPass", trace.WithAttributes(
		attribute.Int("pass", passNumber),
		attribute.Int("target_samples", targetSamples),
		attribute.Int("tiles", len(pr.tiles)),
	))
	defer span.End()

	start := time.Now()
	pr.currentPass = passNumber

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	tasks := make([]TileTask, len(pr.tiles))
	for i, tile := range pr.tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			PixelStats:    pr.pixelStats,
		}
	}

	_, err := pr.workerPool.Run(ctx, tasks, func(task TileTask) RenderStats {
		stats := pr.tileRenderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Sampler, task.TargetSamples)
		task.Tile.PassesCompleted++
		return stats
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pass interrupted")
		return nil, RenderStats{}, xerrors.Errorf("while rendering pass %d: %w", passNumber, err)
	}

	// Assemble image and calculate final stats from actual pixel data
	img, stats := pr.assembleCurrentImage(targetSamples)
	stats.Duration = time.Since(start)

	span.SetAttributes(attribute.Int("total_samples", stats.TotalSamples))
	return img, stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// RenderProgressive renders all passes in a goroutine and streams each
// refined image. Both channels are closed when rendering stops; at most one
// error is sent, including ctx.Err() on cancellation.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(passChan)
		defer close(errChan)

		ctx, span := tracer.Start(ctx, "ProgressiveRaytracer.RenderProgressive", trace.WithAttributes(
			attribute.Int("width", pr.width),
			attribute.Int("height", pr.height),
			attribute.Int("max_passes", pr.config.MaxPasses),
		))
		defer span.End()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			// Check if client disconnected before starting this pass
			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			img, stats, err := pr.RenderPass(ctx, pass)
			if err != nil {
				span.RecordError(err)
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (actual: %.0f samples/pixel)\n",
				pass, stats.Duration, stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses || stats.MinSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, errChan
}

// RenderParallel renders sc in a single parallel pass at its configured
// samples per pixel. Tiles are seeded from seed+tileID, so the image does
// not depend on numWorkers.
func RenderParallel(ctx context.Context, sc *scene.Scene, integ integrator.Integrator, numWorkers int, seed int64, logger core.Logger) (*image.RGBA, RenderStats, error) {
	config := DefaultProgressiveConfig()
	config.MaxPasses = 1
	config.MaxSamplesPerPixel = sc.SamplingConfig.SamplesPerPixel
	config.InitialSamples = sc.SamplingConfig.SamplesPerPixel
	config.NumWorkers = numWorkers
	config.Seed = seed

	pr, err := NewProgressiveRaytracer(sc, integ, config, logger)
	if err != nil {
		return nil, RenderStats{}, err
	}
	return pr.RenderPass(ctx, 1)
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := newRenderStats(pr.width*pr.height, targetSamples)

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, ToRGB8(pixel.GetColor()))
			stats.update(pixel.SampleCount)
		}
	}

	stats.finalize()
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-private sampler, persists across passes
}

// NewTile creates a new tile whose sampler is seeded with seed
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image in row-major order
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed+int64(tileID)))
			tileID++
		}
	}

	return tiles
}
