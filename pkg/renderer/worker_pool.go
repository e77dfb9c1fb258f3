package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// WorkerPool bounds the number of tiles rendered at once
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run executes render for every task with at most numWorkers in flight.
// Once ctx is done no further tasks start and Run returns ctx.Err().
// Results are indexed like tasks.
func (wp *WorkerPool) Run(ctx context.Context, tasks []TileTask, render func(TileTask) RenderStats) ([]RenderStats, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	results := make([]RenderStats, len(tasks))
	for i, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		i, task := i, task // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each tile has non-overlapping bounds, so writes to the shared stats are safe
			results[i] = render(task)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
