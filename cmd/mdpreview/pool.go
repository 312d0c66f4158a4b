package main

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdpreview"
)

// defaultMaxWorkers caps the automatic pool size.
const defaultMaxWorkers = 8

// Converter renders Markdown and assembles pages.
type Converter interface {
	Convert(ctx context.Context, input mdpreview.Input) (*mdpreview.Result, error)
	BuildPage(fragment, title string) (string, error)
}

var _ Converter = (*mdpreview.Renderer)(nil)

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Stats      mdpreview.Stats
	Err        error
	Duration   time.Duration
}

// renderJob renders one file. Swapped in tests.
type renderJob func(ctx context.Context, f FileToRender) RenderResult

// renderBatch runs job over files with at most workers in flight.
// Results keep the order of files. Files not started before ctx is
// canceled report ctx.Err().
func renderBatch(ctx context.Context, workers int, files []FileToRender, job renderJob) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]RenderResult, len(files))
	var g errgroup.Group
	g.SetLimit(min(max(workers, 1), len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = RenderResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = job(ctx, f)
			return nil
		})
	}

	// Jobs report failures in their results, never through the group.
	_ = g.Wait()
	return results
}

// resolvePoolSize returns the explicit worker count, or one worker per
// usable CPU (GOMAXPROCS, container-aware via automaxprocs) capped at 8.
func resolvePoolSize(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return min(max(runtime.GOMAXPROCS(0), 1), defaultMaxWorkers)
}
