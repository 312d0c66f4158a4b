package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name        string
		flagWorkers int
		want        int
	}{
		{
			name:        "flag takes priority",
			flagWorkers: 4,
			want:        4,
		},
		{
			name:        "flag=1 for sequential",
			flagWorkers: 1,
			want:        1,
		},
		{
			name:        "flag=0 uses auto calculation",
			flagWorkers: 0,
			want:        min(max(gomaxprocs, 1), 8),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolvePoolSize(tt.flagWorkers)
			if got != tt.want {
				t.Errorf("resolvePoolSize(%d) = %d, want %d", tt.flagWorkers, got, tt.want)
			}
		})
	}
}

func TestRenderBatch(t *testing.T) {
	t.Parallel()

	files := make([]FileToRender, 20)
	for i := range files {
		files[i] = FileToRender{InputPath: fmt.Sprintf("f%02d.md", i)}
	}

	t.Run("keeps order and bounds concurrency", func(t *testing.T) {
		t.Parallel()

		var running, peak atomic.Int32
		results := renderBatch(context.Background(), 3, files, func(_ context.Context, f FileToRender) RenderResult {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return RenderResult{InputPath: f.InputPath, OutputPath: f.InputPath + ".html"}
		})

		if len(results) != len(files) {
			t.Fatalf("len(results) = %d, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.InputPath != files[i].InputPath {
				t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
		}
		if p := peak.Load(); p > 3 {
			t.Errorf("peak concurrency = %d, want <= 3", p)
		}
	})

	t.Run("canceled context skips work", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		results := renderBatch(ctx, 2, files, func(context.Context, FileToRender) RenderResult {
			calls.Add(1)
			return RenderResult{}
		})

		if calls.Load() != 0 {
			t.Errorf("job called %d times, want 0", calls.Load())
		}
		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		if got := renderBatch(context.Background(), 4, nil, nil); got != nil {
			t.Errorf("renderBatch(nil) = %v, want nil", got)
		}
	})
}

func TestCountResults(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	results := []RenderResult{{}, {Err: boom}, {}}

	got := countResults(results)
	if got.Succeeded != 2 || got.Failed != 1 {
		t.Errorf("countResults() = %+v, want 2 succeeded, 1 failed", got)
	}
	if err := firstError(results); !errors.Is(err, boom) {
		t.Errorf("firstError() = %v, want boom", err)
	}
	if err := firstError(results[:1]); err != nil {
		t.Errorf("firstError() = %v, want nil", err)
	}
}
