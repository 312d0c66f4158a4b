package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/hints"
	"github.com/alnah/go-mdpreview/internal/pipeline"
	"github.com/alnah/go-mdpreview/internal/textenc"
)

// Sentinel errors for render operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdioPath selects stdin as input or stdout as output.
const stdioPath = "-"

// renderParams groups parameters shared across batch/file rendering.
type renderParams struct {
	converter Converter
	encoding  string
	fragment  bool
	title     string
	env       *Environment
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		return err
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	if len(positional) == 0 {
		return fmt.Errorf("%w: pass a Markdown file, a directory or '-' for stdin", ErrNoInput)
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: render takes one input, got %d", ErrUsage, len(positional))
	}
	inputPath := positional[0]

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, _, err := textenc.Lookup(cfg.Input.Encoding); err != nil {
		return encodingError(err)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	params := &renderParams{
		converter: renderer,
		encoding:  cfg.Input.Encoding,
		fragment:  cfg.Output.Fragment,
		title:     cfg.Output.Title,
		env:       env,
	}

	if inputPath == stdioPath {
		return renderStream(ctx, params, cfg.Output.Dir, env)
	}

	files, err := discoverFiles(inputPath, outputTarget(cfg.Output.Dir))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	if cfg.Output.Dir == stdioPath {
		if len(files) > 1 {
			return fmt.Errorf("%w: stdout output needs a single input file", ErrUsage)
		}
		content, err := readInput(files[0].InputPath, params.encoding, env)
		if err != nil {
			return err
		}
		return writeRendered(ctx, params, content, filepath.Dir(files[0].InputPath), "", env.Stdout)
	}

	workers := flags.workers
	if workers == 0 {
		workers = loadEnvConfig().Workers
	}
	poolSize := resolvePoolSize(workers)
	logger.Debug("rendering", "files", len(files), "workers", poolSize)

	results := renderBatch(ctx, poolSize, files, func(ctx context.Context, f FileToRender) RenderResult {
		return renderFile(ctx, params, f)
	})

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d render(s) failed: %w", failedCount, firstError(results))
	}
	return nil
}

// mergeRenderFlags merges CLI flags into config. CLI values override config values.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	mergeRenderOptionFlags(&f.render, cfg)
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.encoding != "" {
		cfg.Input.Encoding = f.encoding
	}
	if f.fragment {
		cfg.Output.Fragment = true
	}
	if f.style != "" {
		cfg.Output.Style = f.style
	}
	if f.title != "" {
		cfg.Output.Title = f.title
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// outputTarget maps the stdout marker to "next to the source" for discovery.
func outputTarget(output string) string {
	if output == stdioPath {
		return ""
	}
	return output
}

// renderStream renders stdin to stdout, or to output when it names a file.
func renderStream(ctx context.Context, params *renderParams, output string, env *Environment) error {
	content, err := readInput(stdioPath, params.encoding, env)
	if err != nil {
		return err
	}

	if output == "" || output == stdioPath {
		return writeRendered(ctx, params, content, "", "", env.Stdout)
	}

	html, _, err := renderHTML(ctx, params, content, "", "")
	if err != nil {
		return err
	}
	return writeOutput(output, html)
}

// writeRendered renders content and writes it to w.
func writeRendered(ctx context.Context, params *renderParams, content, sourceDir, outputDir string, w io.Writer) error {
	html, _, err := renderHTML(ctx, params, content, sourceDir, outputDir)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// renderHTML converts content to a fragment, rebases relative links from
// sourceDir to outputDir, and wraps the result in a page unless the
// fragment alone was asked for.
func renderHTML(ctx context.Context, params *renderParams, content, sourceDir, outputDir string) (string, mdpreview.Stats, error) {
	result, err := params.converter.Convert(ctx, mdpreview.Input{Markdown: content})
	if err != nil {
		if errors.Is(err, mdpreview.ErrInputTooLarge) {
			return "", mdpreview.Stats{}, fmt.Errorf("%w%s", err, hints.ForInputTooLarge())
		}
		return "", mdpreview.Stats{}, err
	}

	html, err := pipeline.RebaseRelativePaths(result.HTML, sourceDir, outputDir)
	if err != nil {
		return "", result.Stats, fmt.Errorf("rewriting relative paths: %w", err)
	}

	if params.fragment {
		return html, result.Stats, nil
	}

	page, err := params.converter.BuildPage(html, params.title)
	if err != nil {
		return "", result.Stats, err
	}
	return page, result.Stats, nil
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, params *renderParams, f FileToRender) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := readInput(f.InputPath, params.encoding, params.env)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	html, stats, err := renderHTML(ctx, params, content, filepath.Dir(f.InputPath), filepath.Dir(f.OutputPath))
	result.Stats = stats
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := writeOutput(f.OutputPath, html); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// writeOutput creates the parent directory and writes html atomically.
func writeOutput(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFileAtomic(path, []byte(html), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first non-nil result error.
func firstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResultsWithWriter outputs render results using the provided writers.
func printResultsWithWriter(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %d math, %d diagrams, %d code blocks)\n",
				r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond),
				r.Stats.Math, r.Stats.Diagrams, r.Stats.CodeBlocks)
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
