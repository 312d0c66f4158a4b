package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/muesli/reflow/truncate"

	"github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/hints"
	"github.com/alnah/go-mdpreview/internal/pipeline"
	"github.com/alnah/go-mdpreview/internal/store"
	"github.com/alnah/go-mdpreview/internal/textenc"
)

// fileState identifies one version of the watched file.
type fileState struct {
	modTime time.Time
	size    int64
}

// statFile returns the current fileState of path.
func statFile(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}, err
	}
	return fileState{modTime: info.ModTime(), size: info.Size()}, nil
}

// changed reports whether s and other describe different versions.
func (s fileState) changed(other fileState) bool {
	return !s.modTime.Equal(other.modTime) || s.size != other.size
}

// statusLine prints one-line progress. On a terminal the line is
// rewritten in place and truncated to the terminal width.
type statusLine struct {
	w     io.Writer
	tty   bool
	width int
	quiet bool
	now   func() time.Time
}

func (s *statusLine) show(format string, args ...any) {
	if s.quiet {
		return
	}
	line := s.now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	if !s.tty {
		fmt.Fprintln(s.w, line)
		return
	}
	width := max(s.width-1, 10)
	fmt.Fprintf(s.w, "\r\x1b[2K%s", truncate.StringWithTail(line, uint(width), "…")) // #nosec G115 -- width is positive
}

func (s *statusLine) done() {
	if s.tty && !s.quiet {
		fmt.Fprintln(s.w)
	}
}

// watcher re-renders one Markdown file into one HTML page.
type watcher struct {
	path     string
	output   string
	encoding string
	title    string
	fragment bool

	renderer *mdpreview.Renderer
	session  *mdpreview.Session
	env      *Environment
	status   *statusLine
	last     fileState
}

// runWatch orchestrates the watch command.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseWatchFlags(args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: watch takes exactly one file%s", ErrUsage, hints.ForWatchTarget())
	}
	path := positional[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory%s", ErrUsage, path, hints.ForWatchTarget())
	}
	if err := validateMarkdownExtension(path); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeWatchFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, _, err := textenc.Lookup(cfg.Input.Encoding); err != nil {
		return encodingError(err)
	}

	output := cfg.Output.Dir
	if output == "" || output == stdioPath {
		if output, err = fileutil.ReplaceExtension(path, htmlExtension); err != nil {
			return err
		}
	}

	stateDir, err := cfg.StateDir()
	if err != nil {
		return fmt.Errorf("%w: %v%s", store.ErrStateDir, err, hints.ForStateDirectory())
	}
	st, err := mdpreview.NewFileStore(stateDir)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForStateDirectory())
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return err
	}

	session := mdpreview.NewSession(renderer, st, mdpreview.WithSessionLogger(logger))
	if err := session.Load(ctx); err != nil {
		return err
	}

	w := &watcher{
		path:     path,
		output:   output,
		encoding: cfg.Input.Encoding,
		title:    cfg.Output.Title,
		fragment: cfg.Output.Fragment,
		renderer: renderer,
		session:  session,
		env:      env,
		status: &statusLine{
			w:     env.Stdout,
			tty:   env.IsTerminal(env.Stdout),
			width: terminalWidth(env.Stdout, defaultHelpWidth),
			quiet: flags.common.quiet,
			now:   env.Now,
		},
	}

	if err := w.refresh(ctx, true); err != nil {
		return err
	}
	logger.Debug("watching", "file", path, "output", output, "interval", cfg.WatchInterval(), "state", stateDir)

	return w.loop(ctx, cfg.WatchInterval())
}

// mergeWatchFlags merges CLI flags into config. CLI values override config values.
func mergeWatchFlags(f *watchFlags, cfg *config.Config) {
	mergeRenderOptionFlags(&f.render, cfg)
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	if f.encoding != "" {
		cfg.Input.Encoding = f.encoding
	}
	if f.style != "" {
		cfg.Output.Style = f.style
	}
	if f.interval != 0 {
		cfg.Watch.Interval = f.interval
	}
	if f.stateDir != "" {
		cfg.State.Dir = f.stateDir
	}
	if f.onFailure != "" {
		cfg.Render.OnFailure = f.onFailure
	}
}

// loop polls the file until ctx is canceled. Read and write errors are
// reported and the last good page stays in place.
func (w *watcher) loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.status.done()
			return nil
		case <-ticker.C:
			if err := w.refresh(ctx, false); err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				w.status.show("error: %v", err)
			}
		}
	}
}

// refresh re-renders when the file changed since the last refresh, or
// unconditionally when force is set.
func (w *watcher) refresh(ctx context.Context, force bool) error {
	state, err := statFile(w.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	if !force && !state.changed(w.last) {
		return nil
	}

	content, err := readInput(w.path, w.encoding, w.env)
	if err != nil {
		return err
	}
	w.last = state

	if force {
		err = w.session.SetContent(ctx, content)
	} else if content != w.session.Content() {
		err = w.session.Edit(ctx, content)
		w.session.Flush()
	}
	if err != nil {
		return err
	}

	if err := w.write(); err != nil {
		return err
	}

	stats := w.session.RenderStats()
	words := w.session.Stats()
	w.status.show("rendered %s -> %s (%d words, %d math, %d diagrams, %v)",
		w.path, w.output, words.Words, stats.Math, stats.Diagrams, stats.Duration.Round(time.Millisecond))
	return nil
}

// write saves the current preview as a page (or fragment) at w.output.
func (w *watcher) write() error {
	html, err := pipeline.RebaseRelativePaths(w.session.Preview(), filepath.Dir(w.path), filepath.Dir(w.output))
	if err != nil {
		return fmt.Errorf("rewriting relative paths: %w", err)
	}
	if !w.fragment {
		if html, err = w.renderer.BuildPage(html, w.title); err != nil {
			return err
		}
	}
	return writeOutput(w.output, html)
}
