package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderOptionFlags holds flags that tune the rendering pipeline.
type renderOptionFlags struct {
	highlightStyle string
	strictMath     bool
	noMarks        bool
	hardWraps      bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	render    renderOptionFlags
	output    string
	workers   int
	encoding  string
	fragment  bool
	style     string
	title     string
	assetPath string
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	common    commonFlags
	render    renderOptionFlags
	output    string
	encoding  string
	style     string
	interval  time.Duration
	stateDir  string
	onFailure string
}

// countFlags holds all flags for the count command.
type countFlags struct {
	common   commonFlags
	encoding string
}

// replaceFlags holds all flags for the replace command.
type replaceFlags struct {
	common   commonFlags
	find     string
	with     string
	inPlace  bool
	output   string
	encoding string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderOptionFlags adds pipeline tuning flags to a FlagSet.
func addRenderOptionFlags(fs *flag.FlagSet, f *renderOptionFlags) {
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
	fs.BoolVar(&f.strictMath, "strict-math", false, "reject unknown TeX commands")
	fs.BoolVar(&f.noMarks, "no-marks", false, "disable ==highlight== syntax")
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render single newlines as line breaks")
}

// addEncodingFlag adds the input encoding flag to a FlagSet.
func addEncodingFlag(fs *flag.FlagSet, target *string) {
	fs.StringVarP(target, "encoding", "e", "", "input encoding label (default utf-8)")
}

// newFlagSet creates a FlagSet that reports errors instead of exiting.
// Usage output is handled by the help command.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	return fs
}

// parseFlagSet parses args, passing flag.ErrHelp through unwrapped.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// parseRenderFlags parses flags for the render command.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := newFlagSet("render")
	f := &renderFlags{}

	addCommonFlags(fs, &f.common)
	addRenderOptionFlags(fs, &f.render)
	addEncodingFlag(fs, &f.encoding)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.fragment, "fragment", false, "write the bare HTML fragment")
	fs.StringVar(&f.style, "style", "", "page stylesheet name")
	fs.StringVar(&f.title, "title", "", "page title (default: first heading)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles and templates")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses flags for the watch command.
func parseWatchFlags(args []string) (*watchFlags, []string, error) {
	fs := newFlagSet("watch")
	f := &watchFlags{}

	addCommonFlags(fs, &f.common)
	addRenderOptionFlags(fs, &f.render)
	addEncodingFlag(fs, &f.encoding)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file")
	fs.StringVar(&f.style, "style", "", "page stylesheet name")
	fs.DurationVar(&f.interval, "interval", 0, "poll interval (default 500ms)")
	fs.StringVar(&f.stateDir, "state-dir", "", "session state directory")
	fs.StringVar(&f.onFailure, "on-failure", "", "preview when rendering fails: empty, raw")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseCountFlags parses flags for the count command.
func parseCountFlags(args []string) (*countFlags, []string, error) {
	fs := newFlagSet("count")
	f := &countFlags{}

	addCommonFlags(fs, &f.common)
	addEncodingFlag(fs, &f.encoding)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseReplaceFlags parses flags for the replace command.
func parseReplaceFlags(args []string) (*replaceFlags, []string, error) {
	fs := newFlagSet("replace")
	f := &replaceFlags{}

	addCommonFlags(fs, &f.common)
	addEncodingFlag(fs, &f.encoding)
	fs.StringVar(&f.find, "find", "", "literal text to search for")
	fs.StringVar(&f.with, "with", "", "replacement text")
	fs.BoolVarP(&f.inPlace, "in-place", "i", false, "rewrite the input file")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	if f.find == "" {
		return nil, nil, fmt.Errorf("%w: --find is required", ErrUsage)
	}
	if f.inPlace && f.output != "" {
		return nil, nil, fmt.Errorf("%w: --in-place and --output are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses flags for the config command.
func parseConfigFlags(args []string) (*commonFlags, error) {
	fs := newFlagSet("config")
	f := &commonFlags{}
	addCommonFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// scanVerbose reports whether -v or --verbose appears before any "--".
// Used before command dispatch, when no FlagSet exists yet.
func scanVerbose(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}
