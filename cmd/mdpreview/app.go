package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/config"
	"github.com/alnah/go-mdpreview/internal/hints"
)

// ErrUnknownCommand is returned for an unrecognized command name.
var ErrUnknownCommand = errors.New("unknown command")

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	err := runCommand(ctx, cmd, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		runHelp([]string{cmd}, env)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if errors.Is(err, ErrUnknownCommand) {
			printUsage(env.Stderr)
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runCommand runs a single command.
func runCommand(ctx context.Context, cmd string, args []string, env *Environment) error {
	switch cmd {
	case "render":
		return runRender(ctx, args, env)
	case "watch":
		return runWatch(ctx, args, env)
	case "count":
		return runCount(args, env)
	case "replace":
		return runReplace(args, env)
	case "encodings":
		return runEncodings(env)
	case "styles":
		return runStyles(env)
	case "config":
		return runConfig(args, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdpreview %s\n", Version)
		return nil
	case "help", "-h", "--help":
		runHelp(args, env)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// loadConfig resolves the effective configuration.
// Priority: CLI flags (applied by callers) > env vars > config file > defaults.
func loadConfig(flagConfig string) (*config.Config, error) {
	envCfg := loadEnvConfig()

	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !strings.ContainsAny(name, `/\`) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeRenderOptionFlags merges pipeline flags into config. CLI values override config values.
func mergeRenderOptionFlags(f *renderOptionFlags, cfg *config.Config) {
	if f.highlightStyle != "" {
		cfg.Render.HighlightStyle = f.highlightStyle
	}
	if f.strictMath {
		cfg.Render.StrictMath = true
	}
	if f.hardWraps {
		cfg.Render.HardWraps = true
	}
	if f.noMarks {
		disabled := false
		cfg.Render.Marks = &disabled
	}
}

// newRenderer builds a Renderer from the effective configuration.
func newRenderer(cfg *config.Config, logger *slog.Logger) (*mdpreview.Renderer, error) {
	policy, err := mdpreview.ParseFailurePolicy(cfg.Render.OnFailure)
	if err != nil {
		return nil, err
	}

	r, err := mdpreview.NewRenderer(
		mdpreview.WithLogger(logger),
		mdpreview.WithDiagramLanguage(cfg.Render.DiagramLanguage),
		mdpreview.WithHighlightStyle(cfg.Render.HighlightStyle),
		mdpreview.WithHardWraps(cfg.Render.HardWraps),
		mdpreview.WithHighlights(cfg.Render.MarksEnabled()),
		mdpreview.WithStrictMath(cfg.Render.StrictMath),
		mdpreview.WithFailurePolicy(policy),
		mdpreview.WithAssetPath(cfg.Assets.BasePath),
		mdpreview.WithStyle(cfg.Output.Style),
	)
	if errors.Is(err, mdpreview.ErrStyleNotFound) {
		return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(pageStyles(cfg.Assets.BasePath)))
	}
	return r, err
}

// encodingError appends the encoding hint to unknown-label errors.
func encodingError(err error) error {
	if errors.Is(err, mdpreview.ErrUnknownEncoding) {
		return fmt.Errorf("%w%s", err, hints.ForUnknownEncoding(mdpreview.SupportedEncodings()))
	}
	if errors.Is(err, mdpreview.ErrImportTooLarge) {
		return fmt.Errorf("%w%s", err, hints.ForInputTooLarge())
	}
	return err
}
