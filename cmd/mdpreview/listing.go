package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/assets"
	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// runEncodings prints the supported encoding labels, one per line.
func runEncodings(env *Environment) error {
	for _, label := range mdpreview.SupportedEncodings() {
		fmt.Fprintln(env.Stdout, label)
	}
	return nil
}

// runStyles prints page stylesheets and chroma highlight styles.
func runStyles(env *Environment) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, "Page styles:")
	for _, name := range pageStyles(cfg.Assets.BasePath) {
		fmt.Fprintf(env.Stdout, "  %s\n", name)
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Highlight styles:")
	fmt.Fprintln(env.Stdout, wrapList(mdpreview.HighlightStyles(), terminalWidth(env.Stdout, defaultHelpWidth)))
	return nil
}

// pageStyles lists the built-in style names merged with the stylesheets
// of basePath. An unusable basePath lists the built-ins only.
func pageStyles(basePath string) []string {
	lib, err := assets.NewLibrary(basePath)
	if err != nil {
		return assets.Names(assets.KindStyle)
	}
	return lib.Names(assets.KindStyle)
}

// wrapList joins names with ", " and breaks lines before width, indenting
// each line by two spaces.
func wrapList(names []string, width int) string {
	var b strings.Builder
	line := 2
	b.WriteString("  ")
	for i, name := range names {
		item := name
		if i < len(names)-1 {
			item += ","
		}
		if line > 2 && line+1+len(item) > width {
			b.WriteString("\n  ")
			line = 2
		} else if line > 2 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(item)
		line += len(item)
	}
	return b.String()
}

// runConfig prints the effective configuration as YAML.
func runConfig(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}

	stateDir, err := cfg.StateDir()
	if err == nil {
		cfg.State.Dir = stateDir
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}

// readInput reads a file, or stdin for "-", decoded from encoding.
func readInput(path, encoding string, env *Environment) (string, error) {
	if path == "-" {
		content, err := mdpreview.Import(env.Stdin, encoding)
		if err != nil {
			return "", encodingError(fmt.Errorf("reading stdin: %w", err))
		}
		return content, nil
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	defer func() { _ = f.Close() }()

	content, err := mdpreview.Import(f, encoding)
	if err != nil {
		return "", encodingError(fmt.Errorf("reading %s: %w", path, err))
	}
	return content, nil
}
