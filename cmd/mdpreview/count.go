package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alnah/go-mdpreview"
	"github.com/alnah/go-mdpreview/internal/fileutil"
)

// runCount prints word statistics for each file, or stdin.
func runCount(args []string, env *Environment) error {
	flags, paths, err := parseCountFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	if flags.encoding != "" {
		cfg.Input.Encoding = flags.encoding
	}

	if len(paths) == 0 {
		paths = []string{stdioPath}
	}

	rows := make([]countRow, 0, len(paths))
	for _, p := range paths {
		content, err := readInput(p, cfg.Input.Encoding, env)
		if err != nil {
			return err
		}
		rows = append(rows, countRow{name: p, stats: mdpreview.Count(content)})
	}

	return printCounts(env.Stdout, rows, flags.common.quiet)
}

// countRow is one line of count output.
type countRow struct {
	name  string
	stats mdpreview.WordStats
}

// printCounts writes an aligned table, with a total row for several
// inputs. In quiet mode only the word total is printed.
func printCounts(w io.Writer, rows []countRow, quiet bool) error {
	var total mdpreview.WordStats
	for _, r := range rows {
		total.Words += r.stats.Words
		total.CJK += r.stats.CJK
		total.Western += r.stats.Western
		total.Characters += r.stats.Characters
		total.NonSpace += r.stats.NonSpace
		total.Lines += r.stats.Lines
	}

	if quiet {
		_, err := fmt.Fprintln(w, total.Words)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "words\tcjk\tchars\tnon-space\tlines\t")
	for _, r := range rows {
		writeCountRow(tw, r.stats, r.name)
	}
	if len(rows) > 1 {
		writeCountRow(tw, total, "total")
	}
	return tw.Flush()
}

func writeCountRow(w io.Writer, s mdpreview.WordStats, name string) {
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t %s\n", s.Words, s.CJK, s.Characters, s.NonSpace, s.Lines, name)
}

// runReplace substitutes every literal occurrence of --find in a file.
func runReplace(args []string, env *Environment) error {
	flags, positional, err := parseReplaceFlags(args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: replace takes exactly one file", ErrUsage)
	}
	path := positional[0]
	if flags.inPlace && path == stdioPath {
		return fmt.Errorf("%w: --in-place needs a file", ErrUsage)
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}
	if flags.encoding != "" {
		cfg.Input.Encoding = flags.encoding
	}

	content, err := readInput(path, cfg.Input.Encoding, env)
	if err != nil {
		return err
	}

	out, n := mdpreview.ReplaceAll(content, flags.find, flags.with)

	target := flags.output
	if flags.inPlace {
		target = path
	}

	switch {
	case target == "" || target == stdioPath:
		if err := mdpreview.Export(env.Stdout, out); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	case flags.inPlace && n == 0:
		// nothing to rewrite
	default:
		if err := writeDocument(target, out); err != nil {
			return err
		}
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "%d replacement(s)\n", n)
	}
	return nil
}

// writeDocument writes content as UTF-8, keeping the mode of an existing file.
func writeDocument(path, content string) error {
	perm := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content), perm); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
