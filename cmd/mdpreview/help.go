package main

import (
	"fmt"
	"io"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const (
	defaultHelpWidth = 80
	maxHelpWidth     = 100
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render Markdown files to HTML")
	fmt.Fprintln(w, "  watch      Re-render a Markdown file whenever it changes")
	fmt.Fprintln(w, "  count      Show word and character counts")
	fmt.Fprintln(w, "  replace    Replace text in a Markdown file")
	fmt.Fprintln(w, "  encodings  List supported input encodings")
	fmt.Fprintln(w, "  styles     List page and highlight styles")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdpreview help <command>' for details on a specific command.")
}

// printParagraph writes text word-wrapped to the terminal width and
// indented by two spaces.
func printParagraph(w io.Writer, text string) {
	width := min(terminalWidth(w, defaultHelpWidth), maxHelpWidth) - 2
	if width < 20 {
		width = 20
	}
	fmt.Fprintln(w, indent.String(wordwrap.String(text, width), 2))
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview render <input> [flags]")
	fmt.Fprintln(w)
	printParagraph(w, "Render Markdown files to sanitized HTML. Math is typeset as MathML, "+
		"diagram fences become containers for the page's diagram script and code blocks "+
		"are highlighted. Input may be a file, a directory (searched recursively) or '-' for stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file or directory ('-' = stdout)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -e, --encoding <label>      Input encoding (default utf-8)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --fragment              Write the bare fragment, no page")
	fmt.Fprintln(w, "      --style <name>          Page stylesheet")
	fmt.Fprintln(w, "      --title <s>             Page title (default: first heading)")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom styles and templates")
	fmt.Fprintln(w)
	printRenderOptionUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing")
}

// printRenderOptionUsage prints the pipeline flags shared by render and watch.
func printRenderOptionUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style (see 'mdpreview styles')")
	fmt.Fprintln(w, "      --no-marks              Disable ==highlight== syntax")
	fmt.Fprintln(w, "      --hard-wraps            Treat newlines as line breaks")
	fmt.Fprintln(w, "      --strict-math           Reject unknown TeX commands")
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview watch <file> [flags]")
	fmt.Fprintln(w)
	printParagraph(w, "Render a Markdown file to an HTML page and render it again each time "+
		"the file changes. Every saved version is kept in the session history and "+
		"the latest content is persisted to the state directory. Stop with Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>         Output HTML file (default: next to input)")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -e, --encoding <label>      Input encoding (default utf-8)")
	fmt.Fprintln(w, "      --style <name>          Page stylesheet")
	fmt.Fprintln(w, "      --interval <d>          Poll interval (default 500ms)")
	fmt.Fprintln(w, "      --state-dir <dir>       Session state directory")
	fmt.Fprintln(w, "      --on-failure <s>        Page when rendering fails: empty, raw")
	fmt.Fprintln(w)
	printRenderOptionUsage(w)
}

// printCountUsage prints usage for the count command.
func printCountUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview count [file...] [flags]")
	fmt.Fprintln(w)
	printParagraph(w, "Print words, characters and non-space characters of each file. "+
		"Reads stdin when no file is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -e, --encoding <label>      Input encoding (default utf-8)")
	fmt.Fprintln(w, "  -q, --quiet                 Print only the totals")
}

// printReplaceUsage prints usage for the replace command.
func printReplaceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpreview replace <file> --find <s> [--with <s>] [flags]")
	fmt.Fprintln(w)
	printParagraph(w, "Replace every literal occurrence of a string. "+
		"The result goes to stdout unless --in-place or --output is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --find <s>              Text to search for")
	fmt.Fprintln(w, "      --with <s>              Replacement text")
	fmt.Fprintln(w, "  -i, --in-place              Rewrite the input file")
	fmt.Fprintln(w, "  -o, --output <path>         Output file")
	fmt.Fprintln(w, "  -e, --encoding <label>      Input encoding (default utf-8)")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "count":
		printCountUsage(env.Stdout)
	case "replace":
		printReplaceUsage(env.Stdout)
	case "encodings":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview encodings")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List the encoding labels accepted by --encoding.")
	case "styles":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview styles")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List page stylesheets and code highlight styles.")
	case "config":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview config [-c <name>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the configuration after defaults, file and environment are applied.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpreview help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
