// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound suggests --config, or creating the config in the user
// config directory when one of the searched paths lives there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "go-mdpreview") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStateDirectory returns hints for an unusable session state directory.
func ForStateDirectory() string {
	return format("set MDPREVIEW_STATE_DIR or state.dir to a writable directory")
}

// ForStyleNotFound lists the available style names.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUnknownEncoding points at the encodings command and lists a few
// common labels.
func ForUnknownEncoding(supported []string) string {
	hint := "run 'mdpreview encodings' for the full list"
	if len(supported) > 0 {
		n := min(len(supported), 5)
		hint = "try " + strings.Join(supported[:n], ", ") + "; " + hint
	}
	return format(hint)
}

// ForInputTooLarge suggests splitting oversized documents.
func ForInputTooLarge() string {
	return format("split the document into smaller files")
}

// ForWatchTarget explains that watch follows a single file.
func ForWatchTarget() string {
	return format("watch takes one Markdown file; use 'mdpreview render' for directories")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
