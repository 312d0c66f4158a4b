// Package assets provides stylesheets, the page template and the welcome
// document used by the preview renderer.
//
// Assets come in three kinds, each stored as {dir}/{name}{ext}:
//
//	styles/{name}.css       page stylesheets (preview, minimal)
//	templates/{name}.html   page templates (html/template syntax)
//	documents/{name}.md     seed documents (welcome)
//
// A Library stacks sources: an optional directory on disk first, then the
// copies compiled into the binary. A directory can override one
// stylesheet and inherit everything else.
//
// Names are restricted to letters, digits, '-' and '_', and files read
// from disk must resolve inside the base directory, symlinks included.
package assets
