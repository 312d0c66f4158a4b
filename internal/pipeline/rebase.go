package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rebaseTargets selects the elements whose references are rewritten.
var rebaseTargets = cascadia.MustCompile("img[src], a[href]")

// RebaseRelativePaths rewrites relative image sources and link targets in
// a fragment rendered from a file in sourceDir so they still resolve when
// the page is written to outputDir. If either directory is empty, or both
// are the same, the fragment is returned unchanged.
//
// Rewrites:
//   - img[src]
//   - a[href], except in-page anchors
//
// Leaves alone URLs with a scheme or host, absolute paths, and data URIs.
func RebaseRelativePaths(fragment, sourceDir, outputDir string) (string, error) {
	if sourceDir == "" || outputDir == "" || fragment == "" {
		return fragment, nil
	}

	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	absOutput, err := filepath.Abs(outputDir)
	if err != nil {
		return "", err
	}
	if absSource == absOutput {
		return fragment, nil
	}

	root, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}
	rebaseNode(root, absSource, absOutput)
	return renderFragment(root)
}

func rebaseNode(root *html.Node, sourceDir, outputDir string) {
	for _, n := range rebaseTargets.MatchAll(root) {
		key := "href"
		if n.DataAtom == atom.Img {
			key = "src"
		}
		rebaseAttr(n, key, sourceDir, outputDir)
	}
}

func rebaseAttr(n *html.Node, key, sourceDir, outputDir string) {
	for i, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		if rebased, ok := rebaseRef(attr.Val, sourceDir, outputDir); ok {
			n.Attr[i].Val = rebased
		}
	}
}

// rebaseRef returns ref relative to outputDir, keeping any query and
// fragment. ok is false when ref is not a relative file reference.
func rebaseRef(ref, sourceDir, outputDir string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, `\`) {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" || u.Path == "" {
		return "", false
	}
	if filepath.IsAbs(filepath.FromSlash(u.Path)) {
		return "", false
	}

	target := filepath.Join(sourceDir, filepath.FromSlash(u.Path))
	rel, err := filepath.Rel(outputDir, target)
	if err != nil {
		return "", false
	}
	u.Path = filepath.ToSlash(rel)
	return u.String(), true
}
