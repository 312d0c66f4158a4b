package assets

import (
	"fmt"
	"regexp"
)

// Names of the built-in assets.
const (
	DefaultStyle           = "preview"
	DefaultPageTemplate    = "page"
	DefaultWelcomeDocument = "welcome"
)

// Kind identifies a family of assets sharing a directory and extension.
type Kind int

const (
	KindStyle Kind = iota
	KindTemplate
	KindDocument
)

type kindInfo struct {
	dir      string
	ext      string
	notFound error
}

var kinds = [...]kindInfo{
	KindStyle:    {dir: "styles", ext: ".css", notFound: ErrStyleNotFound},
	KindTemplate: {dir: "templates", ext: ".html", notFound: ErrTemplateNotFound},
	KindDocument: {dir: "documents", ext: ".md", notFound: ErrDocumentNotFound},
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].dir
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kinds) }

// Source is one place assets can be read from.
type Source interface {
	// Load returns the content of the named asset, or an error matching
	// the kind's not-found sentinel.
	Load(kind Kind, name string) (string, error)

	// Names lists the valid asset names of a kind, sorted.
	Names(kind Kind) []string
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// CheckName rejects names that are empty, too long, or carry anything
// beyond letters, digits, '-' and '_'. Dots and separators never reach
// the filesystem.
func CheckName(kind Kind, name string) error {
	if !kind.valid() {
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidAssetName, int(kind))
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// Load reads a built-in asset.
func Load(kind Kind, name string) (string, error) {
	return builtin.Load(kind, name)
}

// Names lists the built-in assets of a kind.
func Names(kind Kind) []string {
	return builtin.Names(kind)
}
