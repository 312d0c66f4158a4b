package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirSource reads assets from a directory laid out like the embedded tree.
type DirSource struct {
	root string
}

// NewDirSource opens dir as an asset source. dir must be a readable
// directory; symlinks in it are resolved once here.
func NewDirSource(dir string) (*DirSource, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	if _, err := os.ReadDir(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &DirSource{root: abs}, nil
}

// Dir returns the resolved base directory.
func (d *DirSource) Dir() string { return d.root }

// Load implements Source. A file that resolves outside the base directory
// fails with ErrPathTraversal.
func (d *DirSource) Load(kind Kind, name string) (string, error) {
	if err := CheckName(kind, name); err != nil {
		return "", err
	}
	info := kinds[kind]
	path := filepath.Join(d.root, info.dir, name+info.ext)

	if err := d.contain(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- name checked, path contained
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", info.notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// Names implements Source.
func (d *DirSource) Names(kind Kind) []string {
	if !kind.valid() {
		return nil
	}
	info := kinds[kind]
	matches, _ := filepath.Glob(filepath.Join(d.root, info.dir, "*"+info.ext))
	return assetNames(matches, info.ext)
}

// contain checks that path, after following symlinks, stays under root.
// A missing file is left for the read to report.
func (d *DirSource) contain(path string) error {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(d.root, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, path, d.root)
	}
	return nil
}
