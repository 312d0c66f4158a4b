package assets

import (
	"errors"
	"slices"
)

// Library looks assets up in a stack of sources, first match wins.
type Library struct {
	sources []Source
	custom  bool
}

// NewLibrary returns a Library over the built-in assets, with dir stacked
// on top when it is not empty.
func NewLibrary(dir string) (*Library, error) {
	lib := &Library{sources: []Source{builtin}}
	if dir == "" {
		return lib, nil
	}
	src, err := NewDirSource(dir)
	if err != nil {
		return nil, err
	}
	lib.sources = []Source{src, builtin}
	lib.custom = true
	return lib, nil
}

// Custom reports whether a directory is stacked over the built-ins.
func (l *Library) Custom() bool { return l.custom }

// Load returns the first source's copy of the asset. Only a not-found
// error moves on to the next source; invalid names and read failures
// are returned as is.
func (l *Library) Load(kind Kind, name string) (string, error) {
	var err error
	for _, src := range l.sources {
		var content string
		content, err = src.Load(kind, name)
		if err == nil {
			return content, nil
		}
		if !isNotFound(err) {
			return "", err
		}
	}
	return "", err
}

// Names merges the names every source offers for kind.
func (l *Library) Names(kind Kind) []string {
	var names []string
	for _, src := range l.sources {
		names = append(names, src.Names(kind)...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrDocumentNotFound)
}

var (
	_ Source = (*Library)(nil)
	_ Source = (*DirSource)(nil)
)
