package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

//go:embed styles/*.css templates/*.html documents/*.md
var embedded embed.FS

// builtin serves the assets compiled into the binary.
var builtin Source = embeddedSource{fsys: embedded}

type embeddedSource struct {
	fsys fs.FS
}

func (e embeddedSource) Load(kind Kind, name string) (string, error) {
	if err := CheckName(kind, name); err != nil {
		return "", err
	}
	info := kinds[kind]
	content, err := fs.ReadFile(e.fsys, info.dir+"/"+name+info.ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", info.notFound, name)
	}
	return string(content), nil
}

func (e embeddedSource) Names(kind Kind) []string {
	if !kind.valid() {
		return nil
	}
	info := kinds[kind]
	matches, _ := fs.Glob(e.fsys, info.dir+"/*"+info.ext)
	return assetNames(matches, info.ext)
}

// assetNames strips directories and ext from paths, keeping only names
// CheckName accepts.
func assetNames(paths []string, ext string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		base := p[strings.LastIndexAny(p, `/\`)+1:]
		name := strings.TrimSuffix(base, ext)
		if namePattern.MatchString(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
