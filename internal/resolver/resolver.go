// Package resolver implements the resolve(path) -> (char-source,
// resolver) interface consumed from the parser collaborator, with
// file:, search:, data: URL schemes.
//
// Adapted from internal/module/module.go's search-path list and
// findModule's direct/indexed/nested-path probing, reworked from a
// module cache into a stateless per-call resolver.
package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"vecl/internal/errors"
)

// CharSource is the resolved textual content of a source file.
type CharSource struct {
	Path string
	Text string
}

// Resolver resolves scheme-prefixed paths (file:, search:, data:)
// against a configured search path.
type Resolver struct {
	SearchPath []string
}

func New(searchPath []string) *Resolver {
	return &Resolver{SearchPath: searchPath}
}

// Resolve dispatches on the path's scheme prefix.
func (r *Resolver) Resolve(path string) (CharSource, *Resolver, error) {
	switch {
	case strings.HasPrefix(path, "file:"):
		return r.resolveFile(strings.TrimPrefix(path, "file:"))
	case strings.HasPrefix(path, "search:"):
		return r.resolveSearch(strings.TrimPrefix(path, "search:"))
	case strings.HasPrefix(path, "data:"):
		return CharSource{Path: path, Text: strings.TrimPrefix(path, "data:")}, r, nil
	default:
		return r.resolveFile(path)
	}
}

func (r *Resolver) resolveFile(path string) (CharSource, *Resolver, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return CharSource{}, nil, errors.NewParseError(fmt.Sprintf("cannot read %s: %v", path, err), path, 0, 0)
	}
	return CharSource{Path: path, Text: string(b)}, r, nil
}

// resolveSearch scans every search-path entry concurrently for the
// first match, using errgroup so --file-search-path entries
// (which may be many, and may be slow network/mounted paths) are
// probed in parallel rather than serially.
func (r *Resolver) resolveSearch(name string) (CharSource, *Resolver, error) {
	type found struct {
		path string
		text string
	}
	results := make([]found, len(r.SearchPath))
	g, _ := errgroup.WithContext(context.Background())
	for i, dir := range r.SearchPath {
		i, dir := i, dir
		g.Go(func() error {
			candidate := filepath.Join(dir, name)
			b, err := os.ReadFile(candidate)
			if err == nil {
				results[i] = found{path: candidate, text: string(b)}
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		if res.path != "" {
			return CharSource{Path: res.path, Text: res.text}, r, nil
		}
	}
	return CharSource{}, nil, errors.NewParseError("module not found: "+name, name, 0, 0)
}
