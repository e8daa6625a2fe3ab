// Package loader reads package files by package-relative URL.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned (wrapped) when a URL names no file.
var ErrNotFound = errors.New("file not found")

// Loader reads files of one package.
type Loader interface {
	// CanLoad reports whether url is inside the loader's reach.
	CanLoad(url string) bool
	// Load returns the content behind url.
	Load(ctx context.Context, url string) ([]byte, error)
	// List returns the package's analyzable files, sorted.
	List(ctx context.Context) ([]string, error)
}

// DefaultExtensions are the file types scanners understand.
var DefaultExtensions = []string{".html", ".htm", ".js", ".mjs", ".css"}

// FSLoader loads files from a directory on disk.
type FSLoader struct {
	Root string
	// Extensions filters List; nil selects DefaultExtensions.
	Extensions []string
	// Exclude holds slash-separated glob patterns; "**" spans directories.
	Exclude []string
	// IncludeExternal lists files under dependency directories too.
	IncludeExternal bool
}

// NewFSLoader returns a loader rooted at dir.
func NewFSLoader(dir string) *FSLoader {
	return &FSLoader{Root: dir}
}

func (l *FSLoader) CanLoad(url string) bool {
	if url == "" || path.IsAbs(url) {
		return false
	}
	clean := path.Clean(url)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func (l *FSLoader) Load(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.CanLoad(url) {
		return nil, fmt.Errorf("%s: outside of package root: %w", url, ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(url)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}

func (l *FSLoader) List(ctx context.Context) ([]string, error) {
	exts := l.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}
	var files []string
	err := filepath.WalkDir(l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(l.Root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if !l.IncludeExternal && (name == "bower_components" || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExt(rel, exts) || Excluded(rel, l.Exclude) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

func hasExt(url string, exts []string) bool {
	ext := strings.ToLower(path.Ext(url))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Excluded reports whether url matches one of patterns.
func Excluded(url string, patterns []string) bool {
	for _, p := range patterns {
		if matchGlob(strings.Split(p, "/"), strings.Split(url, "/")) {
			return true
		}
	}
	return false
}

func matchGlob(pattern, parts []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchGlob(rest, parts[i:]) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], parts[0]); err != nil || !ok {
			return false
		}
		pattern, parts = pattern[1:], parts[1:]
	}
	return len(parts) == 0
}
