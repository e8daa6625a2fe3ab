package loader

import (
	"context"
	"sort"
	"sync"
)

// OverlayLoader serves in-memory contents (unsaved editor buffers, test
// fixtures) in front of an optional base loader.
type OverlayLoader struct {
	base Loader

	mu    sync.RWMutex
	files map[string][]byte
}

// NewOverlay creates an overlay over base. base may be nil.
func NewOverlay(base Loader) *OverlayLoader {
	return &OverlayLoader{base: base, files: make(map[string][]byte)}
}

// Set replaces the contents served for url.
func (o *OverlayLoader) Set(url, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[url] = []byte(text)
}

// Delete drops the in-memory contents of url so the base is visible again.
func (o *OverlayLoader) Delete(url string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.files, url)
}

func (o *OverlayLoader) lookup(url string) ([]byte, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	data, ok := o.files[url]
	return data, ok
}

func (o *OverlayLoader) CanLoad(url string) bool {
	if _, ok := o.lookup(url); ok {
		return true
	}
	return o.base != nil && o.base.CanLoad(url)
}

func (o *OverlayLoader) Load(ctx context.Context, url string) ([]byte, error) {
	if data, ok := o.lookup(url); ok {
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil
	}
	if o.base == nil {
		return nil, &notFoundError{url: url}
	}
	return o.base.Load(ctx, url)
}

func (o *OverlayLoader) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	if o.base != nil {
		files, err := o.base.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	o.mu.RLock()
	for url := range o.files {
		if _, ok := seen[url]; !ok {
			out = append(out, url)
		}
	}
	o.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return e.url + ": " + ErrNotFound.Error() }
func (e *notFoundError) Unwrap() error { return ErrNotFound }
