package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, text := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestFSLoaderList(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":                         "",
		"src/x-foo.html":                     "",
		"src/x-foo.js":                       "",
		"src/readme.md":                      "",
		"test/x-foo_test.html":               "",
		".git/config.js":                     "",
		"bower_components/polymer/poly.html": "",
	})
	ctx := context.Background()

	l := NewFSLoader(root)
	l.Exclude = []string{"test/**"}
	got, err := l.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"index.html", "src/x-foo.html", "src/x-foo.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	l.IncludeExternal = true
	got, err = l.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"bower_components/polymer/poly.html", "index.html", "src/x-foo.html", "src/x-foo.js"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() with external = %v, want %v", got, want)
	}
}

func TestFSLoaderLoad(t *testing.T) {
	root := writeTree(t, map[string]string{"a.html": "<p>hi</p>"})
	l := NewFSLoader(root)
	ctx := context.Background()

	data, err := l.Load(ctx, "a.html")
	if err != nil || string(data) != "<p>hi</p>" {
		t.Fatalf("Load(a.html) = (%q, %v)", data, err)
	}
	if _, err := l.Load(ctx, "missing.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(missing) err = %v, want ErrNotFound", err)
	}
	if _, err := l.Load(ctx, "../escape.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(../escape) err = %v, want ErrNotFound", err)
	}
}

func TestOverlayShadowsBase(t *testing.T) {
	root := writeTree(t, map[string]string{"a.html": "disk"})
	o := NewOverlay(NewFSLoader(root))
	o.Set("a.html", "memory")
	o.Set("b.html", "new")
	ctx := context.Background()

	data, err := o.Load(ctx, "a.html")
	if err != nil || string(data) != "memory" {
		t.Fatalf("Load(a.html) = (%q, %v), want memory", data, err)
	}
	files, err := o.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a.html", "b.html"}; !reflect.DeepEqual(files, want) {
		t.Errorf("List() = %v, want %v", files, want)
	}

	o.Delete("a.html")
	data, err = o.Load(ctx, "a.html")
	if err != nil || string(data) != "disk" {
		t.Errorf("after Delete, Load(a.html) = (%q, %v), want disk", data, err)
	}
}

func TestOverlayWithoutBase(t *testing.T) {
	o := NewOverlay(nil)
	if _, err := o.Load(context.Background(), "x.js"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if o.CanLoad("x.js") {
		t.Errorf("CanLoad(x.js) = true for empty overlay")
	}
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		url     string
		pattern string
		want    bool
	}{
		{"test/a.html", "test/**", true},
		{"test/deep/a.html", "test/**", true},
		{"src/test/a.html", "test/**", false},
		{"src/test/a.html", "**/test/**", true},
		{"demo/index.html", "demo/*.html", true},
		{"demo/sub/index.html", "demo/*.html", false},
		{"a.min.js", "**/*.min.js", true},
	}
	for _, tt := range tests {
		if got := Excluded(tt.url, []string{tt.pattern}); got != tt.want {
			t.Errorf("Excluded(%q, %q) = %v, want %v", tt.url, tt.pattern, got, tt.want)
		}
	}
}
