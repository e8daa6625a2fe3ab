package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"plexus/internal/diag"
	"plexus/internal/source"
)

func TestLintCachePutGet(t *testing.T) {
	cache, err := OpenLintCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLintCacheAt: %v", err)
	}
	key := combineDigest(Digest{1})
	rng := source.Range{File: "x-foo.js", Start: source.Position{Line: 3, Column: 2}, End: source.Position{Line: 3, Column: 9}}
	in := []diag.Warning{
		diag.NewError(diag.UnknownSuperclass, rng, "Unable to resolve superclass Base"),
		diag.NewInfo(diag.OverridingPrivate, rng, "Overrides _priv"),
	}

	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(key, []string{"x-foo.js"}, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	out, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !slices.Equal(out, in) {
		t.Errorf("got %v, want %v", out, in)
	}

	if _, ok, _ := cache.Get(combineDigest(Digest{2})); ok {
		t.Errorf("other key should miss")
	}
	entries, _ := os.ReadDir(filepath.Join(cache.Dir(), "lint"))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Errorf("entry survived DropAll")
	}
}

func TestLintCacheCorruptEntry(t *testing.T) {
	cache, err := OpenLintCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLintCacheAt: %v", err)
	}
	key := combineDigest(Digest{7})
	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := cache.Get(key); ok || err == nil {
		t.Errorf("corrupt entry: ok=%v err=%v, want an error", ok, err)
	}
}

func TestPackageDigest(t *testing.T) {
	f := newFixture(t, elementPackage, Options{})
	ctx := context.Background()

	d1, urls, err := f.an.PackageDigest(ctx, "min=warning")
	if err != nil {
		t.Fatalf("PackageDigest: %v", err)
	}
	if len(urls) != len(elementPackage) {
		t.Errorf("urls = %v", urls)
	}
	if _, ok := f.an.FileSet().Lookup("x-foo.js"); !ok {
		t.Errorf("digest should load files into the FileSet")
	}

	d2, _, _ := f.an.PackageDigest(ctx, "min=warning")
	if d1 != d2 {
		t.Errorf("digest not stable")
	}
	d3, _, _ := f.an.PackageDigest(ctx, "min=error")
	if d1 == d3 {
		t.Errorf("salt ignored")
	}
	f.files.Set("base.js", "class Base\n")
	d4, _, _ := f.an.PackageDigest(ctx, "min=warning")
	if d1 == d4 {
		t.Errorf("content change ignored")
	}
}
