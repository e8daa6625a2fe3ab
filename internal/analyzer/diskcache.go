package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"plexus/internal/diag"
	"plexus/internal/source"
)

// Current schema version - increment when LintPayload format changes
const lintCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 content digest.
type Digest [32]byte

// String renders the digest in hex.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// LintCache хранит результаты lint по хэшу содержимого пакета.
// Thread-safe for concurrent access.
type LintCache struct {
	mu  sync.RWMutex
	dir string
}

// LintPayload is the on-disk form of one lint run.
type LintPayload struct {
	// Schema version for safe invalidation when format changes
	Schema   uint16
	Digest   Digest
	Created  time.Time
	Files    []string
	Warnings []CachedWarning
}

// CachedWarning is a diag.Warning flattened for msgpack.
type CachedWarning struct {
	Code      string
	Message   string
	Severity  uint8
	File      string
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

// OpenLintCache initializes the cache at the standard location for app.
func OpenLintCache(app string) (*LintCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenLintCacheAt(filepath.Join(base, app))
}

// OpenLintCacheAt initializes the cache in dir.
func OpenLintCacheAt(dir string) (*LintCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LintCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *LintCache) Dir() string { return c.dir }

func (c *LintCache) pathFor(key Digest) string {
	// Подкаталог "lint", чтобы кэш было легко чистить.
	return filepath.Join(c.dir, "lint", key.String()+".mp.zst")
}

// Put stores the warnings of a lint run under key.
func (c *LintCache) Put(key Digest, files []string, warnings []diag.Warning) (err error) {
	if c == nil {
		return nil
	}
	payload := &LintPayload{
		Schema:   lintCacheSchemaVersion,
		Digest:   key,
		Created:  time.Now().UTC(),
		Files:    files,
		Warnings: make([]CachedWarning, len(warnings)),
	}
	for i, w := range warnings {
		payload.Warnings[i] = flatten(w)
	}
	raw, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode lint payload: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if _, err := f.Write(compressed); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get returns the warnings stored under key. A missing entry or one written
// with another schema version is a miss, not an error.
func (c *LintCache) Get(key Digest) ([]diag.Warning, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	compressed, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, false, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress lint payload: %w", err)
	}
	var payload LintPayload
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		return nil, false, fmt.Errorf("decode lint payload: %w", err)
	}
	if payload.Schema != lintCacheSchemaVersion || payload.Digest != key {
		return nil, false, nil
	}
	out := make([]diag.Warning, len(payload.Warnings))
	for i, cw := range payload.Warnings {
		out[i] = cw.warning()
	}
	return out, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *LintCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func flatten(w diag.Warning) CachedWarning {
	r := w.SourceRange
	return CachedWarning{
		Code:      string(w.Code),
		Message:   w.Message,
		Severity:  uint8(w.Severity),
		File:      r.File,
		StartLine: r.Start.Line,
		StartCol:  r.Start.Column,
		EndLine:   r.End.Line,
		EndCol:    r.End.Column,
	}
}

func (cw CachedWarning) warning() diag.Warning {
	return diag.Warning{
		Code:     diag.Code(cw.Code),
		Message:  cw.Message,
		Severity: diag.Severity(cw.Severity),
		SourceRange: source.Range{
			File:  cw.File,
			Start: source.Position{Line: cw.StartLine, Column: cw.StartCol},
			End:   source.Position{Line: cw.EndLine, Column: cw.EndCol},
		},
	}
}

// combineDigest: H(seed || d1 || d2 ...). ds уже в детерминированном порядке.
func combineDigest(seed Digest, ds ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(seed[:])
	for _, d := range ds {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// PackageDigest loads every file the loader lists and combines their URLs
// and contents with salt (typically the lint configuration) into one digest.
// Loaded files are added to the FileSet so cached warnings can be rendered
// with snippets. It returns the listed URLs, sorted.
func (a *Analyzer) PackageDigest(ctx context.Context, salt string) (Digest, []string, error) {
	urls, err := a.loader.List(ctx)
	if err != nil {
		return Digest{}, nil, fmt.Errorf("list package files: %w", err)
	}
	sort.Strings(urls)

	done := a.opts.Timer.Track("digest")
	perFile := make([]Digest, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(a.opts.Jobs, len(urls))))
	for i, url := range urls {
		g.Go(func() error {
			data, err := a.loader.Load(gctx, url)
			if err != nil {
				return fmt.Errorf("load %s: %w", url, err)
			}
			hash := sha256.Sum256(data)
			a.fileFor(url, data, hash)
			perFile[i] = combineDigest(sha256.Sum256([]byte(url)), hash)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		done("failed")
		return Digest{}, nil, err
	}
	done(fmt.Sprintf("%d files", len(urls)))

	seed := sha256.Sum256([]byte(fmt.Sprintf("plexus-lint/%d/%s", lintCacheSchemaVersion, salt)))
	return combineDigest(seed, perFile...), urls, nil
}
