// Package analyzer drives a whole analysis: it loads files through a
// loader, scans them in parallel, links the scanned documents into a graph
// and hands back an immutable model.Analysis snapshot.
//
// Scanned documents are cached by URL and content hash, so a later
// Analyze call only rescans what changed. FilesChanged drops the cached
// results of the given files and of everything that imports them.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"plexus/internal/diag"
	"plexus/internal/loader"
	"plexus/internal/model"
	"plexus/internal/observ"
	"plexus/internal/scan"
	"plexus/internal/scan/cssscan"
	"plexus/internal/scan/htmlscan"
	"plexus/internal/scan/jsscan"
	"plexus/internal/source"
	"plexus/internal/trace"
	"plexus/internal/urlresolver"
)

// DefaultCacheSize bounds the scanned-document cache when Options leave it unset.
const DefaultCacheSize = 512

// Options configures an Analyzer. Only Loader is required.
type Options struct {
	Loader   loader.Loader
	Resolver *urlresolver.PackageResolver
	// Scanners defaults to DefaultRegistry(Resolver).
	Scanners  *scan.Registry
	CacheSize int
	// Jobs limits concurrent load+scan workers; 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Timer    *observ.Timer
}

// Analyzer owns the caches shared between analyses of one package.
// Analyses are serialized; each call returns a new snapshot.
type Analyzer struct {
	opts     Options
	loader   loader.Loader
	resolver *urlresolver.PackageResolver
	scanners *scan.Registry
	sink     ProgressSink

	mu    sync.Mutex // serializes Analyze / FilesChanged
	files *source.FileSet
	cache *lru.Cache[string, *entry]

	hashMu sync.Mutex
	hashes map[string][32]byte // raw content hash of the FileSet version

	// imports and importers are the forward and reverse import edges of
	// every document scanned so far.
	imports   map[string][]string
	importers map[string]map[string]struct{}
}

// entry is a cached scan result. Exactly one of doc and warning is set.
type entry struct {
	hash    [32]byte
	doc     *model.ScannedDocument
	warning *diag.Warning
}

// New creates an Analyzer.
func New(opts Options) (*Analyzer, error) {
	if opts.Loader == nil {
		return nil, errors.New("analyzer: no loader configured")
	}
	if opts.Resolver == nil {
		opts.Resolver = urlresolver.New("")
	}
	if opts.Scanners == nil {
		opts.Scanners = DefaultRegistry(opts.Resolver)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	sink := opts.Progress
	if sink == nil {
		sink = nopSink{}
	}
	cache, err := lru.New[string, *entry](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("analyzer: scanned cache: %w", err)
	}
	return &Analyzer{
		opts:      opts,
		loader:    opts.Loader,
		resolver:  opts.Resolver,
		scanners:  opts.Scanners,
		sink:      sink,
		files:     source.NewFileSet(),
		hashes:    make(map[string][32]byte),
		cache:     cache,
		imports:   make(map[string][]string),
		importers: make(map[string]map[string]struct{}),
	}, nil
}

// DefaultRegistry registers the markup, script and style scanners.
func DefaultRegistry(resolver scan.Resolver) *scan.Registry {
	reg := scan.NewRegistry(resolver)
	reg.Register(model.KindHTMLDocument, htmlscan.New(reg))
	reg.Register(model.KindJSDocument, jsscan.New(resolver))
	reg.Register(model.KindCSSDocument, cssscan.New(resolver))
	return reg
}

// FileSet returns the set of loaded files, used to render warnings.
func (a *Analyzer) FileSet() *source.FileSet { return a.files }

// Resolver returns the URL resolver documents are keyed by.
func (a *Analyzer) Resolver() *urlresolver.PackageResolver { return a.resolver }

// Analyze loads, scans and links the documents at urls and everything they
// import. URLs that cannot be resolved or loaded become warning outcomes;
// the returned error is non-nil only when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, urls ...string) (*model.Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "analyze")
	defer span.End("")

	outcomes := make(map[string]model.Outcome, len(urls))
	roots := make([]string, 0, len(urls))
	for _, raw := range urls {
		url, ok := a.resolver.Resolve(raw)
		if !ok {
			file := raw
			if file == "" {
				file = "<input>"
			}
			w := diag.NewWarning(diag.CouldNotLoad, source.Range{File: file},
				fmt.Sprintf("Unable to resolve %q", raw))
			outcomes[raw] = model.Outcome{Warning: &w}
			continue
		}
		roots = append(roots, url)
	}

	results, err := a.collect(ctx, roots)
	if err != nil {
		return nil, err
	}
	a.recordImports(results)

	_, rspan := trace.Start(ctx, trace.ScopePass, "resolve")
	done := a.opts.Timer.Track("resolve")
	started := time.Now()
	a.sink.OnEvent(Event{Stage: StageResolve, Status: StatusWorking})

	src := newDocSource(results)
	requested := make(map[string]struct{}, len(roots))
	for _, url := range roots {
		requested[url] = struct{}{}
	}
	for _, url := range sortedKeys(results) {
		doc, err := src.Document(url)
		if err != nil {
			// Failed dependencies surface through the importing feature.
			if _, ok := requested[url]; ok {
				w := warningOf(err, url)
				outcomes[url] = model.Outcome{Warning: &w}
			}
			continue
		}
		if !doc.Resolved() {
			doc.Resolve()
		}
		outcomes[url] = model.Outcome{Document: doc}
	}
	done(fmt.Sprintf("%d documents", len(outcomes)))
	rspan.WithExtra("documents", fmt.Sprint(len(outcomes))).End("")
	a.sink.OnEvent(Event{Stage: StageResolve, Status: StatusDone, Elapsed: time.Since(started)})

	_, ispan := trace.Start(ctx, trace.ScopePass, "index")
	idone := a.opts.Timer.Track("index")
	started = time.Now()
	a.sink.OnEvent(Event{Stage: StageIndex, Status: StatusWorking})
	analysis := model.NewAnalysis(outcomes, a.resolver)
	idone("")
	ispan.End(analysis.Generation.String())
	a.sink.OnEvent(Event{Stage: StageIndex, Status: StatusDone, Elapsed: time.Since(started)})
	return analysis, nil
}

// AnalyzePackage analyzes every file the loader lists.
func (a *Analyzer) AnalyzePackage(ctx context.Context) (*model.Analysis, error) {
	urls, err := a.loader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list package files: %w", err)
	}
	return a.Analyze(ctx, urls...)
}

// FilesChanged forgets the cached scan results of urls and of every document
// that transitively imports one of them. It returns the affected URLs, sorted.
// The next Analyze call reloads them.
func (a *Analyzer) FilesChanged(urls ...string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	affected := make(map[string]struct{})
	queue := make([]string, 0, len(urls))
	for _, raw := range urls {
		url, ok := a.resolver.Resolve(raw)
		if !ok {
			continue
		}
		if _, seen := affected[url]; !seen {
			affected[url] = struct{}{}
			queue = append(queue, url)
		}
	}
	for len(queue) > 0 {
		url := queue[0]
		queue = queue[1:]
		for importer := range a.importers[url] {
			if _, seen := affected[importer]; seen {
				continue
			}
			affected[importer] = struct{}{}
			queue = append(queue, importer)
		}
	}
	out := make([]string, 0, len(affected))
	for url := range affected {
		a.cache.Remove(url)
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}

// ClearCaches drops every cached scan result.
func (a *Analyzer) ClearCaches() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Purge()
	a.imports = make(map[string][]string)
	a.importers = make(map[string]map[string]struct{})
}

// recordImports refreshes the import edges of the scanned documents.
func (a *Analyzer) recordImports(results map[string]*result) {
	for url, r := range results {
		for _, old := range a.imports[url] {
			delete(a.importers[old], url)
		}
		delete(a.imports, url)
		if r.doc == nil {
			continue
		}
		deps := make([]string, 0, len(r.doc.Imports))
		for _, dep := range r.doc.Imports {
			set, ok := a.importers[dep.URL]
			if !ok {
				set = make(map[string]struct{})
				a.importers[dep.URL] = set
			}
			set[url] = struct{}{}
			deps = append(deps, dep.URL)
		}
		a.imports[url] = deps
	}
}

// warningOf extracts the warning a failed load or scan carries, or wraps
// err into a could-not-load warning anchored at the start of url.
func warningOf(err error, url string) diag.Warning {
	if w, ok := diag.AsWarning(err); ok {
		return w
	}
	return diag.NewError(diag.CouldNotLoad, source.Range{File: url}, err.Error())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
