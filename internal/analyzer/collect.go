package analyzer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"plexus/internal/diag"
	"plexus/internal/model"
	"plexus/internal/source"
	"plexus/internal/trace"
)

// result is the load+scan outcome of one URL.
type result struct {
	url     string
	doc     *model.ScannedDocument
	warning *diag.Warning
	cached  bool
}

// collect loads and scans roots and, level by level, every document they
// import. Each level is processed in parallel.
func (a *Analyzer) collect(ctx context.Context, roots []string) (map[string]*result, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "collect")
	idx := a.opts.Timer.Begin("load+scan")

	results := make(map[string]*result, len(roots))
	seen := make(map[string]struct{}, len(roots))
	frontier := make([]string, 0, len(roots))
	for _, url := range roots {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		frontier = append(frontier, url)
	}

	hits := 0
	for len(frontier) > 0 {
		batch, err := a.scanBatch(ctx, frontier)
		if err != nil {
			span.End(err.Error())
			a.opts.Timer.End(idx, "canceled")
			return nil, err
		}
		var next []string
		for _, r := range batch {
			results[r.url] = r
			if r.cached {
				hits++
			}
			if r.doc == nil {
				continue
			}
			for _, dep := range r.doc.Imports {
				if _, ok := seen[dep.URL]; ok {
					continue
				}
				seen[dep.URL] = struct{}{}
				next = append(next, dep.URL)
			}
		}
		frontier = next
	}

	note := fmt.Sprintf("%d documents, %d cached", len(results), hits)
	a.opts.Timer.End(idx, note)
	span.WithExtra("documents", fmt.Sprint(len(results))).End(note)
	return results, nil
}

// scanBatch processes urls in parallel. Результаты лежат в слотах по индексу,
// поэтому порядок детерминирован.
func (a *Analyzer) scanBatch(ctx context.Context, urls []string) ([]*result, error) {
	for _, url := range urls {
		a.sink.OnEvent(Event{URL: url, Stage: StageLoad, Status: StatusQueued})
	}
	out := make([]*result, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(a.opts.Jobs, len(urls)))
	for i, url := range urls {
		g.Go(func() error {
			r, err := a.scanOne(gctx, url)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// scanOne loads and scans one URL. Load and scan failures become warning
// results; only cancellation is returned as an error.
func (a *Analyzer) scanOne(ctx context.Context, url string) (*result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDocument, url, trace.CurrentSpan(ctx))

	started := time.Now()
	a.sink.OnEvent(Event{URL: url, Stage: StageLoad, Status: StatusWorking})
	data, err := a.loader.Load(ctx, url)
	a.opts.Timer.Add("load", time.Since(started))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.End("canceled")
			return nil, ctxErr
		}
		w := diag.NewError(diag.CouldNotLoad, source.Range{File: url},
			fmt.Sprintf("Unable to load %s: %v", url, err))
		a.sink.OnEvent(Event{URL: url, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End("load failed")
		return &result{url: url, warning: &w}, nil
	}
	a.sink.OnEvent(Event{URL: url, Stage: StageLoad, Status: StatusDone, Elapsed: time.Since(started)})

	hash := sha256.Sum256(data)
	if e, ok := a.cache.Get(url); ok && e.hash == hash {
		a.sink.OnEvent(Event{URL: url, Stage: StageScan, Status: StatusDone})
		span.End("cached")
		return &result{url: url, doc: e.doc, warning: e.warning, cached: true}, nil
	}

	file := a.fileFor(url, data, hash)

	started = time.Now()
	a.sink.OnEvent(Event{URL: url, Stage: StageScan, Status: StatusWorking})
	doc, err := a.scanners.Scan(ctx, url, file.Content)
	a.opts.Timer.Add("scan", time.Since(started))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			span.End("canceled")
			return nil, ctxErr
		}
		w := warningOf(err, url)
		a.cache.Add(url, &entry{hash: hash, warning: &w})
		a.sink.OnEvent(Event{URL: url, Stage: StageScan, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End(string(w.Code))
		return &result{url: url, warning: &w}, nil
	}
	a.cache.Add(url, &entry{hash: hash, doc: doc})
	a.sink.OnEvent(Event{URL: url, Stage: StageScan, Status: StatusDone, Elapsed: time.Since(started)})
	span.WithExtra("imports", fmt.Sprint(len(doc.Imports))).End("")
	return &result{url: url, doc: doc}, nil
}

// fileFor returns the FileSet entry for url, replacing it when the raw
// content changed since it was added.
func (a *Analyzer) fileFor(url string, data []byte, hash [32]byte) *source.File {
	a.hashMu.Lock()
	defer a.hashMu.Unlock()
	if prev, ok := a.hashes[url]; ok && prev == hash {
		if f, ok := a.files.Lookup(url); ok {
			return f
		}
	}
	id := a.files.Add(url, data, 0)
	a.hashes[url] = hash
	return a.files.Get(id)
}
