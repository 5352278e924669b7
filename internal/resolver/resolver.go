// Package resolver orchestrates model resolution: direct-map fast paths,
// cache lookups, provider searches, and the fallback guarantee. Resolve never
// fails — every path terminates in at least one renderable record.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"sceneforge/internal/assetmap"
	"sceneforge/internal/cache"
	"sceneforge/internal/core"
	"sceneforge/internal/keywords"
	"sceneforge/internal/observability"
	"sceneforge/internal/providers"
)

// Source reports which path produced a resolution, for logging, metrics, and
// the caller's "using fallback model" style messaging.
type Source string

const (
	SourceEmptyPrompt Source = "empty_prompt"
	SourceProcedural  Source = "procedural"
	SourcePinned      Source = "pinned"
	SourceCache       Source = "cache"
	SourceProvider    Source = "provider"
	SourceNoResults   Source = "no_results"
	SourceFallback    Source = "fallback"
)

// Result is a resolution outcome: one or more records plus the path that
// produced them. Records is never empty.
type Result struct {
	Records []core.ModelRecord `json:"models"`
	Source  Source             `json:"source"`
}

// Options tunes a prompt resolution.
type Options struct {
	// Limit is the number of results requested from the provider.
	// Non-positive means core.DefaultLimit.
	Limit int
	// Category overrides the extractor's detected category.
	Category string
	// Animated forces the animation hint on.
	Animated bool
}

// Resolver owns the resolution pipeline. It is safe for concurrent use; the
// cache store is its only shared mutable state and concurrent identical
// queries are collapsed into a single provider call.
type Resolver struct {
	store    cache.Store
	searcher providers.Searcher
	metrics  *observability.Metrics
	logger   *slog.Logger

	inflight singleflight.Group
}

// New creates a Resolver around the given cache store and provider adapter.
// metrics may be nil; logger defaults to slog.Default.
func New(store cache.Store, searcher providers.Searcher, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:    store,
		searcher: searcher,
		metrics:  metrics,
		logger:   logger,
	}
}

// Configured reports whether the active provider has a usable credential.
// Resolution works either way; without one every search degrades to the
// fallback path.
func (r *Resolver) Configured() bool {
	type configured interface{ Configured() bool }
	if c, ok := r.searcher.(configured); ok {
		return c.Configured()
	}
	return true
}

// ResolveModelsForPrompt is the public entry point: extract keywords from the
// prompt, try the direct-map fast paths, then run the full resolve pipeline.
func (r *Resolver) ResolveModelsForPrompt(ctx context.Context, prompt string, opts Options) Result {
	ext := keywords.Extract(prompt)
	if ext.Keywords == "" {
		// No query. Callers must treat this as "do not search".
		r.count(SourceEmptyPrompt)
		return Result{Records: []core.ModelRecord{Fallback()}, Source: SourceEmptyPrompt}
	}

	category := ext.Category
	if opts.Category != "" {
		category = opts.Category
	}
	animated := ext.Animated || opts.Animated

	// Every extracted keyword gets a direct-map chance, not just the first:
	// "magical forest" must still hit the forest entry.
	for _, kw := range strings.Fields(ext.Keywords) {
		direct, ok := assetmap.ResolveDirect(kw)
		if !ok {
			continue
		}
		if direct.ProceduralOnly {
			r.count(SourceProcedural)
			return Result{Records: []core.ModelRecord{proceduralRecord(kw, category)}, Source: SourceProcedural}
		}
		r.count(SourcePinned)
		return Result{Records: []core.ModelRecord{pinnedRecord(kw, direct.URL, category)}, Source: SourcePinned}
	}

	primary := primaryKeyword(ext.Keywords)
	q := core.SearchQuery{
		RawPrompt: prompt,
		Keywords:  searchPhrase(primary, ext.Keywords),
		Category:  category,
		Animated:  animated,
		Limit:     opts.Limit,
	}
	records, source := r.resolve(ctx, q)
	return Result{Records: records, Source: source}
}

// Resolve runs the cache/provider/fallback pipeline for an already-derived
// query. It never fails: every error path yields the fallback record.
func (r *Resolver) Resolve(ctx context.Context, q core.SearchQuery) []core.ModelRecord {
	records, _ := r.resolve(ctx, q)
	return records
}

func (r *Resolver) resolve(ctx context.Context, q core.SearchQuery) ([]core.ModelRecord, Source) {
	q = q.Normalized()
	if q.Keywords == "" {
		r.count(SourceEmptyPrompt)
		return []core.ModelRecord{Fallback()}, SourceEmptyPrompt
	}

	key := cache.Key(q)
	if records, ok := r.store.Get(ctx, key); ok {
		r.count(SourceCache)
		return records, SourceCache
	}

	records, err := r.search(ctx, key, q)
	if err != nil {
		source := SourceFallback
		switch {
		case core.IsEmptyResult(err):
			source = SourceNoResults
			r.logger.Info("no models found", "keywords", q.Keywords, "provider", r.searcher.Name())
		case core.IsConfigurationMissing(err):
			r.logger.Debug("provider credential missing, using fallback", "provider", r.searcher.Name())
		default:
			r.logger.Warn("model search failed, using fallback",
				"keywords", q.Keywords, "provider", r.searcher.Name(), "error", err)
		}
		r.count(source)
		return []core.ModelRecord{Fallback()}, source
	}

	r.count(SourceProvider)
	return records, SourceProvider
}

// search performs the provider call with in-flight de-duplication: concurrent
// identical queries share one network request and one cache write.
func (r *Resolver) search(ctx context.Context, key string, q core.SearchQuery) ([]core.ModelRecord, error) {
	v, err, _ := r.inflight.Do(key, func() (interface{}, error) {
		start := time.Now()
		records, err := r.searcher.Search(ctx, q)
		r.observeProvider(time.Since(start), err)
		if err != nil {
			return nil, err
		}
		r.store.Set(ctx, key, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]core.ModelRecord), nil
}

func (r *Resolver) count(source Source) {
	if r.metrics != nil {
		r.metrics.Resolutions.WithLabelValues(string(source)).Inc()
	}
}

func (r *Resolver) observeProvider(d time.Duration, err error) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.metrics.ProviderRequestDuration.WithLabelValues(r.searcher.Name(), status).Observe(d.Seconds())
}

// primaryKeyword returns the first token of the extracted phrase; direct-map
// lookups key on single nouns.
func primaryKeyword(kw string) string {
	if i := strings.IndexByte(kw, ' '); i >= 0 {
		return kw[:i]
	}
	return kw
}

// searchPhrase prefers a curated provider phrase for the primary keyword when
// one exists; otherwise the full extracted phrase is the better query.
func searchPhrase(primary, extracted string) string {
	if term := assetmap.SearchTerm(primary); term != primary {
		return term
	}
	return extracted
}
