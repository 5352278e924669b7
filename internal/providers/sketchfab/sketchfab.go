// Package sketchfab provides the Sketchfab search adapter, the alternate
// 3D-asset provider. Sketchfab resolves downloads in two steps: a model
// search, then a per-candidate download-URL lookup. Both are hidden behind
// the single Search contract.
package sketchfab

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"sceneforge/internal/assetclient"
	"sceneforge/internal/core"
	"sceneforge/internal/providers"
)

const (
	defaultBaseURL = "https://api.sketchfab.com"

	// maxDownloadLookups caps the per-candidate download-URL calls to stay
	// under the provider's rate limits.
	maxDownloadLookups = 3

	defaultSearchTimeout   = 15 * time.Second
	defaultDownloadTimeout = 10 * time.Second
)

func init() {
	providers.Register("sketchfab", func(opts providers.Options) providers.Searcher {
		return New(opts)
	})
}

// categorySlugs maps the extractor's category names onto Sketchfab category
// slugs for the search call.
var categorySlugs = map[string]string{
	"food":       "food-drink",
	"weapons":    "weapons-military",
	"transport":  "cars-vehicles",
	"furniture":  "furniture-home",
	"nature":     "nature-plants",
	"animals":    "animals-pets",
	"buildings":  "architecture",
	"characters": "people",
	"scenes":     "places-travel",
}

// Adapter implements providers.Searcher against the Sketchfab v3 API.
type Adapter struct {
	client          *assetclient.Client
	apiKey          string
	searchTimeout   time.Duration
	downloadTimeout time.Duration
}

// New creates a Sketchfab adapter. An empty token produces an adapter in
// degraded mode: every Search reports configuration_missing.
func New(opts providers.Options) *Adapter {
	a := &Adapter{
		apiKey:          opts.APIKey,
		searchTimeout:   opts.SearchTimeout,
		downloadTimeout: opts.DownloadTimeout,
	}
	if a.searchTimeout <= 0 {
		a.searchTimeout = defaultSearchTimeout
	}
	if a.downloadTimeout <= 0 {
		a.downloadTimeout = defaultDownloadTimeout
	}

	cfg := assetclient.DefaultConfig("sketchfab", defaultBaseURL)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	// The two-step flow does its own per-call timeouts; retries on the
	// search hop only.
	cfg.RequestTimeout = a.searchTimeout

	if opts.HTTPClient != nil {
		a.client = assetclient.NewWithHTTPClient(opts.HTTPClient, cfg, a.setHeaders)
	} else {
		a.client = assetclient.New(cfg, a.setHeaders)
	}
	return a
}

// Name implements providers.Searcher.
func (a *Adapter) Name() string { return "sketchfab" }

// Configured reports whether an API token is present.
func (a *Adapter) Configured() bool { return a.apiKey != "" }

func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
}

// Search queries /v3/search, then resolves actual glTF download URLs for the
// first candidates via /v3/models/{uid}/download.
func (a *Adapter) Search(ctx context.Context, q core.SearchQuery) ([]core.ModelRecord, error) {
	if a.apiKey == "" {
		return nil, core.NewConfigurationError(a.Name())
	}

	n := q.Normalized()

	params := url.Values{}
	params.Set("type", "models")
	params.Set("q", n.Keywords)
	params.Set("downloadable", "true")
	params.Set("archives_flavours", "gltf")
	if n.Animated {
		params.Set("animated", "true")
	}
	if slug, ok := categorySlugs[n.Category]; ok {
		params.Set("categories", slug)
	}

	resp, err := a.client.DoRaw(ctx, assetclient.Request{
		Method:   http.MethodGet,
		Endpoint: "/v3/search?" + params.Encode(),
		Timeout:  a.searchTimeout,
	})
	if err != nil {
		return nil, err
	}

	results := gjson.GetBytes(resp.Body, "results")
	if !results.Exists() {
		return nil, core.NewMalformedError(a.Name(), nil)
	}
	candidates := results.Array()
	if len(candidates) == 0 {
		return nil, core.NewEmptyResultError(a.Name(), n.Keywords)
	}

	lookups := maxDownloadLookups
	if n.Limit < lookups {
		lookups = n.Limit
	}
	if len(candidates) < lookups {
		lookups = len(candidates)
	}

	records := make([]core.ModelRecord, 0, lookups)
	for _, candidate := range candidates[:lookups] {
		rec, ok := a.resolveCandidate(ctx, candidate)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, core.NewEmptyResultError(a.Name(), n.Keywords)
	}
	return records, nil
}

// resolveCandidate fetches the download URL for one search hit and builds its
// record. A failed lookup skips the candidate rather than failing the batch.
func (a *Adapter) resolveCandidate(ctx context.Context, candidate gjson.Result) (core.ModelRecord, bool) {
	uid := candidate.Get("uid").String()
	if uid == "" {
		return core.ModelRecord{}, false
	}

	resp, err := a.client.DoRaw(ctx, assetclient.Request{
		Method:   http.MethodGet,
		Endpoint: "/v3/models/" + url.PathEscape(uid) + "/download",
		Timeout:  a.downloadTimeout,
	})
	if err != nil {
		slog.Debug("skipping candidate without download URL", "provider", a.Name(), "uid", uid, "error", err)
		return core.ModelRecord{}, false
	}

	downloadURL := gjson.GetBytes(resp.Body, "gltf.url").String()
	if downloadURL == "" {
		return core.ModelRecord{}, false
	}

	rec := core.ModelRecord{
		ID:           uid,
		Title:        candidate.Get("name").String(),
		ThumbnailURL: candidate.Get("thumbnails.images.0.url").String(),
		DownloadURL:  downloadURL,
		Attribution:  candidate.Get("user.displayName").String(),
		Creator:      candidate.Get("user.username").String(),
		TriCount:     int(candidate.Get("faceCount").Int()),
		Category:     candidate.Get("categories.0.name").String(),
		Tags:         tagNames(candidate.Get("tags")),
		Animated:     candidate.Get("animationCount").Int() > 0,
	}
	return rec.Defaulted(), true
}

// tagNames extracts tag strings from Sketchfab's tag list, which may carry
// plain strings or {name, slug} objects depending on the endpoint version.
func tagNames(tags gjson.Result) []string {
	if !tags.IsArray() {
		return nil
	}
	var names []string
	tags.ForEach(func(_, tag gjson.Result) bool {
		switch {
		case tag.Type == gjson.String:
			names = append(names, tag.String())
		case tag.Get("name").Exists():
			names = append(names, tag.Get("name").String())
		case tag.Get("slug").Exists():
			names = append(names, tag.Get("slug").String())
		}
		return true
	})
	return names
}
