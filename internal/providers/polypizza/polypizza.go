// Package polypizza provides the Poly Pizza search adapter, the primary
// 3D-asset provider.
package polypizza

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"sceneforge/internal/assetclient"
	"sceneforge/internal/core"
	"sceneforge/internal/providers"
)

const defaultBaseURL = "https://api.poly.pizza/v1.1"

func init() {
	providers.Register("polypizza", func(opts providers.Options) providers.Searcher {
		return New(opts)
	})
}

// categoryIDs maps the extractor's category names onto Poly Pizza's integer
// category identifiers. Unknown categories omit the parameter entirely.
var categoryIDs = map[string]int{
	"characters": 0,
	"animals":    1,
	"food":       2,
	"weapons":    3,
	"transport":  4,
	"furniture":  5,
	"nature":     6,
	"buildings":  7,
	"scenes":     8,
}

// Adapter implements providers.Searcher against the Poly Pizza API.
type Adapter struct {
	client *assetclient.Client
	apiKey string
}

// New creates a Poly Pizza adapter. An empty API key produces an adapter in
// degraded mode: every Search reports configuration_missing.
func New(opts providers.Options) *Adapter {
	a := &Adapter{apiKey: opts.APIKey}

	cfg := assetclient.DefaultConfig("polypizza", defaultBaseURL)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.RequestTimeout = opts.SearchTimeout

	if opts.HTTPClient != nil {
		a.client = assetclient.NewWithHTTPClient(opts.HTTPClient, cfg, a.setHeaders)
	} else {
		a.client = assetclient.New(cfg, a.setHeaders)
	}
	return a
}

// Name implements providers.Searcher.
func (a *Adapter) Name() string { return "polypizza" }

// Configured reports whether an API key is present.
func (a *Adapter) Configured() bool { return a.apiKey != "" }

// setHeaders injects the Poly Pizza auth header.
func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("x-auth-token", a.apiKey)
}

// searchResponse mirrors the Poly Pizza search payload.
type searchResponse struct {
	Total   int         `json:"total"`
	Results []rawResult `json:"results"`
}

// rawResult is one Poly Pizza search hit. Field names follow the provider's
// wire format, including the space in "Tri Count".
type rawResult struct {
	ID          string   `json:"ID"`
	Title       string   `json:"Title"`
	Attribution string   `json:"Attribution"`
	Thumbnail   string   `json:"Thumbnail"`
	Download    string   `json:"Download"`
	TriCount    int      `json:"Tri Count"`
	Creator     struct {
		Username string `json:"Username"`
		DPURL    string `json:"DPURL"`
	} `json:"Creator"`
	Category string   `json:"Category"`
	Tags     []string `json:"Tags"`
	Licence  string   `json:"Licence"`
	Animated bool     `json:"Animated"`
}

// Search queries GET /search/{query}?Limit=N[&Category=id][&Animated=1].
func (a *Adapter) Search(ctx context.Context, q core.SearchQuery) ([]core.ModelRecord, error) {
	if a.apiKey == "" {
		return nil, core.NewConfigurationError(a.Name())
	}

	n := q.Normalized()

	params := url.Values{}
	params.Set("Limit", fmt.Sprintf("%d", n.Limit))
	if id, ok := categoryIDs[n.Category]; ok {
		params.Set("Category", fmt.Sprintf("%d", id))
	}
	if n.Animated {
		params.Set("Animated", "1")
	}

	var resp searchResponse
	err := a.client.Do(ctx, assetclient.Request{
		Method:   http.MethodGet,
		Endpoint: "/search/" + url.PathEscape(n.Keywords) + "?" + params.Encode(),
	}, &resp)
	if err != nil {
		return nil, err
	}

	records := normalize(resp.Results)
	if len(records) == 0 {
		return nil, core.NewEmptyResultError(a.Name(), n.Keywords)
	}
	return records, nil
}

// normalize maps raw hits onto ModelRecord, defaulting anything the provider
// omitted. Hits without a download URL are unusable as assets and are dropped
// individually; one bad hit never discards the batch.
func normalize(results []rawResult) []core.ModelRecord {
	records := make([]core.ModelRecord, 0, len(results))
	for _, r := range results {
		if r.Download == "" {
			continue
		}
		rec := core.ModelRecord{
			ID:           r.ID,
			Title:        r.Title,
			ThumbnailURL: r.Thumbnail,
			DownloadURL:  r.Download,
			Attribution:  r.Attribution,
			Creator:      r.Creator.Username,
			TriCount:     r.TriCount,
			Category:     r.Category,
			Tags:         r.Tags,
			Animated:     r.Animated,
		}
		records = append(records, rec.Defaulted())
	}
	return records
}
