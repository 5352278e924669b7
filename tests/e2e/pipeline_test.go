//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneforge/internal/cache"
	"sceneforge/internal/core"
	"sceneforge/internal/providers"
	"sceneforge/internal/providers/polypizza"
	"sceneforge/internal/resolver"
	"sceneforge/internal/server"
)

// mockPolyPizza serves the provider wire format for end-to-end tests.
func mockPolyPizza(t *testing.T, searchCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "sk-e2e", r.Header.Get("x-auth-token"))
		searchCalls.Add(1)

		if r.URL.Path == "/search/xyzzy" {
			fmt.Fprint(w, `{"total":0,"results":[]}`)
			return
		}
		fmt.Fprint(w, `{
			"total": 1,
			"results": [{
				"ID": "e2e-1",
				"Title": "Wizard Tower",
				"Download": "https://static.poly.pizza/e2e-1.glb",
				"Tri Count": 900,
				"Creator": {"Username": "merlin"},
				"Category": "Buildings",
				"Tags": ["tower"]
			}]
		}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupServer wires the full pipeline against a mock provider and returns the
// running HTTP surface.
func setupServer(t *testing.T, apiKey string, searchCalls *atomic.Int32) *httptest.Server {
	t.Helper()

	upstream := mockPolyPizza(t, searchCalls)
	searcher := polypizza.New(providers.Options{
		APIKey:     apiKey,
		BaseURL:    upstream.URL,
		HTTPClient: upstream.Client(),
	})

	store := cache.NewMemoryStore(cache.DefaultTTL, cache.DefaultCapacity)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := resolver.New(store, searcher, nil, logger)

	handler := server.NewHandler(res, searcher, store, cache.DefaultCapacity, logger)
	srv := httptest.NewServer(server.New(handler, &server.Config{}).Echo())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(body, v), "body: %s", body)
	}
	return resp
}

func TestResolvePipeline(t *testing.T) {
	var searchCalls atomic.Int32
	srv := setupServer(t, "sk-e2e", &searchCalls)

	var body struct {
		Models []core.ModelRecord `json:"models"`
		Source string             `json:"source"`
	}

	resp := getJSON(t, srv.URL+"/v1/resolve?prompt=wizard+tower", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "provider", body.Source)
	require.Len(t, body.Models, 1)
	assert.Equal(t, "e2e-1", body.Models[0].ID)
	assert.Equal(t, "merlin", body.Models[0].Creator)
	// Fields the provider omitted carry defaults, not zero values.
	assert.Equal(t, "Unknown", body.Models[0].Attribution)

	// The identical prompt is now served from cache without a provider call.
	before := searchCalls.Load()
	resp = getJSON(t, srv.URL+"/v1/resolve?prompt=wizard+tower", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cache", body.Source)
	assert.Equal(t, before, searchCalls.Load())
}

func TestResolveFastPathsSkipProvider(t *testing.T) {
	var searchCalls atomic.Int32
	srv := setupServer(t, "sk-e2e", &searchCalls)

	var body struct {
		Models []core.ModelRecord `json:"models"`
		Source string             `json:"source"`
	}

	getJSON(t, srv.URL+"/v1/resolve?prompt=dragon", &body)
	assert.Equal(t, "pinned", body.Source)
	require.Len(t, body.Models, 1)
	assert.Contains(t, body.Models[0].DownloadURL, "static.poly.pizza")

	getJSON(t, srv.URL+"/v1/resolve?prompt=mountain+peak", &body)
	assert.Equal(t, "procedural", body.Source)
	assert.Empty(t, body.Models[0].DownloadURL)

	assert.Zero(t, searchCalls.Load(), "fast paths must not reach the provider")
}

func TestResolveDegradedWithoutCredential(t *testing.T) {
	var searchCalls atomic.Int32
	srv := setupServer(t, "", &searchCalls)

	var health struct {
		Status     string `json:"status"`
		Configured bool   `json:"configured"`
	}
	resp := getJSON(t, srv.URL+"/health", &health)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health.Status)
	assert.False(t, health.Configured)

	var body struct {
		Models []core.ModelRecord `json:"models"`
		Source string             `json:"source"`
	}
	resp = getJSON(t, srv.URL+"/v1/resolve?prompt=wizard+tower", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode, "resolution must survive a missing credential")
	assert.Equal(t, "fallback", body.Source)
	require.Len(t, body.Models, 1)
	assert.Equal(t, "/fallback-cube.glb", body.Models[0].DownloadURL)

	assert.Zero(t, searchCalls.Load())
}

func TestSearchSurface(t *testing.T) {
	var searchCalls atomic.Int32
	srv := setupServer(t, "sk-e2e", &searchCalls)

	// Missing q is the caller's error.
	resp := getJSON(t, srv.URL+"/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var ok struct {
		Total   int                `json:"total"`
		Results []core.ModelRecord `json:"results"`
	}
	resp = getJSON(t, srv.URL+"/v1/search?q=tower", &ok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, ok.Total)

	// Unlike resolve, a zero-match search surfaces as 404.
	var errBody struct {
		Error string `json:"error"`
	}
	resp = getJSON(t, srv.URL+"/v1/search?q=xyzzy", &errBody)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No models found for that query", errBody.Error)
}

func TestCacheAdministration(t *testing.T) {
	var searchCalls atomic.Int32
	srv := setupServer(t, "sk-e2e", &searchCalls)

	getJSON(t, srv.URL+"/v1/resolve?prompt=wizard+tower", nil)

	var stats struct {
		Entries  int `json:"entries"`
		Capacity int `json:"capacity"`
	}
	getJSON(t, srv.URL+"/v1/cache/stats", &stats)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, cache.DefaultCapacity, stats.Capacity)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/cache", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getJSON(t, srv.URL+"/v1/cache/stats", &stats)
	assert.Equal(t, 0, stats.Entries)

	// The next resolve misses the cache and reaches the provider again.
	before := searchCalls.Load()
	var body struct {
		Source string `json:"source"`
	}
	getJSON(t, srv.URL+"/v1/resolve?prompt=wizard+tower", &body)
	assert.Equal(t, "provider", body.Source)
	assert.Equal(t, before+1, searchCalls.Load())
}
