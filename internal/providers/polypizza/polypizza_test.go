package polypizza

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sceneforge/internal/core"
	"sceneforge/internal/providers"
)

func newTestAdapter(t *testing.T, apiKey string, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(providers.Options{
		APIKey:     apiKey,
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
}

func TestSearch(t *testing.T) {
	var gotReq *http.Request
	adapter := newTestAdapter(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total": 3,
			"results": [
				{
					"ID": "abc123",
					"Title": "Low Poly Car",
					"Attribution": "Car by Quaternius",
					"Thumbnail": "https://static.poly.pizza/t/abc123.webp",
					"Download": "https://static.poly.pizza/abc123.glb",
					"Tri Count": 1520,
					"Creator": {"Username": "Quaternius", "DPURL": "https://poly.pizza/u/Quaternius"},
					"Category": "Transport",
					"Tags": ["car", "vehicle"],
					"Licence": "CC0",
					"Animated": false
				},
				{
					"ID": "no-download",
					"Title": "Broken Asset",
					"Download": ""
				},
				{
					"ID": "sparse",
					"Download": "https://static.poly.pizza/sparse.glb"
				}
			]
		}`))
	})

	records, err := adapter.Search(context.Background(), core.SearchQuery{
		Keywords: "red car",
		Category: "transport",
		Animated: true,
		Limit:    5,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotReq.URL.Path != "/search/red car" {
		t.Errorf("path = %q", gotReq.URL.Path)
	}
	if got := gotReq.Header.Get("x-auth-token"); got != "test-key" {
		t.Errorf("x-auth-token = %q", got)
	}
	q := gotReq.URL.Query()
	if q.Get("Limit") != "5" || q.Get("Category") != "4" || q.Get("Animated") != "1" {
		t.Errorf("query = %q", gotReq.URL.RawQuery)
	}

	// The result without a download URL is dropped; the rest survive.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	car := records[0]
	if car.ID != "abc123" || car.Title != "Low Poly Car" || car.Creator != "Quaternius" {
		t.Errorf("first record = %+v", car)
	}
	if car.TriCount != 1520 {
		t.Errorf("TriCount = %d", car.TriCount)
	}

	// Sparse provider data comes back with the documented defaults.
	sparse := records[1]
	if sparse.Title != "Unknown" || sparse.Attribution != "Unknown" || sparse.Creator != "Unknown" || sparse.Category != "Unknown" {
		t.Errorf("sparse record not defaulted: %+v", sparse)
	}
	if sparse.Tags == nil || len(sparse.Tags) != 0 {
		t.Errorf("sparse Tags = %v, want empty slice", sparse.Tags)
	}
}

func TestSearchUnknownCategoryOmitted(t *testing.T) {
	var rawQuery string
	adapter := newTestAdapter(t, "k", func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"total":1,"results":[{"ID":"x","Download":"https://static.poly.pizza/x.glb"}]}`))
	})

	_, err := adapter.Search(context.Background(), core.SearchQuery{Keywords: "thing", Category: "not-a-category", Limit: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if rawQuery != "Limit=3" {
		t.Errorf("query = %q, want Limit only", rawQuery)
	}
}

func TestSearchEmptyResult(t *testing.T) {
	adapter := newTestAdapter(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0,"results":[]}`))
	})

	_, err := adapter.Search(context.Background(), core.SearchQuery{Keywords: "xyzzy"})
	if !core.IsEmptyResult(err) {
		t.Errorf("want empty-result error, got %v", err)
	}
}

func TestSearchAllResultsUnusable(t *testing.T) {
	// Results exist but none has a download URL: same as finding nothing.
	adapter := newTestAdapter(t, "k", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":1,"results":[{"ID":"x","Title":"No File"}]}`))
	})

	_, err := adapter.Search(context.Background(), core.SearchQuery{Keywords: "thing"})
	if !core.IsEmptyResult(err) {
		t.Errorf("want empty-result error, got %v", err)
	}
}

func TestSearchMissingCredential(t *testing.T) {
	called := false
	adapter := newTestAdapter(t, "", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := adapter.Search(context.Background(), core.SearchQuery{Keywords: "car"})
	if !core.IsConfigurationMissing(err) {
		t.Errorf("want configuration error, got %v", err)
	}
	if called {
		t.Error("no request may leave the process without a credential")
	}
	if adapter.Configured() {
		t.Error("Configured() = true without a key")
	}
}

func TestSearchUpstreamError(t *testing.T) {
	adapter := newTestAdapter(t, "k", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"upstream exploded"}`))
	})

	_, err := adapter.Search(context.Background(), core.SearchQuery{Keywords: "car"})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *core.ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T", err)
	}
	if re.Type != core.ErrorTypeTransport || re.StatusCode != http.StatusInternalServerError {
		t.Errorf("got %+v", re)
	}
	if re.Message != "upstream exploded" {
		t.Errorf("Message = %q, want provider body message", re.Message)
	}
}
