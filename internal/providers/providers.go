// Package providers defines the provider-adapter contract for external
// 3D-asset search services and the registry used to select one by
// configuration.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"sceneforge/internal/core"
)

// Searcher is the capability every provider adapter implements. Search
// returns normalized records or an error; adapters never swallow transport
// failures — classifying and recovering them is the resolver's job.
type Searcher interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// Search queries the provider and normalizes its response. It returns a
	// *core.ResolveError for credential, transport, and decode failures, and
	// never returns an empty slice with a nil error.
	Search(ctx context.Context, q core.SearchQuery) ([]core.ModelRecord, error)
}

// Options carries the per-provider construction settings.
type Options struct {
	// APIKey is the provider credential. Empty is allowed: the adapter then
	// reports configuration_missing on every search instead of crashing.
	APIKey string

	// BaseURL overrides the provider's default endpoint (used by tests).
	BaseURL string

	// HTTPClient overrides the default pooled client (used by tests).
	HTTPClient *http.Client

	// SearchTimeout bounds the search call.
	SearchTimeout time.Duration

	// DownloadTimeout bounds each per-candidate download-URL lookup for
	// providers that need a second hop.
	DownloadTimeout time.Duration
}

// Builder creates a provider adapter from options.
type Builder func(opts Options) Searcher

// registry holds all registered provider builders. Provider packages add
// themselves from init().
var registry = make(map[string]Builder)

// Register makes a provider type available to Create.
func Register(providerType string, builder Builder) {
	registry[providerType] = builder
}

// Create instantiates the adapter for the given provider type.
func Create(providerType string, opts Options) (Searcher, error) {
	builder, ok := registry[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
	return builder(opts), nil
}

// ListRegistered returns all registered provider types, sorted.
func ListRegistered() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
