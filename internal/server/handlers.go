package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"sceneforge/internal/cache"
	"sceneforge/internal/core"
	"sceneforge/internal/providers"
	"sceneforge/internal/resolver"
	"sceneforge/internal/version"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	resolver *resolver.Resolver
	searcher providers.Searcher
	store    cache.Store
	capacity int
	logger   *slog.Logger
}

// NewHandler creates a handler backed by the given pipeline components.
func NewHandler(r *resolver.Resolver, searcher providers.Searcher, store cache.Store, capacity int, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity <= 0 {
		capacity = cache.DefaultCapacity
	}
	return &Handler{
		resolver: r,
		searcher: searcher,
		store:    store,
		capacity: capacity,
		logger:   logger,
	}
}

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
}

// Health reports liveness plus whether the search provider has credentials.
// A missing credential is reported, not treated as unhealthy: the pipeline
// still serves fallback assets without one.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    version.Version,
		Provider:   h.searcher.Name(),
		Configured: h.resolver.Configured(),
	})
}

type resolveResponse struct {
	Models []core.ModelRecord `json:"models"`
	Source string             `json:"source"`
}

// Resolve runs the full prompt-to-models pipeline. It always answers 200
// with at least one record; degraded lookups surface through the source field.
func (h *Handler) Resolve(c echo.Context) error {
	prompt := c.QueryParam("prompt")

	opts := resolver.Options{
		Limit:    parseIntParam(c, "limit", 0),
		Category: c.QueryParam("category"),
	}
	if v := c.QueryParam("animated"); v != "" {
		opts.Animated, _ = strconv.ParseBool(v)
	}

	result := h.resolver.ResolveModelsForPrompt(c.Request().Context(), prompt, opts)

	return c.JSON(http.StatusOK, resolveResponse{
		Models: result.Records,
		Source: string(result.Source),
	})
}

type searchResponse struct {
	Total   int                `json:"total"`
	Results []core.ModelRecord `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Search queries the provider directly, bypassing cache and fallback. Unlike
// Resolve it surfaces provider failures to the caller.
func (h *Handler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing query parameter: q"})
	}

	query := core.SearchQuery{
		RawPrompt: q,
		Keywords:  q,
		Category:  c.QueryParam("category"),
		Limit:     parseIntParam(c, "limit", 0),
	}
	if v := c.QueryParam("animated"); v != "" {
		query.Animated, _ = strconv.ParseBool(v)
	}

	records, err := h.searcher.Search(c.Request().Context(), query.Normalized())
	if err != nil {
		if core.IsEmptyResult(err) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "No models found for that query"})
		}

		h.logger.Error("provider search failed", "provider", h.searcher.Name(), "error", err)

		status := http.StatusBadGateway
		var resolveErr *core.ResolveError
		if errors.As(err, &resolveErr) {
			status = resolveErr.HTTPStatusCode()
		}
		return c.JSON(status, errorResponse{Error: "Model search failed"})
	}

	return c.JSON(http.StatusOK, searchResponse{
		Total:   len(records),
		Results: records,
	})
}

type cacheStatsResponse struct {
	Entries  int `json:"entries"`
	Capacity int `json:"capacity"`
}

// CacheStats reports the current cache occupancy.
func (h *Handler) CacheStats(c echo.Context) error {
	return c.JSON(http.StatusOK, cacheStatsResponse{
		Entries:  h.store.Len(),
		Capacity: h.capacity,
	})
}

// CacheClear drops all cached results.
func (h *Handler) CacheClear(c echo.Context) error {
	h.store.Clear(c.Request().Context())
	h.logger.Info("cache cleared")
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func parseIntParam(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
