// Package app wires configuration, cache, provider and resolver into a
// runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"sceneforge/config"
	"sceneforge/internal/cache"
	"sceneforge/internal/httpclient"
	"sceneforge/internal/observability"
	"sceneforge/internal/providers"
	"sceneforge/internal/resolver"
	"sceneforge/internal/server"
)

// App holds the assembled service components.
type App struct {
	Config   *config.Config
	Store    cache.Store
	Searcher providers.Searcher
	Resolver *resolver.Resolver
	Server   *server.Server

	logger *slog.Logger
}

// New assembles the service from configuration. A missing provider
// credential does not fail assembly; the resolver degrades to fallback
// assets until one is supplied.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	searcher, err := providers.Create(cfg.Provider.Type, providers.Options{
		APIKey:          cfg.Provider.APIKey(),
		HTTPClient:      httpclient.NewDefaultHTTPClient(),
		SearchTimeout:   cfg.Provider.SearchTimeout,
		DownloadTimeout: cfg.Provider.DownloadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider %q: %w", cfg.Provider.Type, err)
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	res := resolver.New(store, searcher, metrics, logger)

	if !res.Configured() {
		logger.Warn("provider credential missing, serving fallback assets only",
			"provider", cfg.Provider.Type)
	}

	handler := server.NewHandler(res, searcher, store, cfg.Cache.Capacity, logger)
	srv := server.New(handler, &server.Config{MetricsEnabled: true})

	return &App{
		Config:   cfg,
		Store:    store,
		Searcher: searcher,
		Resolver: res,
		Server:   srv,
		logger:   logger,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	addr := ":" + a.Config.Server.Port
	a.logger.Info("starting server",
		"addr", addr,
		"provider", a.Searcher.Name(),
		"configured", a.Resolver.Configured())
	return a.Server.Start(addr)
}

// Shutdown stops the server and releases the cache backend.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	if cerr := a.Store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newStore(cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.Cache.RedisURL == "" {
		return cache.NewMemoryStore(cfg.Cache.TTL, cfg.Cache.Capacity), nil
	}
	store, err := cache.NewRedisStore(cfg.Cache.RedisURL, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Info("using redis cache backend")
	return store, nil
}
