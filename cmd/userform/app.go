package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/vango-dev/userform/internal/config"
	"github.com/vango-dev/userform/internal/pokeapi"
	"github.com/vango-dev/userform/internal/userform"
	"github.com/vango-dev/userform/pkg/features/resource"
)

// app holds what every command needs: configuration, logger and the
// cached listing.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	client  *resource.Client
	listing *userform.Listing
	closers []func() error
}

func newApp(ctx context.Context, configPath string, logOut io.Writer, observe func(resource.FetchEvent)) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := cfg.NewLogger(logOut)
	a := &app{cfg: cfg, logger: logger}

	opts := []resource.ClientOption{resource.WithLogger(logger)}
	if observe != nil {
		opts = append(opts, resource.WithObserver(observe))
	}
	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		if closeStore != nil {
			a.closers = append(a.closers, closeStore)
		}
		opts = append(opts, resource.WithStore(store, cfg.CacheTTL.Std()))
		logger.Info("listing cache enabled", "store", cfg.Cache(), "ttl", cfg.CacheTTL.Std())
	}

	source := pokeapi.New(cfg.Endpoint,
		pokeapi.WithTimeout(cfg.FetchTimeout.Std()),
		pokeapi.WithLogger(logger),
	)
	a.client = resource.NewClient(opts...)
	a.listing = userform.NewListing(a.client, source, cfg.StaleTime.Std())
	return a, nil
}

// newStore returns the configured listing cache, or nil for none. The
// returned func, when not nil, releases the store's connection.
func newStore(ctx context.Context, cfg *config.Config) (resource.Store, func() error, error) {
	switch cfg.Cache() {
	case config.CacheMemory:
		m := resource.NewMemoryStore()
		return m, m.Close, nil
	case config.CacheRedis:
		rdb, err := resource.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return resource.NewRedisStore(rdb), rdb.Close, nil
	default:
		return nil, nil, nil
	}
}

// Close stops pending fetches and releases connections.
func (a *app) Close() {
	a.client.Close()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}
