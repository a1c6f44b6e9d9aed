package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/userform/internal/userform"
	"github.com/vango-dev/userform/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr   string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the user form over HTTP",
		Long: `Serve the user form.

Routes:
  GET  /         the form page
  POST /         submit without JavaScript
  GET  /live     WebSocket change channel
  GET  /healthz  liveness
  GET  /metrics  prometheus metrics (path configurable)

Examples:
  userform serve
  userform serve --addr=:9000
  USERFORM_REDIS_ADDR=localhost:6379 userform serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, addr, pretty)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent rendered HTML")

	return cmd
}

func runServe(ctx context.Context, configPath, addr string, pretty bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(registry))

	a, err := newApp(ctx, configPath, nil, metrics.ObserveFetch)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr != "" {
		a.cfg.Addr = addr
	}
	if pretty {
		a.cfg.Pretty = true
	}

	// Warm the listing so the first page is usually ready.
	a.listing.Fetch()

	server := userform.NewServer(a.cfg, a.listing,
		userform.WithLogger(a.logger),
		userform.WithMetrics(metrics, registry),
	)
	defer server.Close()

	httpServer := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	success("Listening on %s", a.cfg.Addr)
	info("Listing: %s", a.cfg.Endpoint)
	if p := a.cfg.Path(); p != "" {
		info("Config: %s", p)
	}

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
