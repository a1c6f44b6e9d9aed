// Package middleware provides the HTTP instrumentation of the user form
// server.
//
// This package includes:
//   - OpenTelemetry tracing middleware for chi routers
//   - Prometheus metrics for requests, listing fetches, submissions and
//     live sessions
//
// # OpenTelemetry Middleware
//
// Every request gets a server span named after its route pattern. The span
// is available to handlers through the request context.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("userform"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// The tracer uses the global OpenTelemetry tracer provider.
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithNamespace("userform"))
//	r.Use(m.Handler)
//	client := resource.NewClient(resource.WithObserver(m.ObserveFetch))
//
//	// Expose metrics endpoint
//	r.Handle("/metrics", promhttp.Handler())
package middleware
