package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingProvider hands out tracers that remember every span.
type recordingProvider struct {
	noop.TracerProvider

	mu    sync.Mutex
	spans []*recordedSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return recordingTracer{p: p}
}

func (p *recordingProvider) recorded() []*recordedSpan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*recordedSpan(nil), p.spans...)
}

type recordingTracer struct {
	noop.Tracer
	p *recordingProvider
}

func (t recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{name: name, kind: cfg.SpanKind()}
	s.SetAttributes(cfg.Attributes()...)

	t.p.mu.Lock()
	t.p.spans = append(t.p.spans, s)
	t.p.mu.Unlock()
	return trace.ContextWithSpan(ctx, s), s
}

type recordedSpan struct {
	noop.Span

	name   string
	kind   trace.SpanKind
	attrs  map[attribute.Key]attribute.Value
	status codes.Code
	ended  bool
}

func (s *recordedSpan) SetName(name string) { s.name = name }

func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) {
	if s.attrs == nil {
		s.attrs = make(map[attribute.Key]attribute.Value)
	}
	for _, a := range kv {
		s.attrs[a.Key] = a.Value
	}
}

func (s *recordedSpan) SetStatus(code codes.Code, _ string) { s.status = code }

func (s *recordedSpan) End(...trace.SpanEndOption) { s.ended = true }

func TestOpenTelemetryConfig(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != defaultTracerName || !config.IncludeRoute {
		t.Errorf("defaults = %+v", config)
	}
	WithTracerName("my-app")(&config)
	WithIncludeRoute(false)(&config)
	if config.TracerName != "my-app" || config.IncludeRoute {
		t.Errorf("options not applied: %+v", config)
	}
}

func TestOpenTelemetryTracesRoutes(t *testing.T) {
	tp := &recordingProvider{}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	))
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SpanFromRequest(r).(*recordedSpan); !ok {
			t.Error("handler should see the request span")
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7", nil))

	spans := tp.recorded()
	if len(spans) != 1 {
		t.Fatalf("got %d spans", len(spans))
	}
	s := spans[0]
	if s.name != "GET /users/{id}" {
		t.Errorf("span name = %q", s.name)
	}
	if s.kind != trace.SpanKindServer {
		t.Errorf("kind = %v", s.kind)
	}
	if s.attrs["http.route"].AsString() != "/users/{id}" || s.attrs["http.target"].AsString() != "/users/7" {
		t.Errorf("attrs = %v", s.attrs)
	}
	if s.attrs["http.status_code"].AsInt64() != 500 || s.status != codes.Error {
		t.Errorf("status = %v / %v", s.attrs["http.status_code"], s.status)
	}
	if s.attrs["test.attr"].AsString() != "ok" {
		t.Error("custom attributes missing")
	}
	if s.attrs["http.request_id"].AsString() == "" {
		t.Error("request id missing")
	}
	if !s.ended {
		t.Error("span not ended")
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	tp := &recordingProvider{}
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
	)

	called := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Error("filtered request must still reach the handler")
	}
	if len(tp.recorded()) != 0 {
		t.Error("filtered request must not be traced")
	}
}
