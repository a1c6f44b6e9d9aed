package userform

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/secure"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/userform/internal/config"
	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/pkg/middleware"
	"github.com/vango-dev/userform/pkg/render"
)

// SessionCookie carries the session id.
const SessionCookie = "userform_session"

// postedFields are applied in this order on a form post, so the select
// cascade runs after the fields it does not touch.
var postedFields = []string{FieldPokemonFan, FieldAddress, FieldDescription, FieldSelect}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithObserver sets the submission observer. The default logs.
func WithObserver(o Observer) ServerOption {
	return func(s *Server) { s.observer = o }
}

// WithMetrics uses m for instrumentation and serves gatherer on the
// metrics path. Without it the server registers its own collectors on a
// private registry.
func WithMetrics(m *middleware.Metrics, gatherer prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTracerProvider sets the provider of HTTP server spans.
func WithTracerProvider(tp trace.TracerProvider) ServerOption {
	return func(s *Server) { s.tracerProvider = tp }
}

// WithIdleTimeout sets how long unused sessions are kept.
func WithIdleTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.idleTimeout = d }
}

// Server is the HTTP surface of the user form.
type Server struct {
	config         *config.Config
	logger         *slog.Logger
	page           *Page
	sessions       *Sessions
	observer       Observer
	metrics        *middleware.Metrics
	gatherer       prometheus.Gatherer
	tracerProvider trace.TracerProvider
	idleTimeout    time.Duration
	upgrader       websocket.Upgrader
	router         chi.Router
}

// NewServer returns a server rendering listing. Call Close to stop its
// session sweeper.
func NewServer(cfg *config.Config, listing *Listing, opts ...ServerOption) *Server {
	s := &Server{
		config: cfg,
		logger: slog.Default(),
		page:   NewPage(listing),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = LogObserver(s.logger)
	}
	if s.metrics == nil {
		registry := prometheus.NewRegistry()
		s.metrics = middleware.NewMetrics(middleware.WithRegistry(registry))
		s.gatherer = registry
	}

	rendererConfig := render.RendererConfig{Pretty: cfg.Pretty}
	s.sessions = NewSessions(SessionsConfig{
		IdleTimeout: s.idleTimeout,
		New: func(id string) *Session {
			return NewSession(id, s.page, s.observer, rendererConfig)
		},
		OnOpen: func(sess *Session) {
			s.logger.Debug("session opened", "session", sess.ID)
		},
		OnClose: func(sess *Session) {
			s.logger.Debug("session closed", "session", sess.ID)
		},
	}, s.logger)

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	headers := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; connect-src 'self'",
	})

	otelOpts := []middleware.OTelOption{middleware.WithTracerName("userform")}
	if s.tracerProvider != nil {
		otelOpts = append(otelOpts, middleware.WithTracerProvider(s.tracerProvider))
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.OpenTelemetry(otelOpts...))
	r.Use(s.metrics.Handler)
	r.Use(chimw.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := headers.Process(w, r); err != nil {
				s.logger.Warn("secure headers blocked request", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.config.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.config.RateLimit, time.Minute))
		}
		r.Get("/", s.handlePage)
		r.Post("/", s.handleSubmit)
		r.Get("/live", s.handleLive)
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *Sessions { return s.sessions }

// Close stops the session sweeper and drops all sessions.
func (s *Server) Close() {
	s.sessions.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"listing":  s.page.Listing().State().String(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.page.Listing().Fetch()
	s.writeDocument(w, r, sess, http.StatusOK)
}

// handleSubmit serves clients without the live channel: posted values go
// through the same change handlers as live events, then the form submits.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	sess := s.session(w, r)
	s.page.Listing().Fetch()

	for _, name := range postedFields {
		if _, ok := r.PostForm[name]; !ok {
			continue
		}
		if err := sess.Apply(name, r.PostForm.Get(name)); err != nil {
			s.logger.Debug("posted field rejected", "session", sess.ID, "field", name, "error", err)
			s.writeDocument(w, r, sess, http.StatusConflict)
			return
		}
	}

	result, err := sess.Submit(r.Context())
	s.metrics.RecordSubmission(result.Accepted)

	status := http.StatusOK
	switch {
	case errors.CodeOf(err) == errors.CodeNotRendered:
		status = http.StatusConflict
		s.logger.Debug("submit without a form", "session", sess.ID, "error", err)
	case err != nil:
		status = http.StatusUnprocessableEntity
		s.logger.Debug("submit rejected", "session", sess.ID, "code", errors.CodeOf(err))
	}
	s.writeDocument(w, r, sess, status)
}

func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, sess *Session, status int) {
	doc, err := sess.Document(liveScript)
	if err != nil {
		s.logger.Error("render failed", "session", sess.ID, "request_id", chimw.GetReqID(r.Context()), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(doc)
}

// lookup returns the session named by the request cookie, if it is live.
func (s *Server) lookup(r *http.Request) (*Session, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(c.Value)
}

// session returns the request's session, creating one and setting the
// cookie when there is none.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *Session {
	if sess, ok := s.lookup(r); ok {
		return sess
	}
	sess := s.sessions.Create()
	http.SetCookie(w, sessionCookie(r, sess.ID))
	return sess
}

func sessionCookie(r *http.Request, id string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	}
}
