package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/userform/internal/errors"
)

const (
	// DefaultEndpoint is the public listing.
	DefaultEndpoint = "https://pokeapi.co/api/v2/pokemon/"

	// DefaultTimeout bounds one request.
	DefaultTimeout = 10 * time.Second

	tracerName = "userform/pokeapi"

	// maxBody caps the decoded response size.
	maxBody = 4 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client reads the listing endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a Client for endpoint; an empty endpoint uses DefaultEndpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	c.tracer = otel.Tracer(tracerName)
	return c
}

// Endpoint returns the listing URL.
func (c *Client) Endpoint() string { return c.endpoint }

// List fetches the listing once. No retry is attempted.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	ctx, span := c.tracer.Start(ctx, "pokeapi.list",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", c.endpoint)),
	)
	defer span.End()

	records, err := c.list(ctx, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("listing fetch failed", "endpoint", c.endpoint, "error", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("pokeapi.records", len(records)))
	span.SetStatus(codes.Ok, "")
	return records, nil
}

func (c *Client) list(ctx context.Context, span trace.Span) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errors.New(errors.CodeFetchTransport).Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New(errors.CodeFetchTransport).Wrap(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, errors.New(errors.CodeFetchStatus).
			WithDetail(fmt.Sprintf("GET %s answered %s", c.endpoint, resp.Status))
	}

	var body listing
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&body); err != nil {
		return nil, errors.New(errors.CodeFetchDecode).Wrap(err)
	}
	if body.Results == nil {
		return nil, errors.New(errors.CodeFetchDecode).
			WithDetail("response has no results array")
	}

	c.logger.Debug("listing fetched", "endpoint", c.endpoint, "count", body.Count, "results", len(body.Results))
	return toRecords(body.Results), nil
}
