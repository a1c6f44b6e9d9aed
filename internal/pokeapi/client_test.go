package pokeapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/userform/internal/errors"
)

const sampleListing = `{
  "count": 1302,
  "next": "https://pokeapi.co/api/v2/pokemon/?offset=3&limit=3",
  "previous": null,
  "results": [
    {"name": "bulbasaur", "url": "https://pokeapi.co/api/v2/pokemon/1/"},
    {"name": "ivysaur", "url": "https://pokeapi.co/api/v2/pokemon/2/"},
    {"name": "venusaur", "url": "https://pokeapi.co/api/v2/pokemon/3/"}
  ]
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestList(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleListing)
	c := New(srv.URL, WithLogger(quietLogger()))

	got, err := c.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []Record{
		{ID: 1, Name: "bulbasaur", URL: "https://pokeapi.co/api/v2/pokemon/1/"},
		{ID: 2, Name: "ivysaur", URL: "https://pokeapi.co/api/v2/pokemon/2/"},
		{ID: 3, Name: "venusaur", URL: "https://pokeapi.co/api/v2/pokemon/3/"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records (-want +got):\n%s", diff)
	}
}

func TestListFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"not found", http.StatusNotFound, `{"detail":"nope"}`, errors.CodeFetchStatus},
		{"server error", http.StatusInternalServerError, ``, errors.CodeFetchStatus},
		{"bad json", http.StatusOK, `{"results": [`, errors.CodeFetchDecode},
		{"no results", http.StatusOK, `{"count": 0}`, errors.CodeFetchDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			records, err := New(srv.URL, WithLogger(quietLogger())).List(context.Background())
			if got := errors.CodeOf(err); got != tt.code {
				t.Fatalf("code = %q, want %q (%v)", got, tt.code, err)
			}
			if records != nil {
				t.Errorf("failed fetch returned %d records", len(records))
			}
		})
	}
}

func TestListStatusMessage(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, "")
	_, err := New(srv.URL, WithLogger(quietLogger())).List(context.Background())

	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %T", err)
	}
	if e.Message != "Network response was not ok" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestListTransportFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, sampleListing)
	url := srv.URL
	srv.Close()

	_, err := New(url, WithLogger(quietLogger())).List(context.Background())
	if errors.CodeOf(err) != errors.CodeFetchTransport {
		t.Errorf("err = %v", err)
	}
}

func TestListTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, WithTimeout(20*time.Millisecond), WithLogger(quietLogger()))
	if _, err := c.List(context.Background()); errors.CodeOf(err) != errors.CodeFetchTransport {
		t.Errorf("err = %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	if New("").Endpoint() != DefaultEndpoint {
		t.Error("empty endpoint should use the default")
	}
	hc := &http.Client{}
	if New("", WithHTTPClient(hc)).http != hc {
		t.Error("WithHTTPClient should be used as is")
	}
}
