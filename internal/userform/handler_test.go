package userform

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/userform/internal/config"
	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/pkg/features/form"
)

type recordingObserver struct {
	mu     sync.Mutex
	values []form.Values
}

func (o *recordingObserver) Submitted(_ context.Context, v form.Values) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values = append(o.values, v)
}

func (o *recordingObserver) all() []form.Values {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]form.Values(nil), o.values...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, l *Listing, observer Observer, mutate ...func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.New()
	cfg.RateLimit = 0
	for _, m := range mutate {
		m(cfg)
	}
	s := NewServer(cfg, l, WithObserver(observer), WithLogger(quietLogger()))
	ts := httptest.NewServer(s)
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestGetPage(t *testing.T) {
	s, _ := newTestServer(t, readyListing(t), &recordingObserver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", "<title>User form</title>", `<form action="/"`, `new WebSocket(scheme + location.host + "/live")`, ".form-container"} {
		if !strings.Contains(body, want) {
			t.Errorf("page lacks %q", want)
		}
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value == "" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	if s.Sessions().Len() != 1 {
		t.Errorf("sessions = %d", s.Sessions().Len())
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestGetPageReusesSession(t *testing.T) {
	s, ts := newTestServer(t, readyListing(t), &recordingObserver{})
	browser := newBrowser(t)

	for i := 0; i < 3; i++ {
		resp, err := browser.Get(ts.URL + "/")
		if err != nil {
			t.Fatal(err)
		}
		readBody(t, resp)
	}
	if s.Sessions().Len() != 1 {
		t.Errorf("one browser should keep one session, got %d", s.Sessions().Len())
	}
}

func TestGetPageStartsFetch(t *testing.T) {
	src := &fakeSource{records: testRecords(), gate: make(chan struct{})}
	l := newListing(t, src)
	s, _ := newTestServer(t, l, &recordingObserver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "Loading...") {
		t.Fatalf("expected loading page:\n%s", rec.Body.String())
	}

	close(src.gate)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.calls.Load() != 1 {
		t.Errorf("source calls = %d", src.calls.Load())
	}
}

func postForm(t *testing.T, browser *http.Client, ts *httptest.Server, values url.Values) (int, string) {
	t.Helper()
	resp, err := browser.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)

	resp, err = browser.PostForm(ts.URL+"/", values)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp)
}

func TestPostSubmit(t *testing.T) {
	obs := &recordingObserver{}
	_, ts := newTestServer(t, readyListing(t), obs)

	status, _ := postForm(t, newBrowser(t), ts, url.Values{
		FieldPokemonFan:  {"true"},
		FieldAddress:     {"Main St"},
		FieldDescription: {"likes grass types"},
		FieldSelect:      {"1"},
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	want := []form.Values{{
		FieldPokemonFan:  "true",
		FieldAddress:     "Main St",
		FieldDescription: "likes grass types",
		FieldSelect:      1,
		FieldPokemon:     testRecords()[0],
	}}
	if diff := cmp.Diff(want, obs.all()); diff != "" {
		t.Errorf("submissions (-want +got):\n%s", diff)
	}
}

func TestPostRejected(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   string
	}{
		{
			name:   "invalid",
			values: url.Values{FieldAddress: {" "}, FieldSelect: {"2"}},
			want:   "Address is required",
		},
		{
			name:   "unselected",
			values: url.Values{FieldSelect: {""}},
			want:   "Please select an option.",
		},
		{
			name:   "not a fan",
			values: url.Values{FieldPokemonFan: {"false"}, FieldSelect: {"2"}},
			want:   `<button class="submit-button" disabled type="submit">`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			_, ts := newTestServer(t, readyListing(t), obs)

			status, body := postForm(t, newBrowser(t), ts, tt.values)
			if status != http.StatusUnprocessableEntity {
				t.Errorf("status = %d", status)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body lacks %q", tt.want)
			}
			if n := len(obs.all()); n != 0 {
				t.Errorf("observer called %d times", n)
			}
		})
	}
}

func TestPostBeforeListingReady(t *testing.T) {
	src := &fakeSource{records: testRecords(), gate: make(chan struct{})}
	defer close(src.gate)
	_, ts := newTestServer(t, newListing(t, src), &recordingObserver{})

	status, body := postForm(t, newBrowser(t), ts, url.Values{FieldAddress: {"x"}})
	if status != http.StatusConflict {
		t.Errorf("status = %d", status)
	}
	if !strings.Contains(body, "Loading...") {
		t.Errorf("body should show the loading page:\n%s", body)
	}
}

func TestPostWithoutSession(t *testing.T) {
	obs := &recordingObserver{}
	_, ts := newTestServer(t, readyListing(t), obs)

	resp, err := newBrowser(t).PostForm(ts.URL+"/", url.Values{
		FieldAddress: {"Main St"},
		FieldSelect:  {"3"},
	})
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := obs.all()
	if len(got) != 1 || got[0][FieldAddress] != "Main St" || got[0][FieldPokemon] != testRecords()[2] {
		t.Errorf("submissions = %v", got)
	}
}

func TestPostWhileListingFailed(t *testing.T) {
	obs := &recordingObserver{}
	src := &fakeSource{records: testRecords()}
	l := newListing(t, src)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, ts := newTestServer(t, l, obs)
	browser := newBrowser(t)

	if status, _ := postForm(t, browser, ts, url.Values{FieldSelect: {"1"}}); status != http.StatusOK {
		t.Fatalf("first submit status = %d", status)
	}

	src.set(nil, errors.New(errors.CodeFetchStatus))
	l.Refetch()
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("expected refetch error")
	}

	resp, err := browser.PostForm(ts.URL+"/", url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if strings.Contains(body, "<form") {
		t.Errorf("no form while the listing failed:\n%s", body)
	}
	if n := len(obs.all()); n != 1 {
		t.Errorf("observer called %d times, want only the first submit", n)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, readyListing(t), &recordingObserver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" || got["listing"] != "ready" {
		t.Errorf("healthz = %v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, readyListing(t), &recordingObserver{}, func(c *config.Config) {
		c.MetricsPath = "/internal/metrics"
	})

	s.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `userform_http_requests_total{method="GET",route="/",status="200"} 1`) {
		t.Errorf("metrics lack the page request:\n%s", rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, readyListing(t), &recordingObserver{}, func(c *config.Config) {
		c.RateLimit = 2
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		s.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if diff := cmp.Diff([]int{200, 200, 429}, codes); diff != "" {
		t.Errorf("status codes (-want +got):\n%s", diff)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz is not rate limited, got %d", rec.Code)
	}
}
