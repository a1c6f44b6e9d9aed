package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/userform/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaultsAreValid(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.StaleTime != 0 {
		t.Errorf("StaleTime = %v, want 0 (valid until invalidated)", cfg.StaleTime.Std())
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "userform.json", `{
		"addr": ":9090",
		"staleTime": "5m",
		"fetchTimeout": "3s",
		"logFormat": "json"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.StaleTime.Std() != 5*time.Minute {
		t.Errorf("StaleTime = %v", cfg.StaleTime.Std())
	}
	if cfg.FetchTimeout.Std() != 3*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout.Std())
	}
	if cfg.Endpoint != DefaultEndpoint {
		t.Errorf("unset keys keep defaults, Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Path() != path {
		t.Errorf("Path = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "userform.yaml", "addr: \":7070\"\ncacheTTL: 30s\nredisAddr: 127.0.0.1:6379\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7070" || cfg.CacheTTL.Std() != 30*time.Second || cfg.RedisAddr != "127.0.0.1:6379" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "userform.json", `{"addr": ":9090", "logLevel": "warn"}`)
	t.Setenv("USERFORM_ADDR", ":6060")
	t.Setenv("USERFORM_STALE_TIME", "1m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":6060" {
		t.Errorf("env should win, Addr = %q", cfg.Addr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("file value without env override should stay, LogLevel = %q", cfg.LogLevel)
	}
	if cfg.StaleTime.Std() != time.Minute {
		t.Errorf("StaleTime = %v", cfg.StaleTime.Std())
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
	}{
		{"bad json", `{"addr":`, errors.CodeConfigLoad},
		{"bad duration", `{"fetchTimeout": "soon"}`, errors.CodeConfigLoad},
		{"bad endpoint", `{"endpoint": "not a url"}`, errors.CodeConfigInvalid},
		{"bad log level", `{"logLevel": "loud"}`, errors.CodeConfigInvalid},
		{"bad redis addr", `{"redisAddr": "nohost"}`, errors.CodeConfigInvalid},
		{"bad metrics path", `{"metricsPath": "metrics"}`, errors.CodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "userform.json", tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.CodeOf(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestValidateReportsFields(t *testing.T) {
	cfg := New()
	cfg.FetchTimeout = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if _, ok := e.Fields["FetchTimeout"]; !ok {
		t.Errorf("FetchTimeout missing from %v", e.Fields)
	}
	if _, ok := e.Fields["LogFormat"]; !ok {
		t.Errorf("LogFormat missing from %v", e.Fields)
	}
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if errors.CodeOf(err) != errors.CodeConfigLoad {
		t.Errorf("err = %v", err)
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := New()
	for level, want := range map[string]string{"debug": "DEBUG", "info": "INFO", "warn": "WARN", "error": "ERROR"} {
		cfg.LogLevel = level
		if got := cfg.SlogLevel().String(); got != want {
			t.Errorf("%s -> %s, want %s", level, got, want)
		}
	}
}

func TestCacheStore(t *testing.T) {
	tests := []struct {
		name  string
		store string
		redis string
		want  string
	}{
		{"default", "", "", CacheNone},
		{"redis address", "", "127.0.0.1:6379", CacheRedis},
		{"memory", CacheMemory, "", CacheMemory},
		{"memory wins over address", CacheMemory, "127.0.0.1:6379", CacheMemory},
		{"disabled", CacheNone, "127.0.0.1:6379", CacheNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.CacheStore = tt.store
			cfg.RedisAddr = tt.redis
			if err := cfg.Validate(); err != nil {
				t.Fatal(err)
			}
			if got := cfg.Cache(); got != tt.want {
				t.Errorf("Cache() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheStoreInvalid(t *testing.T) {
	cfg := New()
	cfg.CacheStore = "disk"
	if errors.CodeOf(cfg.Validate()) != errors.CodeConfigInvalid {
		t.Error("unknown store should be rejected")
	}

	cfg.CacheStore = CacheRedis
	if errors.CodeOf(cfg.Validate()) != errors.CodeConfigInvalid {
		t.Error("redis store without an address should be rejected")
	}
}
