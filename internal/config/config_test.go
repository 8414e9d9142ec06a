package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("BACKEND_URL", "http://api.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.BackendURL != "http://api.example.com" {
		t.Errorf("BackendURL = %q; want trailing slash trimmed", cfg.BackendURL)
	}
	if cfg.RefreshBackoff != 2*time.Second {
		t.Errorf("RefreshBackoff = %v", cfg.RefreshBackoff)
	}
	if cfg.CalorieFormula != "mifflin" {
		t.Errorf("CalorieFormula = %q", cfg.CalorieFormula)
	}
	if cfg.BackendTimeout != 0 {
		t.Errorf("BackendTimeout = %v; want transport default", cfg.BackendTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REFRESH_BACKOFF", "500ms")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("BACKEND_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshBackoff != 500*time.Millisecond {
		t.Errorf("RefreshBackoff = %v", cfg.RefreshBackoff)
	}
	if !cfg.LogDev {
		t.Error("LogDev should be true")
	}
	if cfg.BackendTimeout != 0 {
		t.Errorf("invalid duration should fall back, got %v", cfg.BackendTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		store   StoreConfig
		wantErr bool
	}{
		{"memory", StoreConfig{Backend: "memory"}, false},
		{"postgres without url", StoreConfig{Backend: "postgres"}, true},
		{"postgres with url", StoreConfig{Backend: "postgres", DatabaseURL: "postgres://x"}, false},
		{"unknown backend", StoreConfig{Backend: "sqlite"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := &Config{BackendURL: "http://x", Store: tc.store}
			if err := c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tc.wantErr)
			}
		})
	}
}
