package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// withTempConfig points ConfigPath at a temp location for the test.
func withTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	orig := ConfigPath
	ConfigPath = func() string { return path }
	t.Cleanup(func() { ConfigPath = orig })
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withTempConfig(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.APIBaseURL != def.APIBaseURL {
		t.Errorf("APIBaseURL = %q, want default %q", cfg.APIBaseURL, def.APIBaseURL)
	}
	if cfg.RequestTimeout != def.RequestTimeout {
		t.Errorf("RequestTimeout = %v, want default %v", cfg.RequestTimeout, def.RequestTimeout)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	withTempConfig(t)

	cfg := &Config{
		APIBaseURL:     "https://notes.example.com",
		ListenAddr:     "127.0.0.1:4000",
		LogFile:        "/tmp/roamweb-test.log",
		RequestTimeout: 5 * time.Second,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIBaseURL != cfg.APIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", loaded.APIBaseURL, cfg.APIBaseURL)
	}
	if loaded.ListenAddr != cfg.ListenAddr {
		t.Errorf("ListenAddr = %q, want %q", loaded.ListenAddr, cfg.ListenAddr)
	}
	if loaded.RequestTimeout != cfg.RequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", loaded.RequestTimeout, cfg.RequestTimeout)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	path := withTempConfig(t)
	raw := `{"api_base_url":"http://localhost:8080","listen_addr":"127.0.0.1:3000","log_file":"/tmp/x.log","request_timeout":"not-a-duration"}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "request_timeout") {
		t.Errorf("expected timeout parse error, got %v", err)
	}
}

func TestLoadDefaultTimeoutWhenOmitted(t *testing.T) {
	path := withTempConfig(t)
	raw := `{"api_base_url":"http://localhost:8080","listen_addr":"127.0.0.1:3000","log_file":"/tmp/x.log"}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s default", cfg.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "empty api url",
			mutate:  func(c *Config) { c.APIBaseURL = "" },
			wantErr: "api_base_url",
		},
		{
			name:    "relative api url",
			mutate:  func(c *Config) { c.APIBaseURL = "/just/a/path" },
			wantErr: "absolute URL",
		},
		{
			name:    "empty listen addr",
			mutate:  func(c *Config) { c.ListenAddr = "" },
			wantErr: "listen_addr",
		},
		{
			name:    "empty log file",
			mutate:  func(c *Config) { c.LogFile = "" },
			wantErr: "log_file",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: "request_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate failed: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
