package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestManager_LoadDefaults(t *testing.T) {
	path := writeConfig(t, "gsc:\n  sites:\n    - https://example.com\n")

	cfg, err := NewManager().Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.GSC.RateLimit != 10 {
		t.Errorf("Expected default rate limit 10, got %d", cfg.GSC.RateLimit)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Expected memory backend default, got %s", cfg.Cache.Backend)
	}
	if cfg.Cache.TTLMinutes != 60 {
		t.Errorf("Expected 60 minute TTL default, got %d", cfg.Cache.TTLMinutes)
	}
	if len(cfg.GSC.Sites) != 1 || cfg.GSC.Sites[0] != "https://example.com" {
		t.Errorf("Sites not loaded: %v", cfg.GSC.Sites)
	}
}

func TestManager_RejectsBadConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: -1\n"},
		{"bad backend", "cache:\n  backend: memcached\n"},
		{"redis without addr", "cache:\n  backend: redis\n"},
		{"zero rate limit", "gsc:\n  rate_limit: 0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := NewManager().Load(path); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestManager_Reload(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	mgr := NewManager()
	if _, err := mgr.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("server:\n  port: 9001\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if err := mgr.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if got := mgr.GetConfig().Server.Port; got != 9001 {
		t.Errorf("Expected reloaded port 9001, got %d", got)
	}
}
