package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
server:
  shared_secret: "s3cret"
hosting:
  token: "ghp_token"
  username: "octo"
`

func TestLoadConfig(t *testing.T) {
	t.Run("minimal config -> defaults applied", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig), false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("unexpected log defaults: %+v", cfg.Log)
		}
		if cfg.Hosting.DefaultBranch != "main" {
			t.Errorf("unexpected hosting defaults: %+v", cfg.Hosting)
		}
		if cfg.Notify.MaxAttempts != 5 || cfg.Notify.InitialDelay != time.Second {
			t.Errorf("unexpected notify defaults: %+v", cfg.Notify)
		}
		if cfg.Worker.Count != 8 || cfg.Worker.QueueSize != 32 {
			t.Errorf("unexpected worker defaults: %+v", cfg.Worker)
		}
	})

	t.Run("missing shared secret -> startup fails", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
hosting:
  token: "ghp_token"
  username: "octo"
`), false)
		if err == nil || !strings.Contains(err.Error(), "shared_secret") {
			t.Fatalf("expected shared_secret error, got %v", err)
		}
	})

	t.Run("missing hosting token -> startup fails", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
server:
  shared_secret: "s3cret"
hosting:
  username: "octo"
`), false)
		if err == nil || !strings.Contains(err.Error(), "hosting.token") {
			t.Fatalf("expected hosting.token error, got %v", err)
		}
	})

	t.Run("dev flag carried into runtime", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, minimalConfig), true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !cfg.Runtime.Dev {
			t.Error("expected dev mode to be set")
		}
	})

	t.Run("unreadable path -> error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
			t.Fatal("expected an error")
		}
	})
}
