// File: internal/config/config_test.go
package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/suryansh00001/AI-Search/internal/config"
	"github.com/suryansh00001/AI-Search/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "ai:\n  gemini_key: test-key\n")
	cfg, err := config.LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Queue.Workers != 1 {
		t.Errorf("workers = %d", cfg.Queue.Workers)
	}
	if cfg.Queue.MinInterval != 12*time.Second {
		t.Errorf("min_interval = %v", cfg.Queue.MinInterval)
	}
	if cfg.Queue.StreamTimeout != 5*time.Minute {
		t.Errorf("stream_timeout = %v", cfg.Queue.StreamTimeout)
	}
	if cfg.Queue.Retention != time.Minute {
		t.Errorf("retention = %v", cfg.Queue.Retention)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.AI.Model)
	}
	if cfg.AI.MaxRetries != 3 {
		t.Errorf("max_retries = %d", cfg.AI.MaxRetries)
	}
	if cfg.Search.MaxResults != 3 {
		t.Errorf("max_results = %d", cfg.Search.MaxResults)
	}
	if cfg.PDF.MaxChars != 50000 {
		t.Errorf("max_chars = %d", cfg.PDF.MaxChars)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
queue:
  workers: 4
  min_interval: 2s
ai:
  openai_key: k
  model: gpt-4o-mini
`)
	cfg, err := config.LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Queue.Workers != 4 || cfg.Queue.MinInterval != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.AI.Model)
	}
}

func TestLoadConfigRequiresProviderKey(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8000\n")
	if _, err := config.LoadConfig(path, false); !errors.Is(err, domain.ErrConfigMissing) {
		t.Fatalf("err = %v, want ErrConfigMissing", err)
	}
	if _, err := config.LoadConfig(path, true); err != nil {
		t.Fatalf("dev mode should allow missing keys: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
		t.Fatal("expected error for missing file")
	}
}
