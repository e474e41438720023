package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Brief.Timeframe != "48 hours" {
		t.Errorf("timeframe = %q, want 48 hours", cfg.Brief.Timeframe)
	}
	if cfg.Brief.RefreshIntervalHours != 24 {
		t.Errorf("refresh interval = %d, want 24", cfg.Brief.RefreshIntervalHours)
	}
	if cfg.Brief.MinRequestInterval != "2s" {
		t.Errorf("min request interval = %q, want 2s", cfg.Brief.MinRequestInterval)
	}
	if cfg.Alerts.MinEngagementRate != 0.02 {
		t.Errorf("min engagement rate = %v, want 0.02", cfg.Alerts.MinEngagementRate)
	}
	if cfg.Alerts.ViewSpike != 100000 {
		t.Errorf("view spike = %d, want 100000", cfg.Alerts.ViewSpike)
	}
	if cfg.Cache.TTL.Comments != "24h" {
		t.Errorf("comment TTL = %q, want 24h", cfg.Cache.TTL.Comments)
	}
	if cfg.Server.Addr != "localhost:8484" {
		t.Errorf("server addr = %q, want localhost:8484", cfg.Server.Addr)
	}
	// Demo mode: an empty API key is valid configuration.
	if cfg.AI.Gemini.APIKey != "" {
		t.Errorf("expected empty API key by default, got %q", cfg.AI.Gemini.APIKey)
	}
}

func TestLoad_EnvAPIKeys(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("GEMINI_API_KEY", "test-gemini-key")
	t.Setenv("YOUTUBE_API_KEY", "test-youtube-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AI.Gemini.APIKey != "test-gemini-key" {
		t.Errorf("gemini key = %q, want the env value", cfg.AI.Gemini.APIKey)
	}
	if cfg.YouTube.APIKey != "test-youtube-key" {
		t.Errorf("youtube key = %q, want the env value", cfg.YouTube.APIKey)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "trendlens.yaml")
	content := []byte(`
brief:
  timeframe: "7 days"
  refresh_interval_hours: 6
youtube:
  channels:
    - "@techied"
    - "UCabc123"
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Brief.Timeframe != "7 days" {
		t.Errorf("timeframe = %q, want 7 days", cfg.Brief.Timeframe)
	}
	if cfg.Brief.RefreshIntervalHours != 6 {
		t.Errorf("refresh interval = %d, want 6", cfg.Brief.RefreshIntervalHours)
	}
	if len(cfg.YouTube.Channels) != 2 {
		t.Errorf("channels = %v, want 2 entries", cfg.YouTube.Channels)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "trendlens.yaml")
	if err := os.WriteFile(path, []byte("brief:\n  min_request_interval: \"not-a-duration\"\n"), 0644); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoad_InvalidRefreshInterval(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "trendlens.yaml")
	if err := os.WriteFile(path, []byte("brief:\n  refresh_interval_hours: 0\n"), 0644); err != nil {
		t.Fatalf("writing config file failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for non-positive refresh interval")
	}
}

func TestDurationHelpers(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, err := Load(""); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := RefreshInterval(); got != 24*time.Hour {
		t.Errorf("RefreshInterval() = %v, want 24h", got)
	}
	if got := MinRequestInterval(); got != 2*time.Second {
		t.Errorf("MinRequestInterval() = %v, want 2s", got)
	}
}
