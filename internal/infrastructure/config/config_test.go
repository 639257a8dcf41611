package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["btcusdt", " ETHUSDT ", "BTCUSDT", ""]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"BTCUSDT", "ETHUSDT"}
	if len(cfg.Symbols.List) != len(want) {
		t.Fatalf("symbols = %v, want %v", cfg.Symbols.List, want)
	}
	for i := range want {
		if cfg.Symbols.List[i] != want[i] {
			t.Errorf("symbols[%d] = %s, want %s", i, cfg.Symbols.List[i], want[i])
		}
	}

	if cfg.App.PaceMs != 100 {
		t.Errorf("pace_ms default = %d", cfg.App.PaceMs)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("log_level default = %s", cfg.App.LogLevel)
	}
	if cfg.Binance.DepthLimit != 1000 {
		t.Errorf("depth_limit default = %d", cfg.Binance.DepthLimit)
	}
	if cfg.Binance.SpotWsURL != "wss://stream.binance.com:9443" {
		t.Errorf("spot_ws_url default = %s", cfg.Binance.SpotWsURL)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr default = %s", cfg.Redis.Addr)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should stay disabled unless configured")
	}
}

func TestLoadEmptySymbols(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["", "  "]
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty symbol list")
	}
}

func TestLoadDepthLimitCapped(t *testing.T) {
	path := writeConfig(t, `
[symbols]
list = ["BTCUSDT"]

[binance]
depth_limit = 5000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Binance.DepthLimit != 1000 {
		t.Errorf("depth_limit = %d, want capped at 1000", cfg.Binance.DepthLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
