package config

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		PaceMs   int    `toml:"pace_ms"`
		LogLevel string `toml:"log_level"`
	} `toml:"app"`

	Symbols struct {
		List []string `toml:"list"`
	} `toml:"symbols"`

	Binance struct {
		SpotRestURL string `toml:"spot_rest_url"`
		PerpRestURL string `toml:"perp_rest_url"`
		SpotWsURL   string `toml:"spot_ws_url"`
		PerpWsURL   string `toml:"perp_ws_url"`
		DepthLimit  int    `toml:"depth_limit"`
	} `toml:"binance"`

	Redis struct {
		Enabled   bool   `toml:"enabled"`
		Addr      string `toml:"addr"`
		Password  string `toml:"password"`
		DB        int    `toml:"db"`
		KeyPrefix string `toml:"key_prefix"`
		TTLMin    int    `toml:"ttl_min"`
	} `toml:"redis"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.PaceMs <= 0 {
		cfg.App.PaceMs = 100
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.Binance.SpotRestURL == "" {
		cfg.Binance.SpotRestURL = "https://api.binance.com"
	}
	if cfg.Binance.PerpRestURL == "" {
		cfg.Binance.PerpRestURL = "https://dapi.binance.com"
	}
	if cfg.Binance.SpotWsURL == "" {
		cfg.Binance.SpotWsURL = "wss://stream.binance.com:9443"
	}
	if cfg.Binance.PerpWsURL == "" {
		cfg.Binance.PerpWsURL = "wss://dstream.binance.com"
	}
	if cfg.Binance.DepthLimit <= 0 || cfg.Binance.DepthLimit > 1000 {
		cfg.Binance.DepthLimit = 1000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
}

func validate(cfg *Config) error {
	cfg.Symbols.List = normalizeSymbols(cfg.Symbols.List)
	if len(cfg.Symbols.List) == 0 {
		return errors.New("symbols.list is empty")
	}
	return nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
