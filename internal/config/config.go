package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
)

type Server struct {
	Port              string `json:"port" env:"PORT"`
	RequestTimeoutSec int    `json:"request_timeout_sec" env:"REQUEST_TIMEOUT_SEC"`
	LogLevel          string `json:"log_level" env:"LOG_LEVEL"`
	LogFormat         string `json:"log_format" env:"LOG_FORMAT"`
}

type Stocks struct {
	MarketCapURL    string   `json:"market_cap_url" env:"MARKET_CAP_URL"`
	CacheTTLSeconds int      `json:"cache_ttl_sec" env:"STOCKS_CACHE_TTL_SEC"`
	MaxTop          int      `json:"max_top" env:"STOCKS_MAX_TOP"`
	DefaultTop      int      `json:"default_top" env:"STOCKS_DEFAULT_TOP"`
	FallbackSymbols []string `json:"fallback_symbols" env:"STOCKS_FALLBACK_SYMBOLS"`
}

type Crypto struct {
	BaseURL         string `json:"base_url" env:"COINGECKO_BASE_URL"`
	APIKey          string `json:"api_key" env:"COINGECKO_API_KEY"`
	CacheTTLSeconds int    `json:"cache_ttl_sec" env:"CRYPTO_CACHE_TTL_SEC"`
	MaxTop          int    `json:"max_top" env:"CRYPTO_MAX_TOP"`
	DefaultTop      int    `json:"default_top" env:"CRYPTO_DEFAULT_TOP"`
	// MaxRequestsPerMinute paces CoinGecko calls; the free tier allows ~30/min.
	MaxRequestsPerMinute int `json:"max_requests_per_minute" env:"COINGECKO_MAX_RPM"`
	Burst                int `json:"burst" env:"COINGECKO_BURST"`
}

type Yahoo struct {
	BaseURL string `json:"base_url" env:"YAHOO_BASE_URL"`
}

type Config struct {
	Server Server `json:"server"`
	Stocks Stocks `json:"stocks"`
	Crypto Crypto `json:"crypto"`
	Yahoo  Yahoo  `json:"yahoo"`
}

func Default() Config {
	return Config{
		Server: Server{
			Port:              "8080",
			RequestTimeoutSec: 10,
			LogLevel:          "info",
			LogFormat:         "text",
		},
		Stocks: Stocks{
			MarketCapURL:    "https://companiesmarketcap.com/",
			CacheTTLSeconds: 3600,
			MaxTop:          100,
			DefaultTop:      10,
			FallbackSymbols: []string{
				"NVDA", "MSFT", "AAPL", "GOOG", "AMZN",
				"META", "AVGO", "TSLA", "BRK-B", "TSM",
			},
		},
		Crypto: Crypto{
			BaseURL:              "https://api.coingecko.com/api/v3",
			CacheTTLSeconds:      120,
			MaxTop:               100,
			DefaultTop:           10,
			MaxRequestsPerMinute: 30,
			Burst:                1,
		},
		Yahoo: Yahoo{
			BaseURL: "https://query1.finance.yahoo.com",
		},
	}
}

// Load reads JSON config from path and applies environment overrides on top.
// If path is empty or the file does not exist, defaults are used. Environment
// variables win over file values, file values over defaults.
func Load(ctx context.Context, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return cfg, fmt.Errorf("env config: %w", err)
	}
	return cfg, nil
}
