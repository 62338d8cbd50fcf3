package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"futures-dashboard/internal/core"
)

const (
	defaultRestBaseURL = "https://testnet.binancefuture.com"
	defaultWSBaseURL   = "wss://fstream.binancefuture.com"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Exchange      ExchangeConfig      `yaml:"exchange"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Filters       FilterDefaults      `yaml:"filters"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServerConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type ExchangeConfig struct {
	APIKey         string `yaml:"api_key"`
	APISecret      string `yaml:"api_secret"`
	RestBaseURL    string `yaml:"rest_base_url"`
	WSBaseURL      string `yaml:"ws_base_url"`
	RecvWindowMs   int64  `yaml:"recv_window_ms"`
	HTTPTimeoutSec int64  `yaml:"http_timeout_sec"`
}

type DashboardConfig struct {
	// Token gates every /api route when set; empty disables the gate.
	Token string `yaml:"token"`
	// Symbols the mark-price feed subscribes to.
	Symbols []string `yaml:"symbols"`
}

// FilterDefaults backstop the exchange-published filters when a symbol's
// metadata omits one. Values mirror the exchange's own USDT-M defaults.
type FilterDefaults struct {
	MinNotional      Decimal `yaml:"min_notional"`
	PercentPriceBand Decimal `yaml:"percent_price_band"`
}

type ObservabilityConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BotToken   string `yaml:"bot_token"`
	ChatID     string `yaml:"chat_id"`
	APIBaseURL string `yaml:"api_base_url"`
	TimeoutSec int64  `yaml:"timeout_sec"`
}

// Load reads the YAML config (strict: unknown keys are errors), applies
// environment overrides for the secrets, then defaults and validation. An
// empty path runs the same pipeline on a zero config, so the dashboard can
// be configured from the environment alone.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return Config{}, fmt.Errorf("config must contain a single YAML document")
			}
			return Config{}, err
		}
	}
	cfg.applyEnvOverrides()
	cfg.normalize()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		c.Exchange.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		c.Exchange.APISecret = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		c.Exchange.RestBaseURL = v
	}
	if v := os.Getenv("DASHBOARD_TOKEN"); v != "" {
		c.Dashboard.Token = v
	}
}

func (c *Config) normalize() {
	c.Server.ListenAddr = strings.TrimSpace(c.Server.ListenAddr)
	c.Exchange.APIKey = strings.TrimSpace(c.Exchange.APIKey)
	c.Exchange.APISecret = strings.TrimSpace(c.Exchange.APISecret)
	c.Exchange.RestBaseURL = strings.TrimSpace(c.Exchange.RestBaseURL)
	c.Exchange.WSBaseURL = strings.TrimSpace(c.Exchange.WSBaseURL)
	c.Dashboard.Token = strings.TrimSpace(c.Dashboard.Token)
	for i, s := range c.Dashboard.Symbols {
		c.Dashboard.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	c.Observability.Telegram.BotToken = strings.TrimSpace(c.Observability.Telegram.BotToken)
	c.Observability.Telegram.ChatID = strings.TrimSpace(c.Observability.Telegram.ChatID)
	c.Observability.Telegram.APIBaseURL = strings.TrimSpace(c.Observability.Telegram.APIBaseURL)
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Exchange.RestBaseURL == "" {
		c.Exchange.RestBaseURL = defaultRestBaseURL
	}
	if c.Exchange.WSBaseURL == "" {
		c.Exchange.WSBaseURL = defaultWSBaseURL
	}
	if c.Exchange.RecvWindowMs == 0 {
		c.Exchange.RecvWindowMs = 5000
	}
	if c.Exchange.HTTPTimeoutSec == 0 {
		c.Exchange.HTTPTimeoutSec = 15
	}
	if len(c.Dashboard.Symbols) == 0 {
		c.Dashboard.Symbols = []string{"BTCUSDT", "ETHUSDT"}
	}
	if c.Filters.MinNotional.Cmp(decimal.Zero) == 0 {
		c.Filters.MinNotional = Decimal{decimal.RequireFromString("5")}
	}
	if c.Filters.PercentPriceBand.Cmp(decimal.Zero) == 0 {
		c.Filters.PercentPriceBand = Decimal{decimal.RequireFromString("0.1")}
	}
	if c.Observability.Telegram.APIBaseURL == "" {
		c.Observability.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if c.Observability.Telegram.TimeoutSec == 0 {
		c.Observability.Telegram.TimeoutSec = 10
	}
}

func (c Config) Validate() error {
	if c.Exchange.APIKey == "" || c.Exchange.APISecret == "" {
		return core.ConfigError{Field: "exchange", Reason: "BINANCE_API_KEY and BINANCE_API_SECRET must be set"}
	}
	if c.Exchange.RecvWindowMs < 0 {
		return core.ConfigError{Field: "exchange.recv_window_ms", Reason: "must be >= 0"}
	}
	if c.Filters.PercentPriceBand.Cmp(decimal.Zero) < 0 {
		return core.ConfigError{Field: "filters.percent_price_band", Reason: "must be >= 0"}
	}
	for _, s := range c.Dashboard.Symbols {
		if !strings.HasSuffix(s, core.QuoteSuffix) {
			return core.ConfigError{Field: "dashboard.symbols", Reason: fmt.Sprintf("%s does not end with %s", s, core.QuoteSuffix)}
		}
	}
	if c.Observability.Telegram.Enabled {
		if c.Observability.Telegram.BotToken == "" || c.Observability.Telegram.ChatID == "" {
			return core.ConfigError{Field: "observability.telegram", Reason: "bot_token and chat_id required when enabled"}
		}
	}
	return nil
}

// IsTestnet reports whether the configured REST endpoint points at a
// non-production environment. The dashboard refuses all signed activity
// otherwise.
func (c Config) IsTestnet() bool {
	return strings.Contains(c.Exchange.RestBaseURL, "testnet")
}
