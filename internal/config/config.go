package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"CoinPulse/internal/collector"
	"CoinPulse/internal/model"
	"CoinPulse/internal/watchlist"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Currency string `yaml:"currency"`
		PerPage  int    `yaml:"per_page"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshInterval    time.Duration `yaml:"refresh_interval"`
		AlertAfterFailures int           `yaml:"alert_after_failures"`
	} `yaml:"schedule"`
	Watchlist struct {
		Default []string `yaml:"default"`
	} `yaml:"watchlist"`
	Portfolio struct {
		Positions []model.Position `yaml:"positions"`
	} `yaml:"portfolio"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	API struct {
		ListenAddr string `yaml:"listen_addr"`
		APIKey     string `yaml:"api_key"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"api"`
	Proxy string `yaml:"proxy"`
}

const (
	DefaultBaseURL    = collector.DefaultBaseURL
	DefaultCurrency   = "usd"
	DefaultPerPage    = 50
	DefaultInterval   = 30 * time.Second
	DefaultAlertAfter = 3
	DefaultListenAddr = ":8080"
	maxPerPage        = 250
)

// DefaultPositions is the portfolio used when none is configured.
var DefaultPositions = []model.Position{
	{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 42000},
	{CoinID: "ethereum", Amount: 3.2, BuyPrice: 2800},
}

// Load reads a .env file if present, then the YAML config, then applies
// environment variable overrides and defaults. A missing config file is not
// an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfg := &Config{}
	cfg.Schedule.AlertAfterFailures = -1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("VS_CURRENCY"); v != "" {
		cfg.DataSource.Currency = v
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
		}
		cfg.Schedule.RefreshInterval = d
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("API_LISTEN_ADDR"); v != "" {
		cfg.API.ListenAddr = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.API.APIKey = v
	}

	// Defaults
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = DefaultBaseURL
	}
	cfg.DataSource.Currency = strings.ToLower(strings.TrimSpace(cfg.DataSource.Currency))
	if cfg.DataSource.Currency == "" {
		cfg.DataSource.Currency = DefaultCurrency
	}
	if cfg.DataSource.PerPage == 0 {
		cfg.DataSource.PerPage = DefaultPerPage
	}
	if cfg.Schedule.RefreshInterval == 0 {
		cfg.Schedule.RefreshInterval = DefaultInterval
	}
	if cfg.Schedule.AlertAfterFailures == -1 {
		cfg.Schedule.AlertAfterFailures = DefaultAlertAfter
	}
	if cfg.Watchlist.Default == nil {
		cfg.Watchlist.Default = append([]string(nil), watchlist.DefaultIDs...)
	}
	if cfg.Portfolio.Positions == nil {
		cfg.Portfolio.Positions = append([]model.Position(nil), DefaultPositions...)
	}
	if cfg.API.ListenAddr == "" {
		cfg.API.ListenAddr = DefaultListenAddr
	}
	if cfg.API.CORSOrigin == "" {
		cfg.API.CORSOrigin = "*"
	}

	return cfg, nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks value ranges and portfolio consistency.
func (c *Config) Validate() error {
	if c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required")
	}
	if c.DataSource.Currency == "" {
		return fmt.Errorf("data_source.currency is required")
	}
	for _, r := range c.DataSource.Currency {
		if r < 'a' || r > 'z' {
			return fmt.Errorf("data_source.currency %q must contain letters only", c.DataSource.Currency)
		}
	}
	if c.DataSource.PerPage < 1 || c.DataSource.PerPage > maxPerPage {
		return fmt.Errorf("data_source.per_page must be in 1..%d, got %d", maxPerPage, c.DataSource.PerPage)
	}
	if c.Schedule.RefreshInterval < time.Second {
		return fmt.Errorf("schedule.refresh_interval must be at least 1s, got %s", c.Schedule.RefreshInterval)
	}
	if c.Schedule.AlertAfterFailures < 0 {
		return fmt.Errorf("schedule.alert_after_failures must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}

	seen := make(map[string]bool, len(c.Portfolio.Positions))
	for i, p := range c.Portfolio.Positions {
		if p.CoinID == "" {
			return fmt.Errorf("portfolio.positions[%d]: coin_id is required", i)
		}
		if p.Amount < 0 {
			return fmt.Errorf("portfolio.positions[%d] (%s): amount must not be negative", i, p.CoinID)
		}
		if p.BuyPrice < 0 {
			return fmt.Errorf("portfolio.positions[%d] (%s): buy_price must not be negative", i, p.CoinID)
		}
		if seen[p.CoinID] {
			return fmt.Errorf("portfolio.positions[%d]: duplicate coin_id %q", i, p.CoinID)
		}
		seen[p.CoinID] = true
	}
	return nil
}
