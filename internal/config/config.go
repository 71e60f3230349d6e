package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		Key               string  `yaml:"key"`
		BaseURL           string  `yaml:"base_url"`
		Function          string  `yaml:"function"`
		RequestsPerMinute float64 `yaml:"requests_per_minute"`
	} `yaml:"api"`
	Symbols  []string `yaml:"symbols"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	RawData struct {
		Dir       string `yaml:"dir"`
		StateFile string `yaml:"state_file"`
	} `yaml:"raw_data"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("STOCK_SYMBOLS"); v != "" {
		cfg.Symbols = splitCSV(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RAW_DATA_DIR"); v != "" {
		cfg.RawData.Dir = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}

	// Defaults
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://www.alphavantage.co/query"
	}
	if cfg.API.Function == "" {
		cfg.API.Function = "TIME_SERIES_DAILY"
	}
	if cfg.API.RequestsPerMinute == 0 {
		cfg.API.RequestsPerMinute = 5
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"AAPL", "GOOG", "MSFT"}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_data.db"
	}
	if cfg.RawData.Dir == "" {
		cfg.RawData.Dir = "raw_data"
	}
	if cfg.RawData.StateFile == "" {
		cfg.RawData.StateFile = "data/fetch_state.json"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 0 * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required (set ALPHA_VANTAGE_API_KEY)")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
