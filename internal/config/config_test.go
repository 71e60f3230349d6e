package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ALPHA_VANTAGE_API_KEY", "ALPHA_VANTAGE_BASE_URL", "STOCK_SYMBOLS",
		"SQLITE_PATH", "RAW_DATA_DIR", "CRON_DAILY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "https://www.alphavantage.co/query" {
		t.Errorf("unexpected default base url: %s", cfg.API.BaseURL)
	}
	if cfg.API.Function != "TIME_SERIES_DAILY" {
		t.Errorf("unexpected default function: %s", cfg.API.Function)
	}
	if len(cfg.Symbols) != 3 || cfg.Symbols[0] != "AAPL" {
		t.Errorf("unexpected default symbols: %v", cfg.Symbols)
	}
	if cfg.Schedule.DailyCron == "" {
		t.Error("expected a default daily cron")
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("api:\n  key: from-file\nsymbols: [IBM]\ndatabase:\n  sqlite_path: file.db\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALPHA_VANTAGE_API_KEY", "from-env")
	t.Setenv("STOCK_SYMBOLS", "AAPL, MSFT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Key != "from-env" {
		t.Errorf("env must override file, got %s", cfg.API.Key)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[1] != "MSFT" {
		t.Errorf("unexpected symbols: %v", cfg.Symbols)
	}
	if cfg.Database.SQLitePath != "file.db" {
		t.Errorf("expected file value to survive, got %s", cfg.Database.SQLitePath)
	}
}

func TestValidate_MissingCredential(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing credential")
	}
	cfg.API.Key = "demo"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
