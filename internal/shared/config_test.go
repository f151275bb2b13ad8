package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv(TokenEnv, "")
		config := DefaultConfig()

		if config.Database.Path != "./vinyl.db" {
			t.Errorf("expected database path ./vinyl.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3333 {
			t.Errorf("expected server port 3333, got %d", config.Server.Port)
		}

		if config.Discogs.BaseURL != "https://api.discogs.com" {
			t.Errorf("expected discogs base URL https://api.discogs.com, got %s", config.Discogs.BaseURL)
		}

		if config.Discogs.PerPage != 100 {
			t.Errorf("expected per_page 100, got %d", config.Discogs.PerPage)
		}

		if config.Sync.BufferOverwrite {
			t.Error("expected buffer_overwrite to default to false")
		}

		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Setenv(TokenEnv, "")
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[discogs]
user_id = "crate_digger"
token = "secret"
per_page = 50

[sync]
buffer_overwrite = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Discogs.UserID != "crate_digger" || config.Discogs.Token != "secret" {
			t.Errorf("unexpected discogs credentials: %+v", config.Discogs)
		}
		if config.Discogs.BaseURL != "https://api.discogs.com" {
			t.Errorf("expected base URL default to survive partial file, got %s", config.Discogs.BaseURL)
		}
		if !config.Sync.BufferOverwrite {
			t.Error("expected buffer_overwrite true")
		}
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv(TokenEnv, "env-token")
		config := DefaultConfig()
		if config.Discogs.Token != "env-token" {
			t.Errorf("expected token from environment, got %q", config.Discogs.Token)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := os.WriteFile(configPath, []byte("[discogs]\nper_page = 500\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
