package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

//go:embed config.example.toml
var exampleConf []byte

// TokenEnv is the environment variable consulted for the Discogs token when the config leaves it empty.
const TokenEnv = "VINYL_DISCOGS_TOKEN"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Discogs  DiscogsConfig  `toml:"discogs"`
	Sync     SyncConfig     `toml:"sync"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
}

// DiscogsConfig contains settings for the Discogs collection API.
type DiscogsConfig struct {
	BaseURL           string `toml:"base_url" validate:"required,url"`
	UserID            string `toml:"user_id"`
	Token             string `toml:"token"`
	UserAgent         string `toml:"user_agent"`
	PerPage           int    `toml:"per_page" validate:"gte=1,lte=100"`
	TimeoutSeconds    int    `toml:"timeout_seconds" validate:"gte=0"`
	RequestsPerMinute int    `toml:"requests_per_minute" validate:"gte=0"`
}

// Timeout returns the per-request timeout as a [time.Duration].
func (d DiscogsConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// SyncConfig contains collection import settings.
type SyncConfig struct {
	BufferOverwrite bool `toml:"buffer_overwrite"`
	MaxPages        int  `toml:"max_pages" validate:"gte=0"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if c.Discogs.Token == "" {
		c.Discogs.Token = os.Getenv(TokenEnv)
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
