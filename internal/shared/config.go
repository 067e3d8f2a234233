package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	MinZipCount = 1
	MaxZipCount = 10
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Gemini   GeminiConfig   `toml:"gemini"`
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Batch    BatchConfig    `toml:"batch"`
}

// GeminiConfig holds the generative model credentials and model names.
type GeminiConfig struct {
	APIKey            string `toml:"api_key"`
	TextModel         string `toml:"text_model"`
	ImageModel        string `toml:"image_model"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig controls where rendered cards are written and at what density.
type ExportConfig struct {
	OutputDir  string `toml:"output_dir"`
	PixelRatio int    `toml:"pixel_ratio"`
}

// BatchConfig holds batch defaults. Delays are in milliseconds.
type BatchConfig struct {
	ZipCount int `toml:"zip_count"`
	PacingMS int `toml:"pacing_ms"`
	SettleMS int `toml:"settle_ms"`
}

func (b BatchConfig) Pacing() time.Duration { return time.Duration(b.PacingMS) * time.Millisecond }
func (b BatchConfig) Settle() time.Duration { return time.Duration(b.SettleMS) * time.Millisecond }

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.Batch.ZipCount < MinZipCount || c.Batch.ZipCount > MaxZipCount {
		return fmt.Errorf("%w: batch.zip_count must be between %d and %d, got %d", ErrInvalidConfig, MinZipCount, MaxZipCount, c.Batch.ZipCount)
	}
	if c.Batch.PacingMS < 0 || c.Batch.SettleMS < 0 {
		return fmt.Errorf("%w: batch delays must not be negative", ErrInvalidConfig)
	}
	if c.Export.PixelRatio < 1 {
		return fmt.Errorf("%w: export.pixel_ratio must be at least 1", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	return nil
}

// APIKey returns the Gemini API key, preferring the GEMINI_API_KEY environment variable.
func (c *Config) APIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return c.Gemini.APIKey
}

// LoadConfig reads a TOML configuration file; keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile writes the embedded example config to path. It refuses to overwrite.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
