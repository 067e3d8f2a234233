package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./cardgen.db" {
			t.Errorf("expected database path ./cardgen.db, got %s", config.Database.Path)
		}
		if config.Batch.Pacing() != 2100*time.Millisecond {
			t.Errorf("expected pacing 2.1s, got %v", config.Batch.Pacing())
		}
		if config.Batch.Settle() != 500*time.Millisecond {
			t.Errorf("expected settle 500ms, got %v", config.Batch.Settle())
		}
		if config.Export.PixelRatio != 3 {
			t.Errorf("expected pixel ratio 3, got %d", config.Export.PixelRatio)
		}
		if config.Gemini.TextModel != "gemini-2.5-flash" {
			t.Errorf("expected text model gemini-2.5-flash, got %s", config.Gemini.TextModel)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[database]
path = "/custom/path.db"

[batch]
zip_count = 4
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
		if config.Batch.ZipCount != 4 {
			t.Errorf("expected zip count 4, got %d", config.Batch.ZipCount)
		}
		if config.Batch.PacingMS != 2100 {
			t.Errorf("expected default pacing to survive, got %d", config.Batch.PacingMS)
		}
	})

	t.Run("LoadConfig rejects out of range zip count", func(t *testing.T) {
		for _, n := range []string{"0", "11"} {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[batch]\nzip_count = "+n+"\n"), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("zip_count=%s: expected ErrInvalidConfig, got %v", n, err)
			}
		}
	})

	t.Run("APIKey prefers environment", func(t *testing.T) {
		config := DefaultConfig()
		config.Gemini.APIKey = "from-file"

		t.Setenv("GEMINI_API_KEY", "")
		if got := config.APIKey(); got != "from-file" {
			t.Errorf("expected from-file, got %s", got)
		}

		t.Setenv("GEMINI_API_KEY", "from-env")
		if got := config.APIKey(); got != "from-env" {
			t.Errorf("expected from-env, got %s", got)
		}
	})
}
