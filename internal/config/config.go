package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Log     LogConfig
	Seed    SeedConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type StorageConfig struct {
	// DataDir holds the per-key JSON documents. Empty means InMemory must
	// be set.
	DataDir string
	// InMemory selects the non-durable store; data lives for the process
	// lifetime only. Intended for tests and dry runs.
	InMemory bool
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type SeedConfig struct {
	// EnabledByDefault controls whether a first launch starts with the demo
	// data set visible. The user toggle persisted in storage wins afterwards.
	EnabledByDefault bool
}

// Load reads configuration from environment variables, with an optional
// .env file for local development. Every key has a working default: the
// application must start with zero configuration.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "clinicpad")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_VERSION", "0.0.0")
	v.SetDefault("DATA_DIR", defaultDataDir())
	v.SetDefault("DATA_IN_MEMORY", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stderr")
	v.SetDefault("SEED_DEFAULT", false)

	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_VERSION",
		"DATA_DIR", "DATA_IN_MEMORY",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT",
		"SEED_DEFAULT",
	} {
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
			Version:     v.GetString("APP_VERSION"),
		},
		Storage: StorageConfig{
			DataDir:  v.GetString("DATA_DIR"),
			InMemory: v.GetBool("DATA_IN_MEMORY"),
		},
		Log: LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			OutputPath: v.GetString("LOG_OUTPUT"),
		},
		Seed: SeedConfig{
			EnabledByDefault: v.GetBool("SEED_DEFAULT"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Storage.DataDir == "" && !cfg.Storage.InMemory {
		errs = append(errs, "DATA_DIR is required unless DATA_IN_MEMORY=true")
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be json or console, got %q", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func defaultDataDir() string {
	return filepath.Join(".", "clinicpad-data")
}
