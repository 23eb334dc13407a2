package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/magenta-aps/go-dar-client/dar"
)

// Load loads the configuration from file. A missing config file is fine
// when no explicit path was given; the defaults target the public registry.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("DARCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".darctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/darctl/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %w", err)
			}
			// No file anywhere, run on defaults.
		} else {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// DAR defaults
	v.SetDefault("dar.base_url", dar.DefaultBaseURL)
	v.SetDefault("dar.timeout", dar.DefaultTimeout)
	v.SetDefault("dar.chunk_size", dar.DefaultChunkSize)
	v.SetDefault("dar.concurrency", dar.DefaultConcurrency)
	v.SetDefault("dar.cache_size", dar.DefaultCacheSize)
	v.SetDefault("dar.retry.count", dar.DefaultRetryCount)
	v.SetDefault("dar.retry.wait_min", dar.DefaultRetryWaitMin)
	v.SetDefault("dar.retry.wait_max", dar.DefaultRetryWaitMax)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.DAR.BaseURL == "" {
		return fmt.Errorf("dar.base_url is required")
	}

	if cfg.DAR.ChunkSize <= 0 {
		return fmt.Errorf("dar.chunk_size must be positive")
	}

	if cfg.DAR.Concurrency <= 0 {
		return fmt.Errorf("dar.concurrency must be positive")
	}

	if cfg.DAR.CacheSize < 0 {
		return fmt.Errorf("dar.cache_size must not be negative")
	}

	if cfg.DAR.Retry.Count < 0 {
		return fmt.Errorf("dar.retry.count must not be negative")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
