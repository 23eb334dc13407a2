package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	DAR     DARConfig     `mapstructure:"dar"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DARConfig holds DAR API connection and batching details
type DARConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ChunkSize   int           `mapstructure:"chunk_size"`
	Concurrency int           `mapstructure:"concurrency"`
	CacheSize   int           `mapstructure:"cache_size"`
	Retry       RetryConfig   `mapstructure:"retry"`
}

// RetryConfig controls retrying of failed DAR requests
type RetryConfig struct {
	Count   int           `mapstructure:"count"`
	WaitMin time.Duration `mapstructure:"wait_min"`
	WaitMax time.Duration `mapstructure:"wait_max"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
