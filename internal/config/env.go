package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT"`

	// DataDir is the data directory path.
	// Env: DATA_DIR (default: .archmap)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/archmap.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT"`

	// BatchSize is the number of rows per import batch.
	// Env: BATCH_SIZE (default: 100)
	BatchSize int `envconfig:"BATCH_SIZE"`

	// StrictChoices makes unrecognized choice values validation errors.
	// Env: STRICT_CHOICES (default: false)
	StrictChoices bool `envconfig:"STRICT_CHOICES"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts environment configuration into an AppConfig,
// applying only the values that were actually set.
func (e EnvConfig) ToAppConfig() AppConfig {
	var opts []AppConfigOption
	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.DataDir != "" {
		opts = append(opts, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(strings.ToUpper(e.LogLevel)))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(LogFormat(strings.ToLower(e.LogFormat))))
	}
	if e.BatchSize > 0 {
		opts = append(opts, WithBatchSize(e.BatchSize))
	}
	if e.StrictChoices {
		opts = append(opts, WithStrictChoices(true))
	}
	return NewAppConfig(opts...)
}
