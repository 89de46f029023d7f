package archmap

import (
	"log/slog"

	"github.com/archmapio/archmap/internal/config"
)

// clientConfig holds configuration for Client construction. Defaults come
// from internal/config so the library and the CLI agree.
type clientConfig struct {
	dbURL         string
	batchSize     int
	strictChoices bool
	logger        *slog.Logger
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		batchSize: config.DefaultBatchSize,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database, storing it at path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL configures the database from a URL
// (sqlite:///path or postgres://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithBatchSize sets the import batch size. Defaults to 100. Values <= 0 are
// ignored.
func WithBatchSize(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithStrictChoices makes unrecognized choice values fail validation instead
// of producing warnings.
func WithStrictChoices() Option {
	return func(c *clientConfig) {
		c.strictChoices = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
