package repository

import (
	"time"

	"github.com/adrian2504/TradeHack/pkg/logger"
)

// Option applies a configuration option to the PostgresStore.
type Option func(*PostgresStore)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *PostgresStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithQueryTimeout bounds every store operation.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *PostgresStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}
