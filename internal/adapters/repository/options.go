package repository

import (
	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/pkg/logger"
)

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithLineups seeds the store.
func WithLineups(lineups ...model.Lineup) MemoryOption {
	return func(s *MemoryStore) {
		for _, l := range lineups {
			if l.EventID != "" {
				s.lineups[l.EventID] = l
			}
		}
	}
}

// PostgresOption applies a configuration option to the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithMaxOpenConns caps the connection pool.
func WithMaxOpenConns(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithPostgresLogger sets the store logger.
func WithPostgresLogger(l logger.Logger) PostgresOption {
	return func(s *PostgresStore) {
		if l != nil {
			s.logger = l
		}
	}
}
