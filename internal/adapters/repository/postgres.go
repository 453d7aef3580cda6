package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/pkg/logger"
	"github.com/okian/stageorder/pkg/metrics"
)

const (
	postgresStoreName   = "postgres"
	defaultMaxOpenConns = 8
	connMaxIdleTime     = 5 * time.Minute
)

// Queries against the portal schema. Bands keep their registration order so
// the scheduler's index tie-break follows it.
const (
	queryBands = `SELECT id, name, general_note, is_jam_session
FROM bands WHERE event_id = $1 ORDER BY created_at, id`

	querySongs = `SELECT s.band_id, s.entry_type
FROM songs s JOIN bands b ON b.id = s.band_id
WHERE b.event_id = $1 ORDER BY s.band_id, s.sort_order`

	queryMembers = `SELECT m.band_id, m.performer_id, m.instrument, m.carry_equipment
FROM band_members m JOIN bands b ON b.id = m.band_id
WHERE b.event_id = $1 ORDER BY m.band_id`

	queryEvents = `SELECT DISTINCT event_id FROM bands ORDER BY event_id`
)

// PostgresStore reads lineups from the portal database.
type PostgresStore struct {
	db           *sqlx.DB
	maxOpenConns int
	logger       logger.Logger
}

// NewPostgresStore connects to dsn and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{maxOpenConns: defaultMaxOpenConns, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "connect")
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	s.db = db
	s.logger.Info(ctx, "postgres lineup store connected", logger.Int("maxOpenConns", s.maxOpenConns))
	return s, nil
}

// Lineup loads the bands, songs and members of eventID.
func (s *PostgresStore) Lineup(ctx context.Context, eventID string) (model.Lineup, error) {
	l := model.Lineup{EventID: eventID}

	if err := s.db.SelectContext(ctx, &l.Bands, queryBands, eventID); err != nil {
		return s.fail(ctx, eventID, "bands", err)
	}
	if len(l.Bands) == 0 {
		metrics.RecordLineupLookup(postgresStoreName, "miss")
		return model.Lineup{}, fmt.Errorf("%w: %s", ErrNotFound, eventID)
	}
	if err := s.db.SelectContext(ctx, &l.Songs, querySongs, eventID); err != nil {
		return s.fail(ctx, eventID, "songs", err)
	}
	if err := s.db.SelectContext(ctx, &l.Members, queryMembers, eventID); err != nil {
		return s.fail(ctx, eventID, "members", err)
	}

	metrics.RecordLineupLookup(postgresStoreName, "hit")
	return l, nil
}

func (s *PostgresStore) fail(ctx context.Context, eventID, what string, err error) (model.Lineup, error) {
	metrics.RecordLineupLookup(postgresStoreName, "error")
	metrics.RecordErrorByComponent("repository", "query")
	s.logger.Error(ctx, "lineup query failed",
		logger.String("eventID", eventID),
		logger.String("table", what),
		logger.Error(err),
	)
	return model.Lineup{}, fmt.Errorf("query %s for %s: %w", what, eventID, err)
}

// Events lists event ids that have at least one band.
func (s *PostgresStore) Events(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, queryEvents); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return ids, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return errors.New("postgres store not connected")
	}
	return s.db.Close()
}
