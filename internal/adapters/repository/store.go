// Package repository loads event lineups for the scheduler.
package repository

import (
	"context"

	"github.com/okian/stageorder/internal/domain/model"
)

// Store provides read access to registered lineups.
type Store interface {
	// Lineup returns the bands, songs and members registered for an event.
	// Returns ErrNotFound if the event has no bands.
	Lineup(ctx context.Context, eventID string) (model.Lineup, error)

	// Events lists the known event ids in ascending order.
	Events(ctx context.Context) ([]string, error)

	// Close releases the store's resources.
	Close() error
}
