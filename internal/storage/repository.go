// ABOUTME: Repository interface for per-user, per-day activity buckets.
// ABOUTME: Implementations: KVStore (Charm KV or badger backends) and SQLiteStore.
package storage

import (
	"context"
	"errors"

	"github.com/harperreed/timetrack/internal/models"
)

// ErrInvalidKey is returned when a user ID, date or activity ID cannot form a store path.
var ErrInvalidKey = errors.New("invalid key segment")

// Repository defines the storage contract for activity buckets.
// A bucket exists implicitly while it has at least one activity.
type Repository interface {
	// Create allocates a new ID, stores the record under it, and returns the ID.
	Create(ctx context.Context, userID string, date models.Date, in models.ActivityInput) (string, error)

	// ListByDate returns every activity in the bucket; an empty slice if it does not exist.
	ListByDate(ctx context.Context, userID string, date models.Date) ([]models.Activity, error)

	// Update overwrites the record at id, creating it if missing.
	Update(ctx context.Context, userID string, date models.Date, id string, in models.ActivityInput) error

	// Delete removes the record at id. Missing IDs are not an error.
	Delete(ctx context.Context, userID string, date models.Date, id string) error

	// ListDates returns the dates that currently hold activities, ascending.
	ListDates(ctx context.Context, userID string) ([]models.Date, error)

	Close() error
}
