// Package history keeps the calculations signed-in users have run, so the
// dashboard can list them and the report renderer can reload them.
package history

import (
	"context"
	"errors"
	"time"

	"taxdesk-backend/internal/models"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("calculation not found")

// Store persists calculation records.
type Store interface {
	Save(ctx context.Context, rec *models.CalculationRecord) error
	// ListByUser returns the user's records, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.CalculationRecord, error)
	Get(ctx context.Context, id string) (*models.CalculationRecord, error)
	// DeleteBefore removes records created before cutoff and returns how many.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
