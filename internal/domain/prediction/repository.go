package prediction

import (
	"context"
	"time"
)

// Repository exposes prediction persistence operations.
type Repository interface {
	// UpsertBatch writes all predictions or none. The event gate
	// (open status, close date not passed) is re-checked inside the
	// same transaction with the event row locked, so a concurrent
	// finalize cannot slip a late edit through; a failed gate returns
	// event.ErrClosed. New rows keep Points at 0, rewrites reset it.
	UpsertBatch(ctx context.Context, eventID string, now time.Time, predictions []Prediction) error
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByUserAndMatchIDs(ctx context.Context, userID string, matchIDs []string) ([]Prediction, error)
	SetPoints(ctx context.Context, userID, matchID string, points int) error
}
