package event

import "context"

// Repository exposes event persistence operations.
type Repository interface {
	Create(ctx context.Context, ev Event) error
	GetByID(ctx context.Context, id string) (Event, bool, error)
	List(ctx context.Context) ([]Event, error)
	ListOpen(ctx context.Context) ([]Event, error)
	// MarkFinished flips open -> finished exactly once. A second call
	// returns ErrFinished.
	MarkFinished(ctx context.Context, id string) error
	// Delete removes the event and cascades to its matches and their
	// predictions.
	Delete(ctx context.Context, id string) (bool, error)
}
