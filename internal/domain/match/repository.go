package match

import "context"

// Repository exposes match persistence operations.
type Repository interface {
	Create(ctx context.Context, m Match) error
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListByEvent(ctx context.Context, eventID string) ([]Match, error)
	// Update rewrites teams and kickoff; results are written only
	// through SetResult.
	Update(ctx context.Context, m Match) (bool, error)
	SetResult(ctx context.Context, id string, resultLocal, resultVisitor int) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
