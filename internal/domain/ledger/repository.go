package ledger

import (
	"context"
	"time"
)

// Repository owns activation keys and the balance credit they grant.
// Redeem is atomic: key lookup, status flip and balance credit happen
// in one transaction with the key row locked first, so a code can be
// consumed at most once.
type Repository interface {
	// CreateKey stores a fresh available key. A duplicate code
	// returns ErrCodeCollision.
	CreateKey(ctx context.Context, key ActivationKey) error
	GetKey(ctx context.Context, code string) (ActivationKey, bool, error)
	// Redeem consumes an available key for the user and returns the
	// credited quantity. Missing or already-used codes return
	// ErrKeyNotFound.
	Redeem(ctx context.Context, userID, code string, now time.Time) (int, error)
	// UsageStats reports redeemed vs outstanding keys for the admin
	// dashboard.
	UsageStats(ctx context.Context) (UsageStats, error)
}

type UsageStats struct {
	KeysIssued   int
	KeysRedeemed int
}
