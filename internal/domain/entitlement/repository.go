package entitlement

import (
	"context"
	"time"
)

// Repository owns the paid capabilities and the key debit that buys
// them. The grant methods are atomic: the user row is locked, the
// gates are re-checked and the debit + insert land in one
// transaction, so the balance can never go negative and a capability
// is granted at most once.
type Repository interface {
	// GrantVip debits 1 key and records VIP for the event. Returns
	// event.ErrFinished, ErrAlreadyVip or ledger.ErrInsufficientBalance.
	GrantVip(ctx context.Context, userID, eventID string, now time.Time) error
	// UnlockScoreBet debits 1 key and records the per-match unlock.
	// Returns match.ErrStarted, event.ErrFinished, ErrAlreadyUnlocked
	// or ledger.ErrInsufficientBalance.
	UnlockScoreBet(ctx context.Context, userID, matchID string, now time.Time) error
	HasVip(ctx context.Context, userID, eventID string) (bool, error)
	HasUnlock(ctx context.Context, userID, matchID string) (bool, error)
	ListVipEvents(ctx context.Context, userID string) ([]string, error)
	ListUnlockedMatches(ctx context.Context, userID, eventID string) ([]string, error)
	CountVipByEvent(ctx context.Context) ([]EventVipCount, error)
	CountUnlocks(ctx context.Context) (int, error)
}
