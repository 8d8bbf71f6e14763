package entitlement

import (
	"errors"
	"time"
)

// ErrAlreadyVip rejects a second VIP grant for the same user+event.
var ErrAlreadyVip = errors.New("user is already vip for this event")

// ErrAlreadyUnlocked rejects a second score unlock for the same
// user+match.
var ErrAlreadyUnlocked = errors.New("match already unlocked for user")

// ErrCapabilityMissing rejects an exact-score prediction from a user
// who is neither VIP on the event nor unlocked on the match.
var ErrCapabilityMissing = errors.New("exact score capability missing")

// VipStatus grants exact-score predictions on every match of one
// event. Costs 1 key, never expires, never refunded.
type VipStatus struct {
	UserID    string
	EventID   string
	GrantedAt time.Time
}

// ScoreUnlock grants exact-score predictions on a single match.
// Costs 1 key.
type ScoreUnlock struct {
	UserID     string
	MatchID    string
	UnlockedAt time.Time
}

// EventVipCount is one row of the admin key-usage breakdown.
type EventVipCount struct {
	EventID   string
	EventName string
	Count     int
}
