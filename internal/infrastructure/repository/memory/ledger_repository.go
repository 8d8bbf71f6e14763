package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
)

type LedgerRepository struct {
	s *Store
}

func NewLedgerRepository(s *Store) *LedgerRepository {
	return &LedgerRepository{s: s}
}

func (r *LedgerRepository) CreateKey(_ context.Context, key ledger.ActivationKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.keys[key.Code]; ok {
		return fmt.Errorf("%w: %s", ledger.ErrCodeCollision, key.Code)
	}

	r.s.keys[key.Code] = key
	r.s.keyOrder = append(r.s.keyOrder, key.Code)

	return nil
}

func (r *LedgerRepository) GetKey(_ context.Context, code string) (ledger.ActivationKey, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	k, ok := r.s.keys[code]
	if !ok {
		return ledger.ActivationKey{}, false, nil
	}

	return k, true, nil
}

func (r *LedgerRepository) Redeem(_ context.Context, userID, code string, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k, ok := r.s.keys[code]
	if !ok || k.Status != ledger.KeyStatusAvailable {
		return 0, fmt.Errorf("%w: %s", ledger.ErrKeyNotFound, code)
	}

	u, ok := r.s.users[userID]
	if !ok {
		return 0, fmt.Errorf("redeem: user %s not found", userID)
	}

	redeemedAt := now
	k.Status = ledger.KeyStatusUsed
	k.RedeemedBy = userID
	k.RedeemedAt = &redeemedAt
	r.s.keys[code] = k

	u.KeyBalance += k.Quantity
	r.s.users[userID] = u

	return k.Quantity, nil
}

func (r *LedgerRepository) UsageStats(_ context.Context) (ledger.UsageStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := ledger.UsageStats{}
	for _, code := range r.s.keyOrder {
		stats.KeysIssued++
		if r.s.keys[code].Status == ledger.KeyStatusUsed {
			stats.KeysRedeemed++
		}
	}

	return stats, nil
}
