package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
)

type EntitlementRepository struct {
	s *Store
}

func NewEntitlementRepository(s *Store) *EntitlementRepository {
	return &EntitlementRepository{s: s}
}

func (r *EntitlementRepository) GrantVip(_ context.Context, userID, eventID string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ev, ok := r.s.events[eventID]
	if !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	if ev.Status == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, eventID)
	}

	key := pairKey(userID, eventID)
	if _, ok := r.s.vips[key]; ok {
		return fmt.Errorf("%w: event %s", entitlement.ErrAlreadyVip, eventID)
	}

	if err := r.debitLocked(userID, 1); err != nil {
		return err
	}
	r.s.vips[key] = entitlement.VipStatus{UserID: userID, EventID: eventID, GrantedAt: now}

	return nil
}

func (r *EntitlementRepository) UnlockScoreBet(_ context.Context, userID, matchID string, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.matches[matchID]
	if !ok {
		return fmt.Errorf("match %s not found", matchID)
	}
	if m.Started(now) {
		return fmt.Errorf("%w: %s", match.ErrStarted, matchID)
	}
	if ev, ok := r.s.events[m.EventID]; ok && ev.Status == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, m.EventID)
	}

	key := pairKey(userID, matchID)
	if _, ok := r.s.unlocks[key]; ok {
		return fmt.Errorf("%w: match %s", entitlement.ErrAlreadyUnlocked, matchID)
	}

	if err := r.debitLocked(userID, 1); err != nil {
		return err
	}
	r.s.unlocks[key] = entitlement.ScoreUnlock{UserID: userID, MatchID: matchID, UnlockedAt: now}

	return nil
}

func (r *EntitlementRepository) debitLocked(userID string, amount int) error {
	u, ok := r.s.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	if u.KeyBalance < amount {
		return fmt.Errorf("%w: balance %d", ledger.ErrInsufficientBalance, u.KeyBalance)
	}

	u.KeyBalance -= amount
	r.s.users[userID] = u

	return nil
}

func (r *EntitlementRepository) HasVip(_ context.Context, userID, eventID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.vips[pairKey(userID, eventID)]
	return ok, nil
}

func (r *EntitlementRepository) HasUnlock(_ context.Context, userID, matchID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.unlocks[pairKey(userID, matchID)]
	return ok, nil
}

func (r *EntitlementRepository) ListVipEvents(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]string, 0, 4)
	for _, id := range r.s.eventOrder {
		if _, ok := r.s.vips[pairKey(userID, id)]; ok {
			out = append(out, id)
		}
	}

	return out, nil
}

func (r *EntitlementRepository) ListUnlockedMatches(_ context.Context, userID, eventID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]string, 0, 4)
	for _, matchID := range r.s.eventMatchIDsLocked(eventID) {
		if _, ok := r.s.unlocks[pairKey(userID, matchID)]; ok {
			out = append(out, matchID)
		}
	}

	return out, nil
}

func (r *EntitlementRepository) CountVipByEvent(_ context.Context) ([]entitlement.EventVipCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entitlement.EventVipCount, 0, len(r.s.eventOrder))
	for _, id := range r.s.eventOrder {
		count := 0
		for _, v := range r.s.vips {
			if v.EventID == id {
				count++
			}
		}
		out = append(out, entitlement.EventVipCount{
			EventID:   id,
			EventName: r.s.events[id].Name,
			Count:     count,
		})
	}

	return out, nil
}

func (r *EntitlementRepository) CountUnlocks(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return len(r.s.unlocks), nil
}
