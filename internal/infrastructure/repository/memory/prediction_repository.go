package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
)

type PredictionRepository struct {
	s *Store
}

func NewPredictionRepository(s *Store) *PredictionRepository {
	return &PredictionRepository{s: s}
}

func (r *PredictionRepository) UpsertBatch(_ context.Context, eventID string, now time.Time, predictions []prediction.Prediction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ev, ok := r.s.events[eventID]
	if !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	if !ev.AcceptsPredictions(now) {
		return fmt.Errorf("%w: %s", event.ErrClosed, eventID)
	}

	for _, p := range predictions {
		p.Points = 0
		p.UpdatedAt = now
		r.s.predictions[pairKey(p.UserID, p.MatchID)] = p
	}

	return nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]prediction.Prediction, 0, 8)
	for _, p := range r.s.predictions {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PredictionRepository) ListByUserAndMatchIDs(_ context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]prediction.Prediction, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		if p, ok := r.s.predictions[pairKey(userID, matchID)]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PredictionRepository) SetPoints(_ context.Context, userID, matchID string, points int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pairKey(userID, matchID)
	p, ok := r.s.predictions[key]
	if !ok {
		return fmt.Errorf("prediction for user %s match %s not found", userID, matchID)
	}

	p.Points = points
	r.s.predictions[key] = p

	return nil
}
