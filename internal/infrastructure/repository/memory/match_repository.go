package memory

import (
	"context"
	"fmt"

	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
)

type MatchRepository struct {
	s *Store
}

func NewMatchRepository(s *Store) *MatchRepository {
	return &MatchRepository{s: s}
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.matches[m.ID]; ok {
		return fmt.Errorf("match %s already exists", m.ID)
	}
	if _, ok := r.s.events[m.EventID]; !ok {
		return fmt.Errorf("event %s not found", m.EventID)
	}

	r.s.matches[m.ID] = m
	r.s.matchOrder = append(r.s.matchOrder, m.ID)

	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}

	return m, true, nil
}

func (r *MatchRepository) ListByEvent(_ context.Context, eventID string) ([]match.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]match.Match, 0, 8)
	for _, id := range r.s.matchOrder {
		if m := r.s.matches[id]; m.EventID == eventID {
			out = append(out, m)
		}
	}

	return out, nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.matches[m.ID]
	if !ok {
		return false, nil
	}

	current.LocalTeam = m.LocalTeam
	current.VisitorTeam = m.VisitorTeam
	current.MatchDatetime = m.MatchDatetime
	r.s.matches[m.ID] = current

	return true, nil
}

func (r *MatchRepository) SetResult(_ context.Context, id string, resultLocal, resultVisitor int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.matches[id]
	if !ok {
		return false, nil
	}

	local := resultLocal
	visitor := resultVisitor
	m.ResultLocal = &local
	m.ResultVisitor = &visitor
	r.s.matches[id] = m

	return true, nil
}

func (r *MatchRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.matches[id]; !ok {
		return false, nil
	}

	r.s.removeMatchLocked(id)

	return true, nil
}
