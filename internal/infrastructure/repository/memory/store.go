package memory

import (
	"sync"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

// Store holds every table behind one mutex so the repositories built
// on it get the same cross-table atomicity the postgres transactions
// provide. Used by unit tests and the local dev backend.
type Store struct {
	mu sync.RWMutex

	users     map[string]user.User
	userOrder []string

	events     map[string]event.Event
	eventOrder []string

	matches    map[string]match.Match
	matchOrder []string

	keys     map[string]ledger.ActivationKey
	keyOrder []string

	vips        map[string]entitlement.VipStatus
	unlocks     map[string]entitlement.ScoreUnlock
	predictions map[string]prediction.Prediction
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		events:      make(map[string]event.Event),
		matches:     make(map[string]match.Match),
		keys:        make(map[string]ledger.ActivationKey),
		vips:        make(map[string]entitlement.VipStatus),
		unlocks:     make(map[string]entitlement.ScoreUnlock),
		predictions: make(map[string]prediction.Prediction),
	}
}

func (s *Store) AddUsers(users ...user.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		if _, ok := s.users[u.ID]; !ok {
			s.userOrder = append(s.userOrder, u.ID)
		}
		s.users[u.ID] = u
	}
}

func (s *Store) AddEvents(events ...event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range events {
		if _, ok := s.events[ev.ID]; !ok {
			s.eventOrder = append(s.eventOrder, ev.ID)
		}
		s.events[ev.ID] = ev
	}
}

func (s *Store) AddMatches(matches ...match.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range matches {
		if _, ok := s.matches[m.ID]; !ok {
			s.matchOrder = append(s.matchOrder, m.ID)
		}
		s.matches[m.ID] = m
	}
}

func (s *Store) AddKeys(keys ...ledger.ActivationKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		if _, ok := s.keys[k.Code]; !ok {
			s.keyOrder = append(s.keyOrder, k.Code)
		}
		s.keys[k.Code] = k
	}
}

// pairKey builds the composite map key for (user, event) and
// (user, match) rows.
func pairKey(a, b string) string {
	return a + "|" + b
}

// locked-state helpers shared by the repositories; callers hold s.mu.

func (s *Store) removeMatchLocked(matchID string) {
	delete(s.matches, matchID)
	for i, id := range s.matchOrder {
		if id == matchID {
			s.matchOrder = append(s.matchOrder[:i], s.matchOrder[i+1:]...)
			break
		}
	}
	for key, p := range s.predictions {
		if p.MatchID == matchID {
			delete(s.predictions, key)
		}
	}
	for key, u := range s.unlocks {
		if u.MatchID == matchID {
			delete(s.unlocks, key)
		}
	}
}

func (s *Store) eventMatchIDsLocked(eventID string) []string {
	out := make([]string, 0, 8)
	for _, id := range s.matchOrder {
		if s.matches[id].EventID == eventID {
			out = append(out, id)
		}
	}
	return out
}
