package memory

import (
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

const (
	EventIDApertura  = "evt-apertura-2026"
	EventIDClausura  = "evt-clausura-2026"
	UserIDAdmin      = "usr-admin"
	UserIDMartina    = "usr-martina"
	UserIDJoaquin    = "usr-joaquin"
	KeyCodeWelcome   = "A1B2C3D4E5F60718"
	KeyCodeFivePack  = "0918273645ABCDEF"
)

func SeedUsers() []user.User {
	return []user.User{
		{ID: UserIDAdmin, Username: "admin", Email: "admin@example.com", Role: user.RoleAdmin, KeyBalance: 0, IsActive: true},
		{ID: UserIDMartina, Username: "martina", Email: "martina@example.com", Role: user.RolePlayer, KeyBalance: 2, IsActive: true},
		{ID: UserIDJoaquin, Username: "joaquin", Email: "joaquin@example.com", Role: user.RolePlayer, KeyBalance: 0, IsActive: true},
	}
}

func SeedEvents() []event.Event {
	return []event.Event{
		{
			ID:        EventIDApertura,
			Name:      "Torneo Apertura 2026",
			Status:    event.StatusOpen,
			CloseDate: time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
		},
		{
			ID:        EventIDClausura,
			Name:      "Torneo Clausura 2026",
			Status:    event.StatusOpen,
			CloseDate: time.Date(2027, 2, 6, 18, 0, 0, 0, time.UTC),
		},
	}
}

func SeedMatches() []match.Match {
	return []match.Match{
		{ID: "mtch-apertura-01", EventID: EventIDApertura, LocalTeam: "River Plate", VisitorTeam: "Boca Juniors",
			MatchDatetime: time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)},
		{ID: "mtch-apertura-02", EventID: EventIDApertura, LocalTeam: "Racing Club", VisitorTeam: "Independiente",
			MatchDatetime: time.Date(2026, 9, 13, 17, 0, 0, 0, time.UTC)},
		{ID: "mtch-apertura-03", EventID: EventIDApertura, LocalTeam: "San Lorenzo", VisitorTeam: "Huracan",
			MatchDatetime: time.Date(2026, 9, 13, 20, 30, 0, 0, time.UTC)},
		{ID: "mtch-clausura-01", EventID: EventIDClausura, LocalTeam: "Velez Sarsfield", VisitorTeam: "Estudiantes",
			MatchDatetime: time.Date(2027, 2, 6, 20, 0, 0, 0, time.UTC)},
	}
}

func SeedKeys() []ledger.ActivationKey {
	return []ledger.ActivationKey{
		{Code: KeyCodeWelcome, Quantity: 1, Status: ledger.KeyStatusAvailable},
		{Code: KeyCodeFivePack, Quantity: 5, Status: ledger.KeyStatusAvailable},
	}
}

// NewSeededStore is the local dev backend: every table preloaded.
func NewSeededStore() *Store {
	s := NewStore()
	s.AddUsers(SeedUsers()...)
	s.AddEvents(SeedEvents()...)
	s.AddMatches(SeedMatches()...)
	s.AddKeys(SeedKeys()...)
	return s
}
