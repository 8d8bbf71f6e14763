package usecase

import (
	"testing"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
	"github.com/fulbitoplay/prediction-pool/internal/infrastructure/repository/memory"
	"github.com/fulbitoplay/prediction-pool/internal/platform/id"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

const (
	testAdminID   = "usr-admin"
	testMartinaID = "usr-martina"
	testJoaquinID = "usr-joaquin"

	testEventID       = "evt-apertura"
	testClosedEventID = "evt-closed"

	testMatchID        = "mtch-1"
	testMatchID2       = "mtch-2"
	testStartedMatchID = "mtch-started"
)

type testEnv struct {
	store *memory.Store

	users        *memory.UserRepository
	events       *memory.EventRepository
	matches      *memory.MatchRepository
	keys         *memory.LedgerRepository
	entitlements *memory.EntitlementRepository
	predictions  *memory.PredictionRepository

	ledgerSvc      *LedgerService
	entitlementSvc *EntitlementService
	predictionSvc  *PredictionService
	scoringSvc     *ScoringService
	leaderboardSvc *LeaderboardService
	eventSvc       *EventService
	accountSvc     *AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.AddUsers(
		user.User{ID: testAdminID, Username: "admin", Role: user.RoleAdmin, KeyBalance: 0, IsActive: true},
		user.User{ID: testMartinaID, Username: "martina", Role: user.RolePlayer, KeyBalance: 2, IsActive: true},
		user.User{ID: testJoaquinID, Username: "joaquin", Role: user.RolePlayer, KeyBalance: 0, IsActive: true},
	)
	store.AddEvents(
		event.Event{ID: testEventID, Name: "Apertura", Status: event.StatusOpen,
			CloseDate: testNow.Add(11 * 24 * time.Hour)},
		event.Event{ID: testClosedEventID, Name: "Pretemporada", Status: event.StatusOpen,
			CloseDate: testNow.Add(-24 * time.Hour)},
	)
	store.AddMatches(
		match.Match{ID: testMatchID, EventID: testEventID, LocalTeam: "River Plate", VisitorTeam: "Boca Juniors",
			MatchDatetime: testNow.Add(11*24*time.Hour + 2*time.Hour)},
		match.Match{ID: testMatchID2, EventID: testEventID, LocalTeam: "Racing Club", VisitorTeam: "Independiente",
			MatchDatetime: testNow.Add(12 * 24 * time.Hour)},
		match.Match{ID: testStartedMatchID, EventID: testEventID, LocalTeam: "San Lorenzo", VisitorTeam: "Huracan",
			MatchDatetime: testNow.Add(-2 * time.Hour)},
	)
	store.AddKeys(
		ledger.ActivationKey{Code: "ABC123", Quantity: 5, Status: ledger.KeyStatusAvailable},
		ledger.ActivationKey{Code: "SINGLE1", Quantity: 1, Status: ledger.KeyStatusAvailable},
	)

	env := &testEnv{
		store:        store,
		users:        memory.NewUserRepository(store),
		events:       memory.NewEventRepository(store),
		matches:      memory.NewMatchRepository(store),
		keys:         memory.NewLedgerRepository(store),
		entitlements: memory.NewEntitlementRepository(store),
		predictions:  memory.NewPredictionRepository(store),
	}

	env.ledgerSvc = NewLedgerService(env.users, env.keys, id.NewRandomGenerator())
	env.ledgerSvc.now = func() time.Time { return testNow }

	env.entitlementSvc = NewEntitlementService(env.users, env.events, env.matches, env.entitlements)
	env.entitlementSvc.now = func() time.Time { return testNow }

	env.predictionSvc = NewPredictionService(env.users, env.events, env.matches, env.entitlements, env.predictions)
	env.predictionSvc.now = func() time.Time { return testNow }

	env.leaderboardSvc = NewLeaderboardService(env.events, env.matches, env.predictions, env.users, time.Minute)

	env.scoringSvc = NewScoringService(env.users, env.events, env.matches, env.predictions)
	env.scoringSvc.now = func() time.Time { return testNow }
	env.scoringSvc.SetLeaderboard(env.leaderboardSvc)

	env.eventSvc = NewEventService(env.users, env.events, env.matches, env.entitlements, env.predictions, id.NewRandomGenerator())
	env.eventSvc.now = func() time.Time { return testNow }

	env.accountSvc = NewAccountService(env.users, env.keys, env.entitlements)

	return env
}

func intRef(v int) *int { return &v }
