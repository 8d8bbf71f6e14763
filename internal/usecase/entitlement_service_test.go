package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

func TestGrantVipSpendsOneKeyAtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.entitlementSvc.GrantVip(ctx, testMartinaID, testEventID); err != nil {
		t.Fatalf("grant vip: %v", err)
	}

	u, _, _ := env.users.GetByID(ctx, testMartinaID)
	if u.KeyBalance != 1 {
		t.Fatalf("expected balance 1 after vip grant, got %d", u.KeyBalance)
	}

	if err := env.entitlementSvc.GrantVip(ctx, testMartinaID, testEventID); !errors.Is(err, entitlement.ErrAlreadyVip) {
		t.Fatalf("expected ErrAlreadyVip, got %v", err)
	}

	// The failed second grant must not touch the balance.
	u, _, _ = env.users.GetByID(ctx, testMartinaID)
	if u.KeyBalance != 1 {
		t.Fatalf("balance changed on rejected grant: %d", u.KeyBalance)
	}
}

func TestGrantVipInsufficientBalance(t *testing.T) {
	env := newTestEnv(t)

	err := env.entitlementSvc.GrantVip(context.Background(), testJoaquinID, testEventID)
	if !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestGrantVipFinishedEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.events.MarkFinished(ctx, testEventID); err != nil {
		t.Fatalf("mark finished: %v", err)
	}

	if err := env.entitlementSvc.GrantVip(ctx, testMartinaID, testEventID); !errors.Is(err, event.ErrFinished) {
		t.Fatalf("expected event.ErrFinished, got %v", err)
	}
}

func TestGrantVipUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	if err := env.entitlementSvc.GrantVip(context.Background(), testMartinaID, "evt-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGrantVipConcurrentDebitsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.entitlementSvc.GrantVip(ctx, testMartinaID, testEventID)
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, err := range errs {
		switch {
		case err == nil:
			granted++
		case errors.Is(err, entitlement.ErrAlreadyVip):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if granted != 1 {
		t.Fatalf("expected exactly one successful grant, got %d", granted)
	}

	u, _, _ := env.users.GetByID(ctx, testMartinaID)
	if u.KeyBalance != 1 {
		t.Fatalf("expected exactly one debit, balance %d", u.KeyBalance)
	}
}

func TestUnlockScoreBetConcurrentKeepsBalanceNonNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const lucasID = "usr-lucas"
	env.store.AddUsers(user.User{ID: lucasID, Username: "lucas", Role: user.RolePlayer, KeyBalance: 1, IsActive: true})

	// One key, two matches worth of racing unlocks: only one may land.
	var wg sync.WaitGroup
	var mu sync.Mutex
	unlocked := 0
	for _, matchID := range []string{testMatchID, testMatchID2} {
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(matchID string) {
				defer wg.Done()
				err := env.entitlementSvc.UnlockScoreBet(ctx, lucasID, matchID)
				switch {
				case err == nil:
					mu.Lock()
					unlocked++
					mu.Unlock()
				case errors.Is(err, entitlement.ErrAlreadyUnlocked):
				case errors.Is(err, ledger.ErrInsufficientBalance):
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(matchID)
		}
	}
	wg.Wait()

	if unlocked != 1 {
		t.Fatalf("one key buys one unlock, got %d", unlocked)
	}
	u, _, _ := env.users.GetByID(ctx, lucasID)
	if u.KeyBalance != 0 {
		t.Fatalf("expected balance 0, got %d", u.KeyBalance)
	}
}

func TestUnlockScoreBet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.entitlementSvc.UnlockScoreBet(ctx, testMartinaID, testMatchID); err != nil {
		t.Fatalf("unlock: %v", err)
	}

	u, _, _ := env.users.GetByID(ctx, testMartinaID)
	if u.KeyBalance != 1 {
		t.Fatalf("expected balance 1 after unlock, got %d", u.KeyBalance)
	}

	if err := env.entitlementSvc.UnlockScoreBet(ctx, testMartinaID, testMatchID); !errors.Is(err, entitlement.ErrAlreadyUnlocked) {
		t.Fatalf("expected ErrAlreadyUnlocked, got %v", err)
	}
}

func TestUnlockScoreBetStartedMatch(t *testing.T) {
	env := newTestEnv(t)

	err := env.entitlementSvc.UnlockScoreBet(context.Background(), testMartinaID, testStartedMatchID)
	if !errors.Is(err, match.ErrStarted) {
		t.Fatalf("expected match.ErrStarted, got %v", err)
	}
}

func TestHasExactScoreCapability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ok, err := env.entitlementSvc.HasExactScoreCapability(ctx, testMartinaID, testMatchID)
	if err != nil {
		t.Fatalf("capability check: %v", err)
	}
	if ok {
		t.Fatal("expected no capability before paying")
	}

	// Per-match unlock covers only that match.
	if err := env.entitlementSvc.UnlockScoreBet(ctx, testMartinaID, testMatchID); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if ok, _ := env.entitlementSvc.HasExactScoreCapability(ctx, testMartinaID, testMatchID); !ok {
		t.Fatal("expected capability on unlocked match")
	}
	if ok, _ := env.entitlementSvc.HasExactScoreCapability(ctx, testMartinaID, testMatchID2); ok {
		t.Fatal("unlock must not leak to other matches")
	}

	// VIP covers every match of the event.
	if err := env.entitlementSvc.GrantVip(ctx, testMartinaID, testEventID); err != nil {
		t.Fatalf("grant vip: %v", err)
	}
	if ok, _ := env.entitlementSvc.HasExactScoreCapability(ctx, testMartinaID, testMatchID2); !ok {
		t.Fatal("expected capability via vip")
	}
}
