package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
)

func TestRedeemCreditsBalanceAndConsumesKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	quantity, err := env.ledgerSvc.Redeem(ctx, testJoaquinID, "abc123")
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", quantity)
	}

	u, _, err := env.users.GetByID(ctx, testJoaquinID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.KeyBalance != 5 {
		t.Fatalf("expected balance 5, got %d", u.KeyBalance)
	}

	// Same code again: consumed keys look exactly like missing ones.
	if _, err := env.ledgerSvc.Redeem(ctx, testMartinaID, "ABC123"); !errors.Is(err, ledger.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound on second redeem, got %v", err)
	}
}

func TestRedeemConcurrentConsumesKeyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const attempts = 12
	quantities := make([]int, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			quantities[i], errs[i] = env.ledgerSvc.Redeem(ctx, testJoaquinID, "SINGLE1")
		}(i)
	}
	wg.Wait()

	credited := 0
	for i, err := range errs {
		switch {
		case err == nil:
			credited += quantities[i]
		case errors.Is(err, ledger.ErrKeyNotFound):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if credited != 1 {
		t.Fatalf("single-use code must credit exactly once, got %d", credited)
	}

	u, _, _ := env.users.GetByID(ctx, testJoaquinID)
	if u.KeyBalance != 1 {
		t.Fatalf("expected balance 1, got %d", u.KeyBalance)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.ledgerSvc.Redeem(context.Background(), testMartinaID, "NOPE"); !errors.Is(err, ledger.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestRedeemValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.ledgerSvc.Redeem(ctx, testMartinaID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank code, got %v", err)
	}
	if _, err := env.ledgerSvc.Redeem(ctx, "usr-ghost", "ABC123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestGenerateKeyRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.ledgerSvc.GenerateKey(context.Background(), testMartinaID, 3); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGenerateKeyDefaultsQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	key, err := env.ledgerSvc.GenerateKey(ctx, testAdminID, 0)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	if key.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", key.Quantity)
	}
	if key.Status != ledger.KeyStatusAvailable {
		t.Fatalf("expected available status, got %s", key.Status)
	}

	// The fresh key round-trips through redeem.
	quantity, err := env.ledgerSvc.Redeem(ctx, testJoaquinID, key.Code)
	if err != nil {
		t.Fatalf("redeem generated key: %v", err)
	}
	if quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", quantity)
	}
}
