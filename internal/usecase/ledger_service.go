package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

// keyCodeGenerator produces fresh activation-key codes.
type keyCodeGenerator interface {
	NewKeyCode() (string, error)
}

const keyCodeGenerationAttempts = 3

type LedgerService struct {
	userRepo   user.Repository
	ledgerRepo ledger.Repository
	codes      keyCodeGenerator
	now        func() time.Time
}

func NewLedgerService(
	userRepo user.Repository,
	ledgerRepo ledger.Repository,
	codes keyCodeGenerator,
) *LedgerService {
	return &LedgerService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		codes:      codes,
		now:        time.Now,
	}
}

// Redeem consumes an activation key for the user and returns the
// credited quantity. Whether the code never existed or was already
// used, the caller sees ledger.ErrKeyNotFound.
func (s *LedgerService) Redeem(ctx context.Context, userID, code string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.Redeem")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, fmt.Errorf("%w: activation code is required", ErrInvalidInput)
	}

	u, err := fetchUser(ctx, s.userRepo, userID)
	if err != nil {
		return 0, err
	}

	quantity, err := s.ledgerRepo.Redeem(ctx, u.ID, code, s.now().UTC())
	if err != nil {
		if errors.Is(err, ledger.ErrKeyNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("redeem activation key: %w", err)
	}

	return quantity, nil
}

// GenerateKey mints a fresh single-use key worth quantity keys.
// Admin only. Quantity defaults to 1; a code collision is retried
// with a new code.
func (s *LedgerService) GenerateKey(ctx context.Context, actorID string, quantity int) (ledger.ActivationKey, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LedgerService.GenerateKey")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return ledger.ActivationKey{}, err
	}
	if quantity <= 0 {
		quantity = 1
	}

	var lastErr error
	for attempt := 0; attempt < keyCodeGenerationAttempts; attempt++ {
		code, err := s.codes.NewKeyCode()
		if err != nil {
			return ledger.ActivationKey{}, fmt.Errorf("generate key code: %w", err)
		}

		key := ledger.ActivationKey{
			Code:      code,
			Quantity:  quantity,
			Status:    ledger.KeyStatusAvailable,
			CreatedAt: s.now().UTC(),
		}
		if err := key.Validate(); err != nil {
			return ledger.ActivationKey{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.ledgerRepo.CreateKey(ctx, key); err != nil {
			if errors.Is(err, ledger.ErrCodeCollision) {
				lastErr = err
				continue
			}
			return ledger.ActivationKey{}, fmt.Errorf("store activation key: %w", err)
		}

		return key, nil
	}

	return ledger.ActivationKey{}, fmt.Errorf("generate activation key after %d attempts: %w", keyCodeGenerationAttempts, lastErr)
}
