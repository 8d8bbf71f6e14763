package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

type EntitlementService struct {
	userRepo  user.Repository
	eventRepo event.Repository
	matchRepo match.Repository
	entRepo   entitlement.Repository
	now       func() time.Time
}

func NewEntitlementService(
	userRepo user.Repository,
	eventRepo event.Repository,
	matchRepo match.Repository,
	entRepo entitlement.Repository,
) *EntitlementService {
	return &EntitlementService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		matchRepo: matchRepo,
		entRepo:   entRepo,
		now:       time.Now,
	}
}

// GrantVip spends 1 key for event-wide exact-score access. The
// balance check, the duplicate check and the debit are atomic inside
// the repository; this layer resolves the references and gives the
// fast answers.
func (s *EntitlementService) GrantVip(ctx context.Context, userID, eventID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntitlementService.GrantVip")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	u, err := fetchUser(ctx, s.userRepo, userID)
	if err != nil {
		return err
	}

	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}
	if ev.Status == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, eventID)
	}

	if err := s.entRepo.GrantVip(ctx, u.ID, ev.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("grant vip: %w", err)
	}

	return nil
}

// UnlockScoreBet spends 1 key for exact-score access on one match.
func (s *EntitlementService) UnlockScoreBet(ctx context.Context, userID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntitlementService.UnlockScoreBet")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	u, err := fetchUser(ctx, s.userRepo, userID)
	if err != nil {
		return err
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if m.Started(s.now()) {
		return fmt.Errorf("%w: %s", match.ErrStarted, matchID)
	}

	if err := s.entRepo.UnlockScoreBet(ctx, u.ID, m.ID, s.now().UTC()); err != nil {
		return fmt.Errorf("unlock score bet: %w", err)
	}

	return nil
}

// HasExactScoreCapability reports whether the user may attach an
// exact score to the match: VIP on the owning event or a per-match
// unlock.
func (s *EntitlementService) HasExactScoreCapability(ctx context.Context, userID, matchID string) (bool, error) {
	m, exists, err := s.matchRepo.GetByID(ctx, strings.TrimSpace(matchID))
	if err != nil {
		return false, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	vip, err := s.entRepo.HasVip(ctx, userID, m.EventID)
	if err != nil {
		return false, fmt.Errorf("check vip: %w", err)
	}
	if vip {
		return true, nil
	}

	unlocked, err := s.entRepo.HasUnlock(ctx, userID, m.ID)
	if err != nil {
		return false, fmt.Errorf("check unlock: %w", err)
	}

	return unlocked, nil
}
