package usecase

import (
	"context"
	"fmt"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

type Profile struct {
	User        user.User
	VipEventIDs []string
}

type KeyUsageStats struct {
	Keys         ledger.UsageStats
	VipByEvent   []entitlement.EventVipCount
	TotalUnlocks int
}

// AccountService covers the read-side views around a user: the
// profile and the admin reports. Account creation and auth live in
// the external account service.
type AccountService struct {
	userRepo   user.Repository
	ledgerRepo ledger.Repository
	entRepo    entitlement.Repository
}

func NewAccountService(
	userRepo user.Repository,
	ledgerRepo ledger.Repository,
	entRepo entitlement.Repository,
) *AccountService {
	return &AccountService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		entRepo:    entRepo,
	}
}

func (s *AccountService) Profile(ctx context.Context, userID string) (Profile, error) {
	u, err := fetchUser(ctx, s.userRepo, userID)
	if err != nil {
		return Profile{}, err
	}

	vipEvents, err := s.entRepo.ListVipEvents(ctx, u.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("list vip events: %w", err)
	}

	return Profile{User: u, VipEventIDs: vipEvents}, nil
}

func (s *AccountService) ListUsers(ctx context.Context, actorID string) ([]user.User, error) {
	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (s *AccountService) KeyUsageStats(ctx context.Context, actorID string) (KeyUsageStats, error) {
	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return KeyUsageStats{}, err
	}

	keys, err := s.ledgerRepo.UsageStats(ctx)
	if err != nil {
		return KeyUsageStats{}, fmt.Errorf("key usage stats: %w", err)
	}

	vipByEvent, err := s.entRepo.CountVipByEvent(ctx)
	if err != nil {
		return KeyUsageStats{}, fmt.Errorf("count vip by event: %w", err)
	}

	unlocks, err := s.entRepo.CountUnlocks(ctx)
	if err != nil {
		return KeyUsageStats{}, fmt.Errorf("count unlocks: %w", err)
	}

	return KeyUsageStats{
		Keys:         keys,
		VipByEvent:   vipByEvent,
		TotalUnlocks: unlocks,
	}, nil
}
