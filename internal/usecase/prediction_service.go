package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

// PredictionEntry is one match pick inside a batch save.
type PredictionEntry struct {
	MatchID      string
	Main         string
	ScoreLocal   *int
	ScoreVisitor *int
}

type PredictionService struct {
	userRepo       user.Repository
	eventRepo      event.Repository
	matchRepo      match.Repository
	entRepo        entitlement.Repository
	predictionRepo prediction.Repository
	now            func() time.Time
}

func NewPredictionService(
	userRepo user.Repository,
	eventRepo event.Repository,
	matchRepo match.Repository,
	entRepo entitlement.Repository,
	predictionRepo prediction.Repository,
) *PredictionService {
	return &PredictionService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		matchRepo:      matchRepo,
		entRepo:        entRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// SavePredictions validates and stores the whole batch or nothing.
// Every entry must belong to the event, pass the temporal gates and,
// when it carries an exact score, be backed by a paid capability.
// The event gate is re-checked inside the repository transaction.
func (s *PredictionService) SavePredictions(ctx context.Context, userID, eventID string, entries []PredictionEntry) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SavePredictions")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: at least one prediction is required", ErrInvalidInput)
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

	now := s.now()
	if !ev.AcceptsPredictions(now) {
		return fmt.Errorf("%w: %s", event.ErrClosed, ev.ID)
	}

	matches, err := s.matchRepo.ListByEvent(ctx, ev.ID)
	if err != nil {
		return fmt.Errorf("list matches by event: %w", err)
	}
	matchesByID := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		matchesByID[m.ID] = m
	}

	isVip := false
	vipChecked := false

	batch := make([]prediction.Prediction, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		matchID := strings.TrimSpace(entry.MatchID)
		m, ok := matchesByID[matchID]
		if !ok {
			return fmt.Errorf("%w: match %s does not belong to event %s", ErrInvalidInput, matchID, ev.ID)
		}
		if _, dup := seen[matchID]; dup {
			return fmt.Errorf("%w: duplicate prediction for match %s", ErrInvalidInput, matchID)
		}
		seen[matchID] = struct{}{}

		if m.Started(now) {
			return fmt.Errorf("%w: %s", match.ErrStarted, m.ID)
		}

		p := prediction.Prediction{
			UserID:       u.ID,
			MatchID:      m.ID,
			Main:         prediction.Outcome(strings.ToUpper(strings.TrimSpace(entry.Main))),
			ScoreLocal:   entry.ScoreLocal,
			ScoreVisitor: entry.ScoreVisitor,
		}
		if err := p.Validate(); err != nil {
			return err
		}

		if p.HasExactScore() {
			if !vipChecked {
				isVip, err = s.entRepo.HasVip(ctx, u.ID, ev.ID)
				if err != nil {
					return fmt.Errorf("check vip: %w", err)
				}
				vipChecked = true
			}
			if !isVip {
				unlocked, err := s.entRepo.HasUnlock(ctx, u.ID, m.ID)
				if err != nil {
					return fmt.Errorf("check unlock: %w", err)
				}
				if !unlocked {
					return fmt.Errorf("%w: match %s", entitlement.ErrCapabilityMissing, m.ID)
				}
			}
		}

		batch = append(batch, p)
	}

	if err := s.predictionRepo.UpsertBatch(ctx, ev.ID, now.UTC(), batch); err != nil {
		return fmt.Errorf("save predictions: %w", err)
	}

	return nil
}
