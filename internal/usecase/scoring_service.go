package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

const (
	pointsMainCorrect  = 1
	pointsExactBonus   = 2
	defaultRescorePool = 4
)

// MatchResultInput is one real score entered by an admin.
type MatchResultInput struct {
	MatchID       string
	ResultLocal   int
	ResultVisitor int
}

// leaderboardView is what the scoring engine needs from the
// leaderboard side: invalidation after every rescore and a snapshot
// on finalize.
type leaderboardView interface {
	Leaderboard(ctx context.Context, eventID string) ([]LeaderboardRow, error)
	InvalidateEvent(ctx context.Context, eventID string)
}

// ScoringService turns real scores into points. Scoring is a pure
// function of the stored predictions and results, so running it
// twice is harmless.
type ScoringService struct {
	userRepo       user.Repository
	eventRepo      event.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	leaderboard    leaderboardView
	poolSize       int
	now            func() time.Time
}

func NewScoringService(
	userRepo user.Repository,
	eventRepo event.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
) *ScoringService {
	return &ScoringService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		poolSize:       defaultRescorePool,
		now:            time.Now,
	}
}

// SetLeaderboard wires the leaderboard after construction; the two
// services reference each other.
func (s *ScoringService) SetLeaderboard(lb leaderboardView) {
	s.leaderboard = lb
}

// predictionPoints applies the scoring table: 1 point for the right
// outcome, +2 more when the exact score also matches. The bonus is
// nested, so a wrong outcome is always 0 even if the score digits
// happen to line up.
func predictionPoints(p prediction.Prediction, resultLocal, resultVisitor int) int {
	if p.Main != prediction.OutcomeOf(resultLocal, resultVisitor) {
		return 0
	}

	points := pointsMainCorrect
	if p.HasExactScore() && *p.ScoreLocal == resultLocal && *p.ScoreVisitor == resultVisitor {
		points += pointsExactBonus
	}

	return points
}

// ScoreMatch recomputes points for every prediction on the match.
// A match without a complete result is skipped, not an error.
// Returns the number of predictions written.
func (s *ScoringService) ScoreMatch(ctx context.Context, matchID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return 0, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !m.HasResult() {
		return 0, nil
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("list predictions by match: %w", err)
	}

	for _, p := range predictions {
		points := predictionPoints(p, *m.ResultLocal, *m.ResultVisitor)
		if err := s.predictionRepo.SetPoints(ctx, p.UserID, p.MatchID, points); err != nil {
			return 0, fmt.Errorf("set points for user %s match %s: %w", p.UserID, p.MatchID, err)
		}
	}

	if s.leaderboard != nil {
		s.leaderboard.InvalidateEvent(ctx, m.EventID)
	}

	return len(predictions), nil
}

// EnterResults writes real scores and rescores the affected matches.
// Admin only. Result batches span a whole round, so the rescoring
// runs on a bounded worker pool. Corrections after finalization go
// through here too: rescoring stays idempotent and the event status
// is untouched.
func (s *ScoringService) EnterResults(ctx context.Context, actorID string, results []MatchResultInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EnterResults")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: at least one result is required", ErrInvalidInput)
	}

	// The whole batch is validated and resolved before the first write:
	// a bad entry must not leave earlier results persisted but unscored.
	type resolvedResult struct {
		matchID       string
		eventID       string
		resultLocal   int
		resultVisitor int
	}
	resolved := make([]resolvedResult, 0, len(results))
	for _, r := range results {
		matchID := strings.TrimSpace(r.MatchID)
		if matchID == "" {
			return fmt.Errorf("%w: result match id is required", ErrInvalidInput)
		}
		if r.ResultLocal < 0 || r.ResultVisitor < 0 {
			return fmt.Errorf("%w: result score cannot be negative", ErrInvalidInput)
		}

		m, exists, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return fmt.Errorf("get match by id: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}

		resolved = append(resolved, resolvedResult{
			matchID:       m.ID,
			eventID:       m.EventID,
			resultLocal:   r.ResultLocal,
			resultVisitor: r.ResultVisitor,
		})
	}

	matchIDs := make([]string, 0, len(resolved))
	eventIDs := make(map[string]struct{}, 2)
	var writeErr error
	for _, r := range resolved {
		if _, err := s.matchRepo.SetResult(ctx, r.matchID, r.resultLocal, r.resultVisitor); err != nil {
			writeErr = fmt.Errorf("set result for match %s: %w", r.matchID, err)
			break
		}
		matchIDs = append(matchIDs, r.matchID)
		eventIDs[r.eventID] = struct{}{}
	}

	// Even when a later write failed, whatever was persisted gets
	// rescored and invalidated so stored points never lag stored results.
	if err := s.rescoreMatches(ctx, matchIDs); err != nil && writeErr == nil {
		writeErr = err
	}

	if s.leaderboard != nil {
		for eventID := range eventIDs {
			s.leaderboard.InvalidateEvent(ctx, eventID)
		}
	}

	return writeErr
}

// FinalizeEvent rescores every match, closes the event for good and
// returns the final standings. Admin only; a second call fails with
// event.ErrFinished.
func (s *ScoringService) FinalizeEvent(ctx context.Context, actorID, eventID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.FinalizeEvent")
	defer span.End()

	if _, err := requireAdmin(ctx, s.userRepo, actorID); err != nil {
		return nil, err
	}

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	ev, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}
	if ev.Status == event.StatusFinished {
		return nil, fmt.Errorf("%w: %s", event.ErrFinished, ev.ID)
	}

	matches, err := s.matchRepo.ListByEvent(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches by event: %w", err)
	}

	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}
	if err := s.rescoreMatches(ctx, matchIDs); err != nil {
		return nil, err
	}

	if err := s.eventRepo.MarkFinished(ctx, ev.ID); err != nil {
		return nil, fmt.Errorf("finalize event: %w", err)
	}

	if s.leaderboard == nil {
		return nil, nil
	}

	s.leaderboard.InvalidateEvent(ctx, ev.ID)
	standings, err := s.leaderboard.Leaderboard(ctx, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard snapshot: %w", err)
	}

	return standings, nil
}

func (s *ScoringService) rescoreMatches(ctx context.Context, matchIDs []string) error {
	if len(matchIDs) == 0 {
		return nil
	}

	size := s.poolSize
	if size <= 0 {
		size = defaultRescorePool
	}
	if size > len(matchIDs) {
		size = len(matchIDs)
	}

	workers, err := ants.NewPool(size)
	if err != nil {
		return fmt.Errorf("create rescore pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, matchID := range matchIDs {
		matchID := matchID
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			if _, err := s.ScoreMatch(ctx, matchID); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit rescore for match %s: %w", matchID, submitErr)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	return firstErr
}
