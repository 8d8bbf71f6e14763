package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
	"github.com/fulbitoplay/prediction-pool/internal/platform/cache"
)

const leaderboardFetchConcurrency = 4

// LeaderboardRow is one standing in an event, already ranked.
// Equal totals share a rank; ties order by username.
type LeaderboardRow struct {
	Rank        int
	UserID      string
	Username    string
	Role        user.Role
	TotalPoints int
}

// LeaderboardService derives standings fresh from predictions on
// every read; nothing denormalized survives a rescore. A short-TTL
// cache with single-flight keeps hot events cheap and is invalidated
// by the scoring engine.
type LeaderboardService struct {
	eventRepo      event.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	userRepo       user.Repository
	cache          *cache.Store
}

func NewLeaderboardService(
	eventRepo event.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	userRepo user.Repository,
	ttl time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		eventRepo:      eventRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		cache:          cache.NewStore(ttl),
	}
}

func leaderboardCacheKey(eventID string) string {
	return "leaderboard:" + eventID
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, eventID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Leaderboard")
	defer span.End()

	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}

	_, exists, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	value, err := s.cache.GetOrLoad(ctx, leaderboardCacheKey(eventID), func(ctx context.Context) (any, error) {
		return s.aggregate(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]LeaderboardRow)
	if !ok {
		return nil, fmt.Errorf("unexpected leaderboard cache entry for event %s", eventID)
	}

	return rows, nil
}

// InvalidateEvent drops the cached standings; the scoring engine
// calls this in the same path that writes points.
func (s *LeaderboardService) InvalidateEvent(ctx context.Context, eventID string) {
	s.cache.Delete(ctx, leaderboardCacheKey(eventID))
}

func (s *LeaderboardService) aggregate(ctx context.Context, eventID string) ([]LeaderboardRow, error) {
	matches, err := s.matchRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list matches by event: %w", err)
	}
	if len(matches) == 0 {
		return []LeaderboardRow{}, nil
	}

	fetch := pool.NewWithResults[[]prediction.Prediction]().
		WithContext(ctx).
		WithMaxGoroutines(leaderboardFetchConcurrency)
	for _, m := range matches {
		matchID := m.ID
		fetch.Go(func(ctx context.Context) ([]prediction.Prediction, error) {
			return s.predictionRepo.ListByMatch(ctx, matchID)
		})
	}
	perMatch, err := fetch.Wait()
	if err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}

	totals := make(map[string]int)
	for _, predictions := range perMatch {
		for _, p := range predictions {
			totals[p.UserID] += p.Points
		}
	}
	if len(totals) == 0 {
		return []LeaderboardRow{}, nil
	}

	userIDs := make([]string, 0, len(totals))
	for id := range totals {
		userIDs = append(userIDs, id)
	}
	users, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}

	rows := make([]LeaderboardRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, LeaderboardRow{
			UserID:      u.ID,
			Username:    u.Username,
			Role:        u.Role,
			TotalPoints: totals[u.ID],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].Username < rows[j].Username
	})

	for i := range rows {
		if i > 0 && rows[i].TotalPoints == rows[i-1].TotalPoints {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}

	return rows, nil
}
