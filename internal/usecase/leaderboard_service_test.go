package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestLeaderboardAggregatesAndRanks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedMatchPredictions(t, env)

	// Second match: martina and joaquin both land a main-only hit so
	// the tie-break kicks in.
	if err := env.predictionSvc.SavePredictions(ctx, testMartinaID, testEventID, []PredictionEntry{
		{MatchID: testMatchID2, Main: "V"},
	}); err != nil {
		t.Fatalf("save predictions: %v", err)
	}
	if err := env.predictionSvc.SavePredictions(ctx, testJoaquinID, testEventID, []PredictionEntry{
		{MatchID: testMatchID2, Main: "V"},
	}); err != nil {
		t.Fatalf("save predictions: %v", err)
	}

	if err := env.scoringSvc.EnterResults(ctx, testAdminID, []MatchResultInput{
		{MatchID: testMatchID, ResultLocal: 3, ResultVisitor: 1},
		{MatchID: testMatchID2, ResultLocal: 0, ResultVisitor: 2},
	}); err != nil {
		t.Fatalf("enter results: %v", err)
	}

	rows, err := env.leaderboardSvc.Leaderboard(ctx, testEventID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// martina 3+1=4, joaquin 1+1=2, admin 0.
	if rows[0].Username != "martina" || rows[0].TotalPoints != 4 || rows[0].Rank != 1 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Username != "joaquin" || rows[1].TotalPoints != 2 || rows[1].Rank != 2 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
	if rows[2].Username != "admin" || rows[2].TotalPoints != 0 || rows[2].Rank != 3 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
}

func TestLeaderboardTieBreakByUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, userID := range []string{testMartinaID, testJoaquinID} {
		if err := env.predictionSvc.SavePredictions(ctx, userID, testEventID, []PredictionEntry{
			{MatchID: testMatchID, Main: "L"},
		}); err != nil {
			t.Fatalf("save predictions: %v", err)
		}
	}

	if err := env.scoringSvc.EnterResults(ctx, testAdminID, []MatchResultInput{
		{MatchID: testMatchID, ResultLocal: 2, ResultVisitor: 0},
	}); err != nil {
		t.Fatalf("enter results: %v", err)
	}

	rows, err := env.leaderboardSvc.Leaderboard(ctx, testEventID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Username != "joaquin" || rows[1].Username != "martina" {
		t.Fatalf("equal points must order by username: %+v", rows)
	}
	if rows[0].Rank != 1 || rows[1].Rank != 1 {
		t.Fatalf("equal points must share a rank: %+v", rows)
	}
}

func TestLeaderboardUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.leaderboardSvc.Leaderboard(context.Background(), "evt-ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardCacheInvalidatedByScoring(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedMatchPredictions(t, env)

	if err := env.scoringSvc.EnterResults(ctx, testAdminID, []MatchResultInput{
		{MatchID: testMatchID, ResultLocal: 3, ResultVisitor: 1},
	}); err != nil {
		t.Fatalf("enter results: %v", err)
	}

	rows, err := env.leaderboardSvc.Leaderboard(ctx, testEventID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if rows[0].TotalPoints != 3 {
		t.Fatalf("expected 3 points before correction, got %d", rows[0].TotalPoints)
	}

	// Correcting the result must bust the cached standings.
	if err := env.scoringSvc.EnterResults(ctx, testAdminID, []MatchResultInput{
		{MatchID: testMatchID, ResultLocal: 1, ResultVisitor: 1},
	}); err != nil {
		t.Fatalf("correct results: %v", err)
	}

	rows, err = env.leaderboardSvc.Leaderboard(ctx, testEventID)
	if err != nil {
		t.Fatalf("leaderboard after correction: %v", err)
	}
	if rows[0].Username != "admin" || rows[0].TotalPoints != 1 {
		t.Fatalf("stale standings served after rescore: %+v", rows[0])
	}
}
