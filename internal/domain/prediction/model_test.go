package prediction

import (
	"errors"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestOutcomeOf(t *testing.T) {
	cases := []struct {
		local, visitor int
		want           Outcome
	}{
		{3, 1, OutcomeLocal},
		{0, 2, OutcomeVisitor},
		{1, 1, OutcomeDraw},
		{0, 0, OutcomeDraw},
	}

	for _, tc := range cases {
		if got := OutcomeOf(tc.local, tc.visitor); got != tc.want {
			t.Fatalf("OutcomeOf(%d, %d) = %s, want %s", tc.local, tc.visitor, got, tc.want)
		}
	}
}

func TestPredictionValidate(t *testing.T) {
	base := Prediction{UserID: "u1", MatchID: "m1", Main: OutcomeLocal}

	if err := base.Validate(); err != nil {
		t.Fatalf("main-only prediction should be valid: %v", err)
	}

	withScore := base
	withScore.ScoreLocal = intPtr(2)
	withScore.ScoreVisitor = intPtr(0)
	if err := withScore.Validate(); err != nil {
		t.Fatalf("consistent exact score should be valid: %v", err)
	}

	invalidMain := base
	invalidMain.Main = "X"
	if err := invalidMain.Validate(); !errors.Is(err, ErrInvalidMain) {
		t.Fatalf("expected ErrInvalidMain, got %v", err)
	}

	negative := base
	negative.ScoreLocal = intPtr(-1)
	negative.ScoreVisitor = intPtr(0)
	if err := negative.Validate(); !errors.Is(err, ErrScoreNegative) {
		t.Fatalf("expected ErrScoreNegative, got %v", err)
	}

	inconsistent := base
	inconsistent.ScoreLocal = intPtr(1)
	inconsistent.ScoreVisitor = intPtr(1)
	if err := inconsistent.Validate(); !errors.Is(err, ErrScoreInconsistent) {
		t.Fatalf("expected ErrScoreInconsistent for draw score with L main, got %v", err)
	}

	oneSided := base
	oneSided.ScoreLocal = intPtr(2)
	if err := oneSided.Validate(); !errors.Is(err, ErrScoreInconsistent) {
		t.Fatalf("expected ErrScoreInconsistent for one-sided score, got %v", err)
	}

	drawExact := Prediction{UserID: "u1", MatchID: "m1", Main: OutcomeDraw,
		ScoreLocal: intPtr(0), ScoreVisitor: intPtr(0)}
	if err := drawExact.Validate(); err != nil {
		t.Fatalf("0-0 with E main should be valid: %v", err)
	}
}
