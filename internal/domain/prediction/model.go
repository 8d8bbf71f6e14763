package prediction

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMain rejects a main prediction outside {L, E, V}.
var ErrInvalidMain = errors.New("invalid main prediction")

// ErrScoreNegative rejects a negative exact-score side.
var ErrScoreNegative = errors.New("exact score cannot be negative")

// ErrScoreInconsistent rejects an exact score that contradicts the
// main prediction, or a score with only one side filled in.
var ErrScoreInconsistent = errors.New("exact score inconsistent with main prediction")

// Outcome is the 1X2 result from the local team's point of view:
// L local win, E draw, V visitor win.
type Outcome string

const (
	OutcomeLocal   Outcome = "L"
	OutcomeDraw    Outcome = "E"
	OutcomeVisitor Outcome = "V"
)

func (o Outcome) Valid() bool {
	switch o {
	case OutcomeLocal, OutcomeDraw, OutcomeVisitor:
		return true
	}
	return false
}

// OutcomeOf derives the outcome from a real score.
func OutcomeOf(local, visitor int) Outcome {
	switch {
	case local > visitor:
		return OutcomeLocal
	case visitor > local:
		return OutcomeVisitor
	}
	return OutcomeDraw
}

// Prediction is one user's pick for one match. The exact score is
// optional and gated by a paid capability; Points is written by the
// scoring engine and starts at 0.
type Prediction struct {
	UserID       string
	MatchID      string
	Main         Outcome
	ScoreLocal   *int
	ScoreVisitor *int
	Points       int
	UpdatedAt    time.Time
}

func (p Prediction) HasExactScore() bool {
	return p.ScoreLocal != nil && p.ScoreVisitor != nil
}

func (p Prediction) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("prediction user id is required")
	}
	if p.MatchID == "" {
		return fmt.Errorf("prediction match id is required")
	}
	if !p.Main.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMain, p.Main)
	}

	if p.ScoreLocal == nil && p.ScoreVisitor == nil {
		return nil
	}
	if p.ScoreLocal == nil || p.ScoreVisitor == nil {
		return fmt.Errorf("%w: both sides are required", ErrScoreInconsistent)
	}
	if *p.ScoreLocal < 0 || *p.ScoreVisitor < 0 {
		return fmt.Errorf("%w: %d-%d", ErrScoreNegative, *p.ScoreLocal, *p.ScoreVisitor)
	}
	if OutcomeOf(*p.ScoreLocal, *p.ScoreVisitor) != p.Main {
		return fmt.Errorf("%w: %d-%d vs %s", ErrScoreInconsistent, *p.ScoreLocal, *p.ScoreVisitor, p.Main)
	}

	return nil
}
