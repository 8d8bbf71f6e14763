package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// UpsertBatch re-checks the prediction window with the event row
// locked, so a finalize that committed first makes the whole batch
// fail instead of letting a late edit through. Rewrites reset points
// to 0; the next rescore recomputes them.
func (r *PredictionRepository) UpsertBatch(ctx context.Context, eventID string, now time.Time, predictions []prediction.Prediction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert predictions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("public_id", eventID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock event query: %w", err)
	}

	var row eventTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("event %s not found", eventID)
		}
		return fmt.Errorf("lock event: %w", err)
	}
	if !eventFromRow(row).AcceptsPredictions(now) {
		return fmt.Errorf("%w: %s", event.ErrClosed, eventID)
	}

	for _, p := range predictions {
		query, args, err := qb.InsertModel("predictions", predictionInsertModel{
			UserID:       p.UserID,
			MatchID:      p.MatchID,
			Main:         string(p.Main),
			ScoreLocal:   intPtrToNullInt64(p.ScoreLocal),
			ScoreVisitor: intPtrToNullInt64(p.ScoreVisitor),
			Points:       0,
			UpdatedAt:    now,
		}, `ON CONFLICT (user_id, match_public_id)
DO UPDATE SET
    main_prediction = EXCLUDED.main_prediction,
    score_local = EXCLUDED.score_local,
    score_visitor = EXCLUDED.score_visitor,
    points = 0,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert prediction query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert prediction for match %s: %w", p.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by match query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

func (r *PredictionRepository) ListByUserAndMatchIDs(ctx context.Context, userID string, matchIDs []string) ([]prediction.Prediction, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(matchIDs))
	for _, id := range matchIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.In("match_public_id", values),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list predictions by user query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, predictionFromRow(row))
	}
	return out, nil
}

func (r *PredictionRepository) SetPoints(ctx context.Context, userID, matchID string, points int) error {
	query, args, err := qb.Update("predictions").
		Set("points", points).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("match_public_id", matchID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set prediction points query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set prediction points: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set prediction points rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("prediction for user %s match %s not found", userID, matchID)
	}
	return nil
}
