package postgres

import (
	"database/sql"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
)

type predictionTableModel struct {
	ID           int64         `db:"id"`
	UserID       string        `db:"user_id"`
	MatchID      string        `db:"match_public_id"`
	Main         string        `db:"main_prediction"`
	ScoreLocal   sql.NullInt64 `db:"score_local"`
	ScoreVisitor sql.NullInt64 `db:"score_visitor"`
	Points       int           `db:"points"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type predictionInsertModel struct {
	UserID       string        `db:"user_id"`
	MatchID      string        `db:"match_public_id"`
	Main         string        `db:"main_prediction"`
	ScoreLocal   sql.NullInt64 `db:"score_local"`
	ScoreVisitor sql.NullInt64 `db:"score_visitor"`
	Points       int           `db:"points"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		UserID:       row.UserID,
		MatchID:      row.MatchID,
		Main:         prediction.Outcome(row.Main),
		ScoreLocal:   nullInt64ToIntPtr(row.ScoreLocal),
		ScoreVisitor: nullInt64ToIntPtr(row.ScoreVisitor),
		Points:       row.Points,
		UpdatedAt:    row.UpdatedAt,
	}
}
