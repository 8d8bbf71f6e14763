package postgres

import (
	"database/sql"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
)

type matchTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	EventID       string        `db:"event_public_id"`
	LocalTeam     string        `db:"local_team"`
	VisitorTeam   string        `db:"visitor_team"`
	MatchDatetime time.Time     `db:"match_datetime"`
	ResultLocal   sql.NullInt64 `db:"result_local"`
	ResultVisitor sql.NullInt64 `db:"result_visitor"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID      string    `db:"public_id"`
	EventID       string    `db:"event_public_id"`
	LocalTeam     string    `db:"local_team"`
	VisitorTeam   string    `db:"visitor_team"`
	MatchDatetime time.Time `db:"match_datetime"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.PublicID,
		EventID:       row.EventID,
		LocalTeam:     row.LocalTeam,
		VisitorTeam:   row.VisitorTeam,
		MatchDatetime: row.MatchDatetime,
		ResultLocal:   nullInt64ToIntPtr(row.ResultLocal),
		ResultVisitor: nullInt64ToIntPtr(row.ResultVisitor),
	}
}
