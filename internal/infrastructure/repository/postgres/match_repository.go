package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:      m.ID,
		EventID:       m.EventID,
		LocalTeam:     m.LocalTeam,
		VisitorTeam:   m.VisitorTeam,
		MatchDatetime: m.MatchDatetime,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("match %s already exists", m.ID)
		}
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByEvent(ctx context.Context, eventID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("event_public_id", eventID)).
		OrderBy("match_datetime", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("local_team", m.LocalTeam).
		Set("visitor_team", m.VisitorTeam).
		Set("match_datetime", m.MatchDatetime).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", m.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update match: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update match rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) SetResult(ctx context.Context, id string, resultLocal, resultVisitor int) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("result_local", resultLocal).
		Set("result_visitor", resultVisitor).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set match result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set match result: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set match result rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete match rows affected: %w", err)
	}
	return affected > 0, nil
}
