package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/domain/entitlement"
	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

type EntitlementRepository struct {
	db *sqlx.DB
}

func NewEntitlementRepository(db *sqlx.DB) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// GrantVip locks the user row before re-checking the gates, so the
// debit and the grant land together and the balance stays >= 0 under
// concurrent spends.
func (r *EntitlementRepository) GrantVip(ctx context.Context, userID, eventID string, now time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grant vip tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	balance, err := lockUserBalance(ctx, tx, userID)
	if err != nil {
		return err
	}

	ev, err := getEventForShare(ctx, tx, eventID)
	if err != nil {
		return err
	}
	if ev.Status == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, eventID)
	}

	exists, err := existsIn(ctx, tx, "vip_statuses",
		qb.Eq("user_id", userID),
		qb.Eq("event_public_id", eventID),
	)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: event %s", entitlement.ErrAlreadyVip, eventID)
	}

	if balance < 1 {
		return fmt.Errorf("%w: balance %d", ledger.ErrInsufficientBalance, balance)
	}
	if err := debitUser(ctx, tx, userID, 1); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("vip_statuses", vipStatusInsertModel{
		UserID:    userID,
		EventID:   eventID,
		GrantedAt: now,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert vip status query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: event %s", entitlement.ErrAlreadyVip, eventID)
		}
		return fmt.Errorf("insert vip status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grant vip tx: %w", err)
	}
	return nil
}

// UnlockScoreBet follows the same lock order as GrantVip: user row
// first, then the gates.
func (r *EntitlementRepository) UnlockScoreBet(ctx context.Context, userID, matchID string, now time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unlock score bet tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	balance, err := lockUserBalance(ctx, tx, userID)
	if err != nil {
		return err
	}

	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build get match query: %w", err)
	}

	var m matchTableModel
	if err := tx.GetContext(ctx, &m, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("match %s not found", matchID)
		}
		return fmt.Errorf("get match: %w", err)
	}
	if !now.Before(m.MatchDatetime) {
		return fmt.Errorf("%w: %s", match.ErrStarted, matchID)
	}

	ev, err := getEventForShare(ctx, tx, m.EventID)
	if err != nil {
		return err
	}
	if ev.Status == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, m.EventID)
	}

	exists, err := existsIn(ctx, tx, "unlocked_score_bets",
		qb.Eq("user_id", userID),
		qb.Eq("match_public_id", matchID),
	)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: match %s", entitlement.ErrAlreadyUnlocked, matchID)
	}

	if balance < 1 {
		return fmt.Errorf("%w: balance %d", ledger.ErrInsufficientBalance, balance)
	}
	if err := debitUser(ctx, tx, userID, 1); err != nil {
		return err
	}

	query, args, err = qb.InsertModel("unlocked_score_bets", scoreUnlockInsertModel{
		UserID:     userID,
		MatchID:    matchID,
		UnlockedAt: now,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert score unlock query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: match %s", entitlement.ErrAlreadyUnlocked, matchID)
		}
		return fmt.Errorf("insert score unlock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unlock score bet tx: %w", err)
	}
	return nil
}

func (r *EntitlementRepository) HasVip(ctx context.Context, userID, eventID string) (bool, error) {
	return existsIn(ctx, r.db, "vip_statuses",
		qb.Eq("user_id", userID),
		qb.Eq("event_public_id", eventID),
	)
}

func (r *EntitlementRepository) HasUnlock(ctx context.Context, userID, matchID string) (bool, error) {
	return existsIn(ctx, r.db, "unlocked_score_bets",
		qb.Eq("user_id", userID),
		qb.Eq("match_public_id", matchID),
	)
}

func (r *EntitlementRepository) ListVipEvents(ctx context.Context, userID string) ([]string, error) {
	query, args, err := qb.Select("event_public_id").From("vip_statuses").
		Where(qb.Eq("user_id", userID)).
		OrderBy("granted_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list vip events query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list vip events: %w", err)
	}
	return out, nil
}

func (r *EntitlementRepository) ListUnlockedMatches(ctx context.Context, userID, eventID string) ([]string, error) {
	query, args, err := qb.Select("u.match_public_id").From("unlocked_score_bets u").
		Join("JOIN matches m ON m.public_id = u.match_public_id").
		Where(
			qb.Eq("u.user_id", userID),
			qb.Eq("m.event_public_id", eventID),
		).
		OrderBy("u.unlocked_at", "u.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list unlocked matches query: %w", err)
	}

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list unlocked matches: %w", err)
	}
	return out, nil
}

func (r *EntitlementRepository) CountVipByEvent(ctx context.Context) ([]entitlement.EventVipCount, error) {
	query, args, err := qb.Select(
		"e.public_id AS event_public_id",
		"e.name AS name",
		"COUNT(v.id) AS vip_count",
	).From("events e").
		Join("LEFT JOIN vip_statuses v ON v.event_public_id = e.public_id").
		GroupBy("e.public_id", "e.name", "e.close_date", "e.id").
		OrderBy("e.close_date", "e.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count vip by event query: %w", err)
	}

	var rows []eventVipCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count vip by event: %w", err)
	}

	out := make([]entitlement.EventVipCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, entitlement.EventVipCount{
			EventID:   row.EventID,
			EventName: row.EventName,
			Count:     row.Count,
		})
	}
	return out, nil
}

func (r *EntitlementRepository) CountUnlocks(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("unlocked_score_bets").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count unlocks query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count unlocks: %w", err)
	}
	return count, nil
}

// lockUserBalance takes the user row lock that serializes every key
// spend for one user.
func lockUserBalance(ctx context.Context, tx *sqlx.Tx, userID string) (int, error) {
	query, args, err := qb.Select("key_balance").From("users").
		Where(qb.Eq("public_id", userID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build lock user query: %w", err)
	}

	var balance int
	if err := tx.GetContext(ctx, &balance, query, args...); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("user %s not found", userID)
		}
		return 0, fmt.Errorf("lock user: %w", err)
	}
	return balance, nil
}

func debitUser(ctx context.Context, tx *sqlx.Tx, userID string, amount int) error {
	query, args, err := qb.Update("users").
		SetExpr("key_balance", "key_balance - ?", amount).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build debit balance query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	return nil
}

func getEventForShare(ctx context.Context, tx *sqlx.Tx, eventID string) (event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("public_id", eventID)).
		Suffix("FOR SHARE").
		ToSQL()
	if err != nil {
		return event.Event{}, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, fmt.Errorf("event %s not found", eventID)
		}
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	return eventFromRow(row), nil
}

func existsIn(ctx context.Context, q sqlx.QueryerContext, table string, conditions ...qb.Condition) (bool, error) {
	query, args, err := qb.Select("1").From(table).
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build exists query for %s: %w", table, err)
	}

	var one int
	if err := sqlx.GetContext(ctx, q, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists query for %s: %w", table, err)
	}
	return true, nil
}
