package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the dev fixtures into an empty database. A
// database that already has users is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM users`); err != nil {
		return fmt.Errorf("count users for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, u := range memory.SeedUsers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO users (public_id, username, email, role, key_balance, is_active)
VALUES (:public_id, :username, :email, :role, :key_balance, :is_active)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":   u.ID,
			"username":    u.Username,
			"email":       u.Email,
			"role":        string(u.Role),
			"key_balance": u.KeyBalance,
			"is_active":   u.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed user %s query: %w", u.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	for _, ev := range memory.SeedEvents() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO events (public_id, name, status, close_date)
VALUES (:public_id, :name, :status, :close_date)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  ev.ID,
			"name":       ev.Name,
			"status":     string(ev.Status),
			"close_date": ev.CloseDate,
		})
		if err != nil {
			return fmt.Errorf("bind seed event %s query: %w", ev.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed event %s: %w", ev.ID, err)
		}
	}

	for _, m := range memory.SeedMatches() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (public_id, event_public_id, local_team, visitor_team, match_datetime)
VALUES (:public_id, :event_public_id, :local_team, :visitor_team, :match_datetime)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       m.ID,
			"event_public_id": m.EventID,
			"local_team":      m.LocalTeam,
			"visitor_team":    m.VisitorTeam,
			"match_datetime":  m.MatchDatetime,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %s query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	for _, k := range memory.SeedKeys() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO activation_keys (code, quantity, status)
VALUES (:code, :quantity, :status)
ON CONFLICT (code) DO NOTHING`, map[string]any{
			"code":     k.Code,
			"quantity": k.Quantity,
			"status":   string(k.Status),
		})
		if err != nil {
			return fmt.Errorf("bind seed activation key %s query: %w", k.Code, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed activation key %s: %w", k.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
