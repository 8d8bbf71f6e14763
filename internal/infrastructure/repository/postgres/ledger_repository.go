package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateKey(ctx context.Context, key ledger.ActivationKey) error {
	// The row stores the same timestamp the caller hands back, so
	// GenerateKey's returned key matches what a later read sees.
	query, args, err := qb.InsertModel("activation_keys", activationKeyInsertModel{
		Code:      key.Code,
		Quantity:  key.Quantity,
		Status:    string(ledger.KeyStatusAvailable),
		CreatedAt: key.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert activation key query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ledger.ErrCodeCollision, key.Code)
		}
		return fmt.Errorf("insert activation key: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetKey(ctx context.Context, code string) (ledger.ActivationKey, bool, error) {
	query, args, err := qb.Select("*").From("activation_keys").
		Where(qb.Eq("code", code)).
		ToSQL()
	if err != nil {
		return ledger.ActivationKey{}, false, fmt.Errorf("build get activation key query: %w", err)
	}

	var row activationKeyTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ledger.ActivationKey{}, false, nil
		}
		return ledger.ActivationKey{}, false, fmt.Errorf("get activation key: %w", err)
	}

	return activationKeyFromRow(row), true, nil
}

// Redeem locks the key row first, so two racing redeems of the same
// code serialize and the loser sees status = used.
func (r *LedgerRepository) Redeem(ctx context.Context, userID, code string, now time.Time) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin redeem tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Select("*").From("activation_keys").
		Where(
			qb.Eq("code", code),
			qb.Eq("status", string(ledger.KeyStatusAvailable)),
		).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build lock activation key query: %w", err)
	}

	var row activationKeyTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: %s", ledger.ErrKeyNotFound, code)
		}
		return 0, fmt.Errorf("lock activation key: %w", err)
	}

	query, args, err = qb.Update("activation_keys").
		Set("status", string(ledger.KeyStatusUsed)).
		Set("redeemed_by", userID).
		Set("redeemed_at", now).
		Where(qb.Eq("code", code)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build consume activation key query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("consume activation key: %w", err)
	}

	query, args, err = qb.Update("users").
		SetExpr("key_balance", "key_balance + ?", row.Quantity).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", userID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build credit balance query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("credit balance rows affected: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("user %s not found", userID)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit redeem tx: %w", err)
	}
	return row.Quantity, nil
}

func (r *LedgerRepository) UsageStats(ctx context.Context) (ledger.UsageStats, error) {
	query, args, err := qb.Select(
		"COUNT(*) AS keys_issued",
		"COUNT(*) FILTER (WHERE status = 'used') AS keys_redeemed",
	).From("activation_keys").ToSQL()
	if err != nil {
		return ledger.UsageStats{}, fmt.Errorf("build key usage stats query: %w", err)
	}

	var row struct {
		KeysIssued   int `db:"keys_issued"`
		KeysRedeemed int `db:"keys_redeemed"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return ledger.UsageStats{}, fmt.Errorf("key usage stats: %w", err)
	}

	return ledger.UsageStats{
		KeysIssued:   row.KeysIssued,
		KeysRedeemed: row.KeysRedeemed,
	}, nil
}
