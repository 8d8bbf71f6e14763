package postgres

import (
	"database/sql"
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
)

type activationKeyTableModel struct {
	ID         int64          `db:"id"`
	Code       string         `db:"code"`
	Quantity   int            `db:"quantity"`
	Status     string         `db:"status"`
	RedeemedBy sql.NullString `db:"redeemed_by"`
	RedeemedAt sql.NullTime   `db:"redeemed_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

type activationKeyInsertModel struct {
	Code      string    `db:"code"`
	Quantity  int       `db:"quantity"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

func activationKeyFromRow(row activationKeyTableModel) ledger.ActivationKey {
	return ledger.ActivationKey{
		Code:       row.Code,
		Quantity:   row.Quantity,
		Status:     ledger.KeyStatus(row.Status),
		RedeemedBy: row.RedeemedBy.String,
		RedeemedAt: nullTimeToTimePtr(row.RedeemedAt),
		CreatedAt:  row.CreatedAt,
	}
}
