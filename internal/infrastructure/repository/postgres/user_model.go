package postgres

import (
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

type userTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	Username   string    `db:"username"`
	Email      string    `db:"email"`
	Role       string    `db:"role"`
	KeyBalance int       `db:"key_balance"`
	IsActive   bool      `db:"is_active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:         row.PublicID,
		Username:   row.Username,
		Email:      row.Email,
		Role:       user.Role(row.Role),
		KeyBalance: row.KeyBalance,
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt,
	}
}
