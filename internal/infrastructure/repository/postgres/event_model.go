package postgres

import (
	"time"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
)

type eventTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CloseDate time.Time `db:"close_date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type eventInsertModel struct {
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CloseDate time.Time `db:"close_date"`
}

func eventFromRow(row eventTableModel) event.Event {
	return event.Event{
		ID:        row.PublicID,
		Name:      row.Name,
		Status:    event.Status(row.Status),
		CloseDate: row.CloseDate,
		CreatedAt: row.CreatedAt,
	}
}
