package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, ev event.Event) error {
	query, args, err := qb.InsertModel("events", eventInsertModel{
		PublicID:  ev.ID,
		Name:      ev.Name,
		Status:    string(ev.Status),
		CloseDate: ev.CloseDate,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event %s already exists", ev.ID)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (event.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event by id query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event by id: %w", err)
	}

	return eventFromRow(row), true, nil
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	return r.list(ctx, nil)
}

func (r *EventRepository) ListOpen(ctx context.Context) ([]event.Event, error) {
	return r.list(ctx, []qb.Condition{qb.Eq("status", string(event.StatusOpen))})
}

func (r *EventRepository) list(ctx context.Context, conditions []qb.Condition) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(conditions...).
		OrderBy("close_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

// MarkFinished flips open -> finished with the row locked, so two
// concurrent finalizes cannot both pass the status check.
func (r *EventRepository) MarkFinished(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mark finished tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Select("*").From("events").
		Where(qb.Eq("public_id", id)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock event query: %w", err)
	}

	var row eventTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("event %s not found", id)
		}
		return fmt.Errorf("lock event: %w", err)
	}
	if event.Status(row.Status) == event.StatusFinished {
		return fmt.Errorf("%w: %s", event.ErrFinished, id)
	}

	query, args, err = qb.Update("events").
		Set("status", string(event.StatusFinished)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build finish event query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("finish event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark finished tx: %w", err)
	}
	return nil
}

// Delete relies on the schema's ON DELETE CASCADE to drop the
// event's matches, predictions, vip grants and unlocks with it.
func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := qb.DeleteFrom("events").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete event query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete event rows affected: %w", err)
	}
	return affected > 0, nil
}
