package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
	qb "github.com/fulbitoplay/prediction-pool/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by id query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("users").
		Where(qb.In("public_id", values)).
		OrderBy("username").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users by ids query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("*").From("users").
		OrderBy("username").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}
