package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

func fetchUser(ctx context.Context, repo user.Repository, userID string) (user.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	u, exists, err := repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by id: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return u, nil
}

func requireAdmin(ctx context.Context, repo user.Repository, actorID string) (user.User, error) {
	u, err := fetchUser(ctx, repo, actorID)
	if err != nil {
		return user.User{}, err
	}
	if !u.IsAdmin() {
		return user.User{}, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}

	return u, nil
}
