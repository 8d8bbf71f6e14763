package memory

import (
	"context"

	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, false, nil
	}

	return u, true, nil
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []string) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}

	return out, nil
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]user.User, 0, len(r.s.userOrder))
	for _, id := range r.s.userOrder {
		out = append(out, r.s.users[id])
	}

	return out, nil
}
