package user

import "context"

// Repository exposes user read operations. Balance mutations live in
// the ledger and entitlement repositories so they stay inside the
// same transaction as the rows they pay for.
type Repository interface {
	GetByID(ctx context.Context, id string) (User, bool, error)
	ListByIDs(ctx context.Context, ids []string) ([]User, error)
	List(ctx context.Context) ([]User, error)
}
