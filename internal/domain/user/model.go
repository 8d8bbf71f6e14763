package user

import "time"

type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// User is a registered participant. Accounts are created and
// authenticated by the external account service; this side only
// reads identity and owns the key balance.
type User struct {
	ID         string
	Username   string
	Email      string
	Role       Role
	KeyBalance int
	IsActive   bool
	CreatedAt  time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
