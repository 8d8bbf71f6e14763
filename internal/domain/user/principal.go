package user

// Principal is the identity resolved from a verified access token.
// Role and balance come from the local user row, not the token.
type Principal struct {
	UserID string
	Email  string
}
