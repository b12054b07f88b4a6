package domain

import "time"

// User represents a board member.
type User struct {
	ID    string
	Name  string
	Email string
	Phone string

	// DisableAutoExpiry suppresses time-based expiry for every listing this
	// user owns. It lives on the user row, not in process state, and is
	// loaded per operation so toggling it takes effect on the next query.
	DisableAutoExpiry bool

	IsAdmin bool

	Verification Verification

	CreatedAt time.Time
}
