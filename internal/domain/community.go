package domain

import "time"

// Community is a named visibility partition for listings.
type Community struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}

// Membership joins a user to a community. One record per (community, user)
// pair, unique at the storage layer.
type Membership struct {
	ID          string
	CommunityID string
	UserID      string
	JoinedAt    time.Time
}
