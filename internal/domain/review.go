package domain

import "time"

// Review is a rider's rating of a listing's poster after a ride.
// One review per (listing, reviewer) pair.
type Review struct {
	ID         string
	ListingID  string
	ReviewerID string
	Rating     int // 1..5
	Comment    string
	CreatedAt  time.Time
}
