package domain

import "time"

// ListingType says which side of a ride a listing represents.
type ListingType string

const (
	ListingTypeOffering ListingType = "OFFERING"
	ListingTypeSeeking  ListingType = "SEEKING"
)

// Weekday names accepted in RecurringDays.
var ValidWeekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// Listing represents a ride listing on the board. A listing is never deleted by
// the system; it either expires by the clock (see expiry.go) or is archived by
// its owner.
type Listing struct {
	ID             string
	UserID         string // owner, immutable after creation
	Type           ListingType
	StartLocation  string
	EndLocation    string
	RideDate       string // "2006-01-02"
	RideTime       string // "15:04", informational only; expiry is day-granular
	SeatsAvailable int
	Description    string
	Phone          string
	CommunityID    string // empty = public feed
	RecurringDays  []string

	ExpiresAt  time.Time // set once at creation, never rewritten
	IsArchived bool      // owner's manual "mark done"
	CreatedAt  time.Time
}

// IsPublic reports whether the listing belongs to the public feed rather than
// a community.
func (l *Listing) IsPublic() bool {
	return l.CommunityID == ""
}
