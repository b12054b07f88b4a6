package service

import "errors"

var (
	// ErrInvalidUserID is returned when the caller's user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidListingID is returned when a listing ID is empty.
	ErrInvalidListingID = errors.New("invalid listing id")

	// ErrInvalidListingType is returned when the type is not OFFERING or SEEKING.
	ErrInvalidListingType = errors.New("invalid listing type")

	// ErrMissingLocation is returned when start or end location is empty.
	ErrMissingLocation = errors.New("start and end location are required")

	// ErrInvalidRideDate is returned when the ride date does not parse.
	ErrInvalidRideDate = errors.New("invalid ride date")

	// ErrInvalidRecurringDay is returned when a recurring day is not a weekday name.
	ErrInvalidRecurringDay = errors.New("invalid recurring day")

	// ErrNotListingOwner is returned when a caller mutates a listing they do
	// not own. Maps to 403, not 404.
	ErrNotListingOwner = errors.New("caller does not own this listing")

	// ErrNotCommunityMember is returned when a caller requests a
	// community-scoped feed for a community they have not joined.
	ErrNotCommunityMember = errors.New("caller is not a member of this community")

	// ErrAlreadyMember is returned on a duplicate community join.
	ErrAlreadyMember = errors.New("already a member of this community")

	// ErrInvalidCommunityName is returned when a community name is empty.
	ErrInvalidCommunityName = errors.New("community name is required")

	// ErrAlreadyVerified is returned when a user submits verification images
	// while already verified.
	ErrAlreadyVerified = errors.New("profile is already verified")

	// ErrInvalidStateTransition is returned when a verification transition is
	// attempted from a state that forbids it.
	ErrInvalidStateTransition = errors.New("invalid verification state transition")

	// ErrMissingVerificationImages is returned when a submission lacks the
	// front or back image.
	ErrMissingVerificationImages = errors.New("front and back images are required")

	// ErrMissingRejectionReason is returned when a rejection has no reason.
	ErrMissingRejectionReason = errors.New("rejection reason is required")

	// ErrMissingNICNumber is returned when an approval has no NIC number.
	ErrMissingNICNumber = errors.New("nic number is required")

	// ErrInvalidScope is returned when the feed scope is not public,
	// community, or all.
	ErrInvalidScope = errors.New("invalid feed scope")

	// ErrInvalidSortOrder is returned when the feed sort is not newest or oldest.
	ErrInvalidSortOrder = errors.New("invalid sort order")

	// ErrBadCursor is returned when a feed cursor token does not decode.
	ErrBadCursor = errors.New("malformed feed cursor")

	// ErrRatingOutOfRange is returned when a review rating is not in 1..5.
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

	// ErrDuplicateReview is returned when a reviewer reviews the same listing twice.
	ErrDuplicateReview = errors.New("listing already reviewed by this user")

	// ErrOwnListingReview is returned when a poster reviews their own listing.
	ErrOwnListingReview = errors.New("cannot review your own listing")
)
