package repository

import (
	"context"
	"time"

	"rideboard/internal/domain"
)

// ListingScope selects which visibility partition a search covers.
type ListingScope string

const (
	// ScopePublic returns only listings with no community.
	ScopePublic ListingScope = "public"
	// ScopeCommunity returns only listings of Filter.CommunityID.
	ScopeCommunity ListingScope = "community"
	// ScopeAll returns public listings plus listings from
	// Filter.MemberCommunityIDs.
	ScopeAll ListingScope = "all"
)

// SortOrder orders search results by creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// Cursor is a decoded keyset pagination position: the creation time and id of
// the last listing on the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// ListingFilter describes a feed search. Only active listings are returned;
// the active predicate is evaluated against Now inside the query, joined with
// each owner's auto-expiry override.
type ListingFilter struct {
	Type               domain.ListingType // empty = both
	Scope              ListingScope
	CommunityID        string   // required when Scope is ScopeCommunity
	MemberCommunityIDs []string // visible communities when Scope is ScopeAll
	SortBy             SortOrder
	SearchText         string // matches start/end location and description
	Now                time.Time
	Limit              int
	Cursor             *Cursor
}

// ListingRepository defines the persistence operations for ride listings.
type ListingRepository interface {
	// Create persists a new listing.
	Create(ctx context.Context, listing *domain.Listing) error

	// GetByID retrieves a listing by ID.
	GetByID(ctx context.Context, id string) (*domain.Listing, error)

	// Update rewrites a listing's mutable fields. Ownership checks belong to
	// the service layer; the repository only reports ErrNotFound.
	Update(ctx context.Context, listing *domain.Listing) error

	// FindActiveForUser returns the user's current active listing, or
	// ErrNotFound. When several rows technically qualify the most recently
	// created wins (the domain assumes at most one current ride per user but
	// storage does not enforce it).
	FindActiveForUser(ctx context.Context, userID string, disableAutoExpiry bool, now time.Time) (*domain.Listing, error)

	// FindMostRecentExpired returns the newest listing that is archived or
	// past expiry for an owner without the auto-expiry override, or
	// ErrNotFound.
	FindMostRecentExpired(ctx context.Context, userID string, disableAutoExpiry bool, now time.Time) (*domain.Listing, error)

	// Search returns active listings matching the filter, at most Limit rows.
	// Callers that need to detect a following page ask for one row extra.
	Search(ctx context.Context, filter ListingFilter) ([]*domain.Listing, error)
}
