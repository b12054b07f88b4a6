package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsListingActive_ArchivedAlwaysInactive(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		expiresAt time.Time
		disable   bool
	}{
		{"future expiry", now.Add(24 * time.Hour), false},
		{"past expiry", now.Add(-24 * time.Hour), false},
		{"future expiry with override", now.Add(24 * time.Hour), true},
		{"past expiry with override", now.Add(-24 * time.Hour), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &Listing{IsArchived: true, ExpiresAt: tc.expiresAt}
			assert.False(t, IsListingActive(l, tc.disable, now))
		})
	}
}

func TestIsListingActive_OverrideIgnoresClock(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	l := &Listing{ExpiresAt: now.Add(-30 * 24 * time.Hour)} // long expired

	assert.False(t, IsListingActive(l, false, now))
	assert.True(t, IsListingActive(l, true, now))
}

func TestIsListingActive_ToggleReclassifiesWithoutMigration(t *testing.T) {
	// A stored listing expired by the clock flips to active the moment the
	// owner's override is observed as true; the listing itself is untouched.
	now := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)
	l := &Listing{ExpiresAt: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)}

	assert.False(t, IsListingActive(l, false, now))
	assert.True(t, IsListingActive(l, true, now))
	assert.False(t, l.IsArchived, "toggle must not mutate the listing")
}

func TestIsListingActive_ExpiryBoundaryIsStrict(t *testing.T) {
	expiresAt := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	l := &Listing{ExpiresAt: expiresAt}

	assert.True(t, IsListingActive(l, false, expiresAt.Add(-time.Second)))
	assert.False(t, IsListingActive(l, false, expiresAt), "expired at the boundary instant")
	assert.False(t, IsListingActive(l, false, expiresAt.Add(time.Minute)))
}

func TestExpiredOrArchived_IsExactNegationOfActive(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, archived := range []bool{false, true} {
		for _, disable := range []bool{false, true} {
			for _, expiresAt := range []time.Time{now.Add(-time.Hour), now, now.Add(time.Hour)} {
				l := &Listing{IsArchived: archived, ExpiresAt: expiresAt}
				active := IsListingActive(l, disable, now)
				past := IsListingExpiredOrArchived(l, disable, now)
				assert.NotEqual(t, active, past,
					"archived=%v disable=%v expiresAt=%v", archived, disable, expiresAt)
			}
		}
	}
}

func TestListingExpiry_EndOfDayBoundary(t *testing.T) {
	// A ride on March 10 expires at midnight starting March 11 in the board's
	// timezone, whatever the ride time was.
	expiresAt, err := ListingExpiry("2024-03-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), expiresAt)

	karachi, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)
	expiresAt, err = ListingExpiry("2024-03-10", karachi)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, karachi), expiresAt)
}

func TestListingExpiry_RejectsMalformedDate(t *testing.T) {
	_, err := ListingExpiry("10-03-2024", time.UTC)
	require.Error(t, err)
	_, err = ListingExpiry("", time.UTC)
	require.Error(t, err)
}

func TestListingExpiry_EveningRideExpiredNextMorning(t *testing.T) {
	// Ride today at 18:00; at 00:01 the next day the listing is inactive
	// unless the owner disabled auto-expiry.
	expiresAt, err := ListingExpiry("2024-03-10", time.UTC)
	require.NoError(t, err)

	l := &Listing{RideDate: "2024-03-10", RideTime: "18:00", ExpiresAt: expiresAt}
	next := time.Date(2024, 3, 11, 0, 1, 0, 0, time.UTC)

	assert.False(t, IsListingActive(l, false, next))
	assert.True(t, IsListingActive(l, true, next))
}
