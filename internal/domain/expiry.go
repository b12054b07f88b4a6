package domain

import "time"

// Expiry is evaluated lazily at read time. There is no background sweep and no
// persisted "expired" flag: whether a listing is active is purely a function of
// the clock, the listing's fields, and the owner's auto-expiry override. This
// keeps the override retroactive: toggling it reclassifies existing rows on the
// very next read, with no migration.

// IsListingActive reports whether a listing is currently visible and joinable.
// A listing is active iff it is not archived and either the owner has disabled
// auto-expiry or the expiry timestamp is still in the future.
func IsListingActive(l *Listing, ownerDisablesAutoExpiry bool, now time.Time) bool {
	return !l.IsArchived && (ownerDisablesAutoExpiry || l.ExpiresAt.After(now))
}

// IsListingExpiredOrArchived reports whether a listing belongs to the
// "most recent past listing" result set. It is the exact negation of
// IsListingActive, so no listing can be both active and expired-or-archived
// at the same instant: with the owner's override on, an unarchived listing
// past its timestamp stays active and is not a "past listing".
func IsListingExpiredOrArchived(l *Listing, ownerDisablesAutoExpiry bool, now time.Time) bool {
	return l.IsArchived || (!ownerDisablesAutoExpiry && !l.ExpiresAt.After(now))
}

// ListingExpiry computes the expiry timestamp for a ride on the given date:
// midnight at the start of the following day, in loc. The comparison in
// IsListingActive is strict, so at 00:00:00 sharp the listing is already
// expired.
func ListingExpiry(rideDate string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", rideDate, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.AddDate(0, 0, 1), nil
}
