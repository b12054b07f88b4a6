package repository

import (
	"context"
	"time"

	"rideboard/internal/domain"
)

// UserRepository defines persistence operations for users, including the
// verification sub-record. The verification transitions are conditional
// updates: each succeeds only if the record is still in the expected state at
// commit time, and returns ErrStateMismatch otherwise.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// SetDisableAutoExpiry toggles the owner's auto-expiry override.
	SetDisableAutoExpiry(ctx context.Context, userID string, disable bool) error

	// SetVerificationPending records a submission: pending images replaced,
	// submission time stamped, rejection fields cleared, status PENDING.
	// Condition: status is not VERIFIED.
	SetVerificationPending(ctx context.Context, userID, frontURL, backURL string, submittedAt time.Time) error

	// ApproveVerification promotes the pending images to the permanent
	// references and records the NIC number. Condition: status is PENDING.
	ApproveVerification(ctx context.Context, userID, nicNumber string) error

	// RejectVerification clears the pending images and records the rejection.
	// Condition: status is PENDING.
	RejectVerification(ctx context.Context, userID, reason string, rejectedAt time.Time) error

	// ListPendingVerifications returns users awaiting review, oldest
	// submission first.
	ListPendingVerifications(ctx context.Context, limit, offset int) ([]*domain.User, error)
}
