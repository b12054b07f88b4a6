package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"rideboard/internal/domain"
	"rideboard/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
//
// The verification transitions are single conditional UPDATEs guarded by the
// stored nic_status column. A transition that matches no row lost a race (or
// targeted a missing user); it returns ErrStateMismatch and the service layer
// re-reads to pick the precise error. No row locks are taken.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

const userColumns = `id, name, email, phone, disable_auto_expiry, is_admin, nic_status, nic_number, nic_front_url, nic_back_url, nic_verified, nic_pending_front_url, nic_pending_back_url, nic_submitted_at, nic_rejection_reason, nic_rejected_at, created_at`

// Create adds a new user. A duplicate email returns ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, disable_auto_expiry, is_admin, nic_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		nullString(user.Phone),
		user.DisableAutoExpiry,
		user.IsAdmin,
		domain.VerificationUnverified,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.q.QueryRowContext(ctx, query, email))
}

// SetDisableAutoExpiry toggles the owner's auto-expiry override. The stored
// listings are untouched: the flag reclassifies them at the next read.
func (r *UserRepository) SetDisableAutoExpiry(ctx context.Context, userID string, disable bool) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE users SET disable_auto_expiry = $1 WHERE id = $2`, disable, userID)
	if err != nil {
		return err
	}
	return requireRow(result, repository.ErrNotFound)
}

// SetVerificationPending records a submission. The guard excludes VERIFIED so
// a submit racing a concurrent approve cannot overwrite verified data.
// Re-submitting while PENDING simply replaces the pending images.
func (r *UserRepository) SetVerificationPending(ctx context.Context, userID, frontURL, backURL string, submittedAt time.Time) error {
	query := `
		UPDATE users
		SET nic_status = $1, nic_pending_front_url = $2, nic_pending_back_url = $3,
		    nic_submitted_at = $4, nic_rejection_reason = NULL, nic_rejected_at = NULL
		WHERE id = $5 AND nic_status <> $6
	`
	result, err := r.q.ExecContext(ctx, query,
		domain.VerificationPending, frontURL, backURL, submittedAt, userID, domain.VerificationVerified)
	if err != nil {
		return err
	}
	return requireRow(result, repository.ErrStateMismatch)
}

// ApproveVerification promotes the pending images to the permanent references
// and records the NIC number. Only a PENDING record can be approved.
func (r *UserRepository) ApproveVerification(ctx context.Context, userID, nicNumber string) error {
	query := `
		UPDATE users
		SET nic_status = $1, nic_verified = TRUE, nic_number = $2,
		    nic_front_url = nic_pending_front_url, nic_back_url = nic_pending_back_url,
		    nic_pending_front_url = NULL, nic_pending_back_url = NULL
		WHERE id = $3 AND nic_status = $4
	`
	result, err := r.q.ExecContext(ctx, query,
		domain.VerificationVerified, nicNumber, userID, domain.VerificationPending)
	if err != nil {
		return err
	}
	return requireRow(result, repository.ErrStateMismatch)
}

// RejectVerification clears the pending images and records the rejection.
// Only a PENDING record can be rejected.
func (r *UserRepository) RejectVerification(ctx context.Context, userID, reason string, rejectedAt time.Time) error {
	query := `
		UPDATE users
		SET nic_status = $1, nic_pending_front_url = NULL, nic_pending_back_url = NULL,
		    nic_rejection_reason = $2, nic_rejected_at = $3
		WHERE id = $4 AND nic_status = $5
	`
	result, err := r.q.ExecContext(ctx, query,
		domain.VerificationRejected, reason, rejectedAt, userID, domain.VerificationPending)
	if err != nil {
		return err
	}
	return requireRow(result, repository.ErrStateMismatch)
}

// ListPendingVerifications returns users awaiting review, oldest submission
// first. Registration age is irrelevant to queue position.
func (r *UserRepository) ListPendingVerifications(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE nic_status = $1
		ORDER BY nic_submitted_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.q.QueryContext(ctx, query, domain.VerificationPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user, err := scanUserRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return user, err
}

func scanUserRow(s rowScanner) (*domain.User, error) {
	var user domain.User
	var phone, nicNumber, frontURL, backURL, pendingFront, pendingBack, rejectionReason sql.NullString
	var submittedAt, rejectedAt sql.NullTime

	err := s.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&phone,
		&user.DisableAutoExpiry,
		&user.IsAdmin,
		&user.Verification.Status,
		&nicNumber,
		&frontURL,
		&backURL,
		&user.Verification.NICVerified,
		&pendingFront,
		&pendingBack,
		&submittedAt,
		&rejectionReason,
		&rejectedAt,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Phone = phone.String
	user.Verification.NICNumber = nicNumber.String
	user.Verification.FrontImageURL = frontURL.String
	user.Verification.BackImageURL = backURL.String
	user.Verification.PendingFrontURL = pendingFront.String
	user.Verification.PendingBackURL = pendingBack.String
	user.Verification.RejectionReason = rejectionReason.String
	if submittedAt.Valid {
		user.Verification.SubmittedAt = submittedAt.Time
	}
	if rejectedAt.Valid {
		user.Verification.RejectedAt = rejectedAt.Time
	}
	return &user, nil
}
