package service

import (
	"context"
	"errors"
	"time"

	"rideboard/internal/domain"
	"rideboard/internal/metrics"
	"rideboard/internal/repository"
)

// VerificationService is the identity-verification state machine:
//
//	UNVERIFIED ──submit──▶ PENDING ──approve──▶ VERIFIED (terminal)
//	     ▲                  │   ▲
//	     │              reject  └──submit (replaces pending images)
//	     │                  ▼
//	     └─(never)      REJECTED ──submit──▶ PENDING
//
// Each transition is one conditional update guarded by the stored status
// field, so a submit racing a concurrent approve is resolved at commit time
// rather than by locking.
type VerificationService struct {
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(userRepo repository.UserRepository, m *metrics.Metrics, now func() time.Time) *VerificationService {
	if now == nil {
		now = time.Now
	}
	return &VerificationService{userRepo: userRepo, metrics: m, now: now}
}

// Submit records a verification submission for the user. Fails with
// ErrAlreadyVerified if the profile is already VERIFIED; otherwise the record
// moves to PENDING, any previous rejection is cleared, and resubmitting while
// PENDING simply replaces the pending images.
func (s *VerificationService) Submit(ctx context.Context, userID, frontURL, backURL string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if frontURL == "" || backURL == "" {
		return nil, ErrMissingVerificationImages
	}

	err := s.userRepo.SetVerificationPending(ctx, userID, frontURL, backURL, s.now())
	if errors.Is(err, repository.ErrStateMismatch) {
		// The guard excludes exactly one state, so a mismatch either means
		// the user is gone or a concurrent approve won the race.
		user, getErr := s.userRepo.GetByID(ctx, userID)
		if getErr != nil {
			return nil, getErr
		}
		if user.Verification.Status == domain.VerificationVerified {
			return nil, ErrAlreadyVerified
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VerificationTransitions.WithLabelValues("submit").Inc()
	}
	return s.userRepo.GetByID(ctx, userID)
}

// Approve moves a PENDING record to VERIFIED, promoting the pending images to
// the permanent references and recording the admin-assigned NIC number.
// VERIFIED is terminal: there is no user-triggered path out of it.
func (s *VerificationService) Approve(ctx context.Context, userID, nicNumber string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if nicNumber == "" {
		return nil, ErrMissingNICNumber
	}

	if err := s.transition(ctx, userID, s.userRepo.ApproveVerification(ctx, userID, nicNumber)); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VerificationTransitions.WithLabelValues("approve").Inc()
	}
	return s.userRepo.GetByID(ctx, userID)
}

// Reject moves a PENDING record to REJECTED, clearing the pending images and
// recording the reason. The user may resubmit afterwards.
func (s *VerificationService) Reject(ctx context.Context, userID, reason string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if reason == "" {
		return nil, ErrMissingRejectionReason
	}

	if err := s.transition(ctx, userID, s.userRepo.RejectVerification(ctx, userID, reason, s.now())); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.VerificationTransitions.WithLabelValues("reject").Inc()
	}
	return s.userRepo.GetByID(ctx, userID)
}

// Status returns the user's verification sub-record.
func (s *VerificationService) Status(ctx context.Context, userID string) (*domain.Verification, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.Verification, nil
}

// ListPending returns users awaiting admin review, oldest submission first.
// Queue position follows nic_submitted_at, not account age.
func (s *VerificationService) ListPending(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListPendingVerifications(ctx, limit, offset)
}

// transition maps a state-mismatch on an admin transition to the right error:
// not-found if the user is gone, otherwise the record was not PENDING.
func (s *VerificationService) transition(ctx context.Context, userID string, err error) error {
	if errors.Is(err, repository.ErrStateMismatch) {
		if _, getErr := s.userRepo.GetByID(ctx, userID); getErr != nil {
			return getErr
		}
		return ErrInvalidStateTransition
	}
	return err
}
