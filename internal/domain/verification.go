package domain

import "time"

// VerificationStatus is the state of a user's NIC verification.
type VerificationStatus string

const (
	// VerificationUnverified means no submission has been made.
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	// VerificationPending means images were submitted and await admin review.
	VerificationPending VerificationStatus = "PENDING"
	// VerificationRejected means the last submission was declined;
	// resubmission is allowed and returns the record to PENDING.
	VerificationRejected VerificationStatus = "REJECTED"
	// VerificationVerified is terminal; the record is immutable to the user.
	VerificationVerified VerificationStatus = "VERIFIED"
)

// Verification is the identity-verification sub-record of a user profile.
// FrontImageURL/BackImageURL are the permanent, admin-approved references;
// PendingFrontURL/PendingBackURL hold an in-flight submission.
type Verification struct {
	Status VerificationStatus

	NICNumber     string // assigned by the admin on approval
	FrontImageURL string
	BackImageURL  string
	NICVerified   bool

	PendingFrontURL string
	PendingBackURL  string
	SubmittedAt     time.Time // time of the last submission, orders the review queue

	RejectionReason string
	RejectedAt      time.Time
}
