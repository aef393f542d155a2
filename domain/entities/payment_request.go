package entities

import (
	"time"
)

const (
	// MinTopUpAmount is the smallest top-up request accepted
	MinTopUpAmount int64 = 10

	// MinWithdrawalAmount is the smallest withdrawal request accepted
	MinWithdrawalAmount int64 = 150
)

// PaymentRequestKind distinguishes top-ups from withdrawals
type PaymentRequestKind string

const (
	PaymentRequestKindTopUp      PaymentRequestKind = "credit_pending"
	PaymentRequestKindWithdrawal PaymentRequestKind = "withdrawal"
)

// PaymentRequestStatus is the admin review state. Approved and rejected
// are terminal.
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending  PaymentRequestStatus = "pending"
	PaymentRequestStatusApproved PaymentRequestStatus = "approved"
	PaymentRequestStatusRejected PaymentRequestStatus = "rejected"
)

// PaymentRequest is a user-initiated top-up or withdrawal awaiting review.
// Withdrawals are debited when requested; top-ups are credited only on
// approval.
type PaymentRequest struct {
	ID               int64                `db:"id"`
	UserID           int64                `db:"user_id"`
	Kind             PaymentRequestKind   `db:"kind"`
	Amount           int64                `db:"amount"`
	Status           PaymentRequestStatus `db:"status"`
	ProofRef         *string              `db:"proof_ref"`
	PayoutHandle     *string              `db:"payout_handle"`
	AdminProofRef    *string              `db:"admin_proof_ref"`
	Note             string               `db:"note"`
	BalanceHistoryID *int64               `db:"balance_history_id"`
	ProcessedBy      *int64               `db:"processed_by"`
	ProcessedAt      *time.Time           `db:"processed_at"`
	CreatedAt        time.Time            `db:"created_at"`
}

// IsPending returns true while the request awaits review
func (p *PaymentRequest) IsPending() bool {
	return p.Status == PaymentRequestStatusPending
}

// MinimumAmount returns the lowest amount accepted for kind
func (k PaymentRequestKind) MinimumAmount() int64 {
	if k == PaymentRequestKindWithdrawal {
		return MinWithdrawalAmount
	}
	return MinTopUpAmount
}
