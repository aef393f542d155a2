package entities

import (
	"errors"
	"time"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeEnrollment     RelatedType = "enrollment"
	RelatedTypePaymentRequest RelatedType = "payment_request"
	RelatedTypeKillRecord     RelatedType = "kill_record"
	RelatedTypeWinner         RelatedType = "winner"
)

// BalanceHistory is one append-only ledger entry. Every balance mutation
// writes exactly one entry in the same transaction.
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              int64           `db:"user_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	Description         string          `db:"description"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *int64          `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsPositiveChange returns true if the change amount is positive
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.ChangeAmount > 0
}

// ValidateTransaction performs basic validation on the entry
func (bh *BalanceHistory) ValidateTransaction() error {
	if bh.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}
	if bh.BalanceAfter != bh.BalanceBefore+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}
	if bh.BalanceAfter < 0 {
		return errors.New("balance cannot go negative")
	}
	return nil
}

// LedgerEntry describes why a balance is changing. The ledger service turns
// it into a BalanceHistory row once the new balance is known.
type LedgerEntry struct {
	Type        TransactionType
	Description string
	RelatedID   *int64
	RelatedType *RelatedType
	Metadata    map[string]any
}

// RelatedTo returns a copy of the entry linked to the given record
func (e LedgerEntry) RelatedTo(relatedType RelatedType, id int64) LedgerEntry {
	e.RelatedType = &relatedType
	e.RelatedID = &id
	return e
}
