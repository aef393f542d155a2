package entities

// TransactionType represents the type of a ledger entry
type TransactionType string

const (
	// TransactionTypeCredit covers top-up approvals, withdrawal refunds and admin adjustments
	TransactionTypeCredit TransactionType = "credit"

	// TransactionTypeDebit covers withdrawal holds and room entry fees
	TransactionTypeDebit TransactionType = "debit"

	// TransactionTypeKillReward is credited when kills are recorded for a gaming ID
	TransactionTypeKillReward TransactionType = "kill_reward"

	// TransactionTypeWinnerReward is credited when a room's winner rewards are distributed
	TransactionTypeWinnerReward TransactionType = "winner_reward"
)

// IsCredit returns true if the type increases the balance
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypeCredit ||
		tt == TransactionTypeKillReward ||
		tt == TransactionTypeWinnerReward
}

// IsReward returns true if the type pays out a performance reward
func (tt TransactionType) IsReward() bool {
	return tt == TransactionTypeKillReward || tt == TransactionTypeWinnerReward
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}
