package entities

import "time"

// KillRewardStatus is the payout state of a kill record
type KillRewardStatus string

const (
	KillRewardStatusNotEligible KillRewardStatus = "not_eligible"
	KillRewardStatusApproved    KillRewardStatus = "approved"
)

// KillRecord is the per (gaming ID, room) kill count. Re-submission
// overwrites the count; RewardCredited tracks what the ledger has already
// paid for this record.
type KillRecord struct {
	ID             int64            `db:"id"`
	RoomID         int64            `db:"room_id"`
	GamingIDID     int64            `db:"gaming_id_id"`
	UserID         int64            `db:"user_id"`
	KillsCount     int              `db:"kills_count"`
	RewardEarned   int64            `db:"reward_earned"`
	RewardCredited int64            `db:"reward_credited"`
	RewardStatus   KillRewardStatus `db:"reward_status"`
	ProofRef       *string          `db:"proof_ref"`
	RecordedBy     int64            `db:"recorded_by"`
	RecordedAt     time.Time        `db:"recorded_at"`
}

// PendingCredit returns how much of RewardEarned has not been credited yet
func (k *KillRecord) PendingCredit() int64 {
	if k.RewardEarned <= k.RewardCredited {
		return 0
	}
	return k.RewardEarned - k.RewardCredited
}

// RoomStanding is one enrolled gaming ID with its performance in a room
type RoomStanding struct {
	GamingIDID     int64
	UserID         int64
	OwnerUsername  string
	GamingUsername string
	DisplayName    string
	KillsCount     int
	KillReward     int64
	WinnerPosition *int
	WinnerReward   *int64
}
