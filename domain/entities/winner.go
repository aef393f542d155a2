package entities

import "time"

// Winner is the selected gaming ID for one placement of a room. There is
// at most one winner per (room, position).
type Winner struct {
	ID                int64      `db:"id"`
	RoomID            int64      `db:"room_id"`
	Position          int        `db:"position"`
	GamingIDID        int64      `db:"gaming_id_id"`
	UserID            int64      `db:"user_id"`
	KillsCount        int        `db:"kills_count"`
	PerformanceScore  int64      `db:"performance_score"`
	RewardAmount      int64      `db:"reward_amount"`
	RewardDistributed bool       `db:"reward_distributed"`
	DistributedAt     *time.Time `db:"distributed_at"`
	SelectedBy        int64      `db:"selected_by"`
	SelectedAt        time.Time  `db:"selected_at"`
	Notes             string     `db:"notes"`
}

// IsPayable returns true if the winner still has a reward to receive
func (w *Winner) IsPayable() bool {
	return !w.RewardDistributed && w.RewardAmount > 0
}

// WinnerActionType is the kind of a winner audit entry
type WinnerActionType string

const (
	WinnerActionSelected    WinnerActionType = "winner_selected"
	WinnerActionDistributed WinnerActionType = "reward_distributed"
)

// WinnerSelectionHistory is an append-only audit entry for winner actions
type WinnerSelectionHistory struct {
	ID           int64            `db:"id"`
	RoomID       int64            `db:"room_id"`
	ActionType   WinnerActionType `db:"action_type"`
	GamingIDID   *int64           `db:"gaming_id_id"`
	Position     *int             `db:"position"`
	RewardAmount int64            `db:"reward_amount"`
	AdminUserID  int64            `db:"admin_user_id"`
	Details      string           `db:"details"`
	CreatedAt    time.Time        `db:"created_at"`
}

// DistributionSummary reports a distribute_rewards run
type DistributionSummary struct {
	RoomID           int64
	WinnersPaid      int
	TotalDistributed int64
	Skipped          int
}
