package entities

import (
	"github.com/shopspring/decimal"

	"tourney/domain"
)

// MaxWinnerPosition is the number of paid placements per room
const MaxWinnerPosition = 3

// RewardTier configures the payout for one placement in a room
type RewardTier struct {
	RoomID           int64 `db:"room_id"`
	Position         int   `db:"position"`
	BaseReward       int64 `db:"base_reward"`
	KillBonusPerKill int64 `db:"kill_bonus_per_kill"`
	MaxKillBonus     int64 `db:"max_kill_bonus"`
}

// Compute returns the capped kill bonus and the total reward for kills
func (t RewardTier) Compute(kills int) (killBonus int64, total int64) {
	if kills > 0 {
		killBonus = int64(kills) * t.KillBonusPerKill
	}
	if killBonus > t.MaxKillBonus {
		killBonus = t.MaxKillBonus
	}
	return killBonus, t.BaseReward + killBonus
}

var defaultTierShares = []struct {
	base     string
	capShare string
	perKill  string
}{
	{base: "0.50", capShare: "0.10", perKill: "10"},
	{base: "0.30", capShare: "0.06", perKill: "7.5"},
	{base: "0.20", capShare: "0.04", perKill: "5"},
}

// DefaultRewardTiers splits 80% of the prize pool 50/30/20 across the three
// placements, with kill-bonus caps of 10%/6%/4% of the same pool. Amounts
// are rounded down to whole coins.
func DefaultRewardTiers(prizePool int64) []RewardTier {
	pool := decimal.NewFromInt(prizePool).Mul(decimal.RequireFromString("0.8"))

	tiers := make([]RewardTier, 0, len(defaultTierShares))
	for i, share := range defaultTierShares {
		tiers = append(tiers, RewardTier{
			Position:         i + 1,
			BaseReward:       pool.Mul(decimal.RequireFromString(share.base)).Floor().IntPart(),
			KillBonusPerKill: decimal.RequireFromString(share.perKill).Floor().IntPart(),
			MaxKillBonus:     pool.Mul(decimal.RequireFromString(share.capShare)).Floor().IntPart(),
		})
	}
	return tiers
}

// ValidateRewardTiers checks positions are within range and unique and that
// amounts are non-negative
func ValidateRewardTiers(tiers []RewardTier) error {
	seen := make(map[int]bool, len(tiers))
	for _, t := range tiers {
		if !ValidPosition(t.Position) {
			return domain.ErrInvalidRoomConfig.WithMessage("Reward tier position %d is out of range", t.Position)
		}
		if seen[t.Position] {
			return domain.ErrInvalidRoomConfig.WithMessage("Duplicate reward tier for position %d", t.Position)
		}
		seen[t.Position] = true
		if t.BaseReward < 0 || t.KillBonusPerKill < 0 || t.MaxKillBonus < 0 {
			return domain.ErrInvalidRoomConfig.WithMessage("Reward amounts for position %d cannot be negative", t.Position)
		}
	}
	return nil
}

// ValidPosition reports whether position is a paid placement
func ValidPosition(position int) bool {
	return position >= 1 && position <= MaxWinnerPosition
}

// PerformanceScore ranks a winner by kills and placement
func PerformanceScore(kills, position int) int64 {
	placement := int64(20)
	switch position {
	case 1:
		placement = 50
	case 2:
		placement = 30
	}
	return int64(kills)*10 + placement
}
