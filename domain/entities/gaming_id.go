package entities

import (
	"strings"
	"time"
)

// DefaultPlatform is used when a gaming ID is added without a platform
const DefaultPlatform = "PUBG"

// GamingID is a user's handle on a specific game platform. Each active
// gaming ID can be enrolled in a room as an independent player slot.
type GamingID struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Platform    string    `db:"gaming_platform"`
	Username    string    `db:"gaming_username"`
	DisplayName string    `db:"display_name"`
	IsPrimary   bool      `db:"is_primary"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Handle returns the (platform, username) pair that identifies the
// in-game player regardless of which account registered it
func (g *GamingID) Handle() GamingHandle {
	return GamingHandle{Platform: g.Platform, Username: g.Username}
}

// GamingHandle is the string identity of an in-game player
type GamingHandle struct {
	Platform string
	Username string
}

func (h GamingHandle) String() string {
	return h.Username + " (" + h.Platform + ")"
}

// GamingIDStats accumulates a gaming ID's activity across rooms
type GamingIDStats struct {
	GamingIDID         int64     `db:"gaming_id_id"`
	TotalRoomsJoined   int64     `db:"total_rooms_joined"`
	TotalKills         int64     `db:"total_kills"`
	TotalRewardsEarned int64     `db:"total_rewards_earned"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// NormalizeGamingID trims the inputs and fills in defaults for platform and
// display name
func NormalizeGamingID(platform, username, displayName string) (string, string, string) {
	platform = strings.TrimSpace(platform)
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	if platform == "" {
		platform = DefaultPlatform
	}
	if displayName == "" {
		displayName = username
	}
	return platform, username, displayName
}
