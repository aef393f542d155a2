package entities

import (
	"strings"
	"time"
)

// Team is a user-owned roster used by the team enrollment mode
type Team struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	Name      string       `db:"team_name"`
	Email     string       `db:"team_email"`
	TeamSize  int          `db:"team_size"`
	IsActive  bool         `db:"is_active"`
	Members   []TeamMember `db:"-"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// TeamMember is one roster entry. Members are replaced wholesale on edit.
type TeamMember struct {
	ID             int64  `db:"id"`
	TeamID         int64  `db:"team_id"`
	Username       string `db:"member_username"`
	ExternalGameID string `db:"external_game_id"`
	Email          string `db:"email"`
	IsLeader       bool   `db:"is_leader"`
	Position       int    `db:"position"`
}

// MemberInput is an unvalidated roster row
type MemberInput struct {
	Username       string
	ExternalGameID string
	Email          string
}

// BuildRoster drops rows with a blank username, trims the rest and flags the
// member whose username equals leaderUsername as leader. Positions follow
// input order.
func BuildRoster(inputs []MemberInput, leaderUsername string) []TeamMember {
	members := make([]TeamMember, 0, len(inputs))
	for _, in := range inputs {
		username := strings.TrimSpace(in.Username)
		if username == "" {
			continue
		}
		members = append(members, TeamMember{
			Username:       username,
			ExternalGameID: strings.TrimSpace(in.ExternalGameID),
			Email:          strings.TrimSpace(in.Email),
			IsLeader:       username == leaderUsername,
			Position:       len(members) + 1,
		})
	}
	return members
}
