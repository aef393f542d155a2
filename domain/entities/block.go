package entities

import "time"

// BlockedUser denies a user enrollment in a room
type BlockedUser struct {
	ID        int64     `db:"id"`
	RoomID    int64     `db:"room_id"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"-"`
	Reason    string    `db:"reason"`
	BlockedBy int64     `db:"blocked_by"`
	CreatedAt time.Time `db:"created_at"`
}

// BlockedTeam denies a team enrollment in a room
type BlockedTeam struct {
	ID        int64     `db:"id"`
	RoomID    int64     `db:"room_id"`
	TeamID    int64     `db:"team_id"`
	Reason    string    `db:"reason"`
	BlockedBy int64     `db:"blocked_by"`
	CreatedAt time.Time `db:"created_at"`
}
