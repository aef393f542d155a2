package entities

import (
	"sort"
	"time"
)

// EnrollmentKind tags the two enrollment shapes
type EnrollmentKind string

const (
	EnrollmentKindGamingIDs EnrollmentKind = "gaming_ids"
	EnrollmentKindTeam      EnrollmentKind = "team"
)

// PaymentStatus is the fee state of an enrollment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// EnrollmentMode selects what is being enrolled: a set of the actor's
// gaming IDs or one of the actor's teams. Both shapes share the same
// capacity and fee computation.
type EnrollmentMode struct {
	Kind      EnrollmentKind
	GamingIDs []int64
	TeamID    int64
}

// GamingIDsMode enrolls the given gaming IDs
func GamingIDsMode(ids ...int64) EnrollmentMode {
	return EnrollmentMode{Kind: EnrollmentKindGamingIDs, GamingIDs: ids}
}

// TeamMode enrolls a team
func TeamMode(teamID int64) EnrollmentMode {
	return EnrollmentMode{Kind: EnrollmentKindTeam, TeamID: teamID}
}

// DistinctGamingIDs returns the selected IDs without duplicates, in
// ascending order
func (m EnrollmentMode) DistinctGamingIDs() []int64 {
	seen := make(map[int64]bool, len(m.GamingIDs))
	out := make([]int64, 0, len(m.GamingIDs))
	for _, id := range m.GamingIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoomEnrollment records a paid participation in a room. SlotCount is the
// number of gaming IDs for gaming-ID enrollments and the team size for team
// enrollments.
type RoomEnrollment struct {
	ID               int64          `db:"id"`
	RoomID           int64          `db:"room_id"`
	UserID           int64          `db:"user_id"`
	TeamID           *int64         `db:"team_id"`
	Kind             EnrollmentKind `db:"kind"`
	SlotCount        int            `db:"slot_count"`
	TotalEntryFee    int64          `db:"total_entry_fee"`
	PaymentStatus    PaymentStatus  `db:"payment_status"`
	IsActive         bool           `db:"is_active"`
	BalanceHistoryID *int64         `db:"balance_history_id"`
	GamingIDs        []int64        `db:"-"`
	EnrolledAt       time.Time      `db:"enrolled_at"`
}

// SameGamingIDs reports whether the enrollment holds exactly ids
func (e *RoomEnrollment) SameGamingIDs(ids []int64) bool {
	if len(e.GamingIDs) != len(ids) {
		return false
	}
	held := make(map[int64]bool, len(e.GamingIDs))
	for _, id := range e.GamingIDs {
		held[id] = true
	}
	for _, id := range ids {
		if !held[id] {
			return false
		}
	}
	return true
}

// GamingIDClaim is an active enrollment of a gaming ID in a room, used to
// report who already holds a handle
type GamingIDClaim struct {
	GamingIDID    int64
	Platform      string
	Username      string
	UserID        int64
	OwnerUsername string
}

// Handle returns the claimed (platform, username) pair
func (c GamingIDClaim) Handle() GamingHandle {
	return GamingHandle{Platform: c.Platform, Username: c.Username}
}

// RoomOccupancy is the recomputed slot usage of a room
type RoomOccupancy struct {
	RoomID     int64
	MaxPlayers int
	Used       int
}

// Remaining returns the number of free slots
func (o RoomOccupancy) Remaining() int {
	if o.Used >= o.MaxPlayers {
		return 0
	}
	return o.MaxPlayers - o.Used
}
