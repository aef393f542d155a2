package interfaces

import (
	"context"
	"time"

	"tourney/domain/entities"
	"tourney/domain/events"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user with a zero balance
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID, nil if missing
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByUsername retrieves a user by username, nil if missing
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// AddBalance increments the balance and returns the new balance.
	// Returns domain.ErrUserNotFound when the user does not exist.
	AddBalance(ctx context.Context, id int64, amount int64) (int64, error)

	// DeductBalance decrements the balance only if it covers amount and
	// returns the new balance. Returns domain.ErrInsufficientFunds when the
	// guard fails.
	DeductBalance(ctx context.Context, id int64, amount int64) (int64, error)
}

// BalanceHistoryRepository defines the interface for ledger entries
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByUser returns balance history for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error)
}

// GamingIDRepository defines the interface for gaming ID data access
type GamingIDRepository interface {
	// Create inserts the gaming ID and its zeroed stats row
	Create(ctx context.Context, gamingID *entities.GamingID) error

	GetByID(ctx context.Context, id int64) (*entities.GamingID, error)

	// GetByIDs returns the gaming IDs with the given ids in any order
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.GamingID, error)

	// GetByUser returns a user's gaming IDs, primary first
	GetByUser(ctx context.Context, userID int64) ([]*entities.GamingID, error)

	// ExistsForUser reports whether the user already registered the handle,
	// ignoring excludeID
	ExistsForUser(ctx context.Context, userID int64, platform, username string, excludeID int64) (bool, error)

	Update(ctx context.Context, gamingID *entities.GamingID) error

	// ClearPrimary unsets is_primary on the user's gaming IDs other than exceptID
	ClearPrimary(ctx context.Context, userID int64, exceptID int64) error

	// IncrementRoomsJoined bumps total_rooms_joined for each id
	IncrementRoomsJoined(ctx context.Context, ids []int64) error

	// AddKillStats accumulates kills and rewards for a gaming ID
	AddKillStats(ctx context.Context, id int64, kills int64, rewards int64) error

	GetStats(ctx context.Context, id int64) (*entities.GamingIDStats, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create inserts the team and its members
	Create(ctx context.Context, team *entities.Team) error

	// GetByID loads the team with its members, nil if missing
	GetByID(ctx context.Context, id int64) (*entities.Team, error)

	GetByUser(ctx context.Context, userID int64) ([]*entities.Team, error)

	// Update saves the team fields and replaces all members
	Update(ctx context.Context, team *entities.Team) error

	SetActive(ctx context.Context, id int64, active bool) error
}

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	Create(ctx context.Context, room *entities.Room) error

	GetByID(ctx context.Context, id int64) (*entities.Room, error)

	// GetByIDForUpdate loads the room and locks its row until the
	// transaction ends. Enrollment validation runs under this lock.
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Room, error)

	// List returns rooms newest first. activeOnly filters out inactive rooms.
	List(ctx context.Context, activeOnly bool) ([]*entities.Room, error)

	SetActive(ctx context.Context, id int64, active bool) error

	SetStatus(ctx context.Context, id int64, status entities.RoomStatus) error

	// ListOpenStartedBefore returns open rooms whose event_timing is before cutoff
	ListOpenStartedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Room, error)

	// SaveRewardTiers replaces the room's reward tiers
	SaveRewardTiers(ctx context.Context, roomID int64, tiers []entities.RewardTier) error

	GetRewardTiers(ctx context.Context, roomID int64) ([]entities.RewardTier, error)

	// GetRewardTier returns the tier for position, nil if not configured
	GetRewardTier(ctx context.Context, roomID int64, position int) (*entities.RewardTier, error)
}

// BlockRepository defines the interface for room block lists. Block and
// unblock report whether anything changed so repeats can be treated as no-ops.
type BlockRepository interface {
	BlockUser(ctx context.Context, block *entities.BlockedUser) (bool, error)
	UnblockUser(ctx context.Context, roomID, userID int64) (bool, error)
	IsUserBlocked(ctx context.Context, roomID, userID int64) (bool, error)

	BlockTeam(ctx context.Context, block *entities.BlockedTeam) (bool, error)
	UnblockTeam(ctx context.Context, roomID, teamID int64) (bool, error)
	IsTeamBlocked(ctx context.Context, roomID, teamID int64) (bool, error)

	ListBlockedUsers(ctx context.Context, roomID int64) ([]*entities.BlockedUser, error)
	ListBlockedTeams(ctx context.Context, roomID int64) ([]*entities.BlockedTeam, error)
}

// EnrollmentRepository defines the interface for room enrollments
type EnrollmentRepository interface {
	// Create inserts the enrollment and one link row per gaming ID
	Create(ctx context.Context, enrollment *entities.RoomEnrollment) error

	// GetActiveByUser returns the user's active gaming-ID enrollment in the
	// room with its gaming IDs, nil if none
	GetActiveByUser(ctx context.Context, roomID, userID int64) (*entities.RoomEnrollment, error)

	// GetActiveByTeam returns the team's active enrollment in the room, nil if none
	GetActiveByTeam(ctx context.Context, roomID, teamID int64) (*entities.RoomEnrollment, error)

	// CountActiveSlots sums slot_count over paid, active enrollments
	CountActiveSlots(ctx context.Context, roomID int64) (int, error)

	// FindGamingIDClaims returns active claims in the room on any of ids
	FindGamingIDClaims(ctx context.Context, roomID int64, ids []int64) ([]entities.GamingIDClaim, error)

	// FindHandleClaims returns active claims in the room by users other than
	// excludeUserID on any of the given handles
	FindHandleClaims(ctx context.Context, roomID int64, handles []entities.GamingHandle, excludeUserID int64) ([]entities.GamingIDClaim, error)

	// IsGamingIDEnrolled reports whether the gaming ID holds an active claim in the room
	IsGamingIDEnrolled(ctx context.Context, roomID, gamingIDID int64) (bool, error)

	// CountActiveRooms returns how many rooms the gaming ID is actively enrolled in
	CountActiveRooms(ctx context.Context, gamingIDID int64) (int, error)

	// IsUserEnrolled reports whether the user has any active enrollment in the room
	IsUserEnrolled(ctx context.Context, roomID, userID int64) (bool, error)

	// ListStandings returns enrolled gaming IDs with their kills and placements
	ListStandings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error)
}

// KillRecordRepository defines the interface for kill records
type KillRecordRepository interface {
	// Get returns the record for (room, gaming ID), nil if none
	Get(ctx context.Context, roomID, gamingIDID int64) (*entities.KillRecord, error)

	// Upsert inserts or overwrites the record for (room, gaming ID)
	Upsert(ctx context.Context, record *entities.KillRecord) error

	ListByRoom(ctx context.Context, roomID int64) ([]*entities.KillRecord, error)
}

// WinnerRepository defines the interface for winners and their audit log
type WinnerRepository interface {
	// GetByPositionForUpdate returns the locked winner for (room, position), nil if none
	GetByPositionForUpdate(ctx context.Context, roomID int64, position int) (*entities.Winner, error)

	// GetByIDForUpdate returns the locked winner row, nil if none
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Winner, error)

	// Upsert inserts or overwrites the winner for (room, position)
	Upsert(ctx context.Context, winner *entities.Winner) error

	ListByRoom(ctx context.Context, roomID int64) ([]*entities.Winner, error)

	// ListUndistributedIDs returns winners with a pending positive reward
	ListUndistributedIDs(ctx context.Context, roomID int64) ([]int64, error)

	// MarkDistributed flags the winner as paid. Returns false if it already was.
	MarkDistributed(ctx context.Context, id int64, at time.Time) (bool, error)

	RecordHistory(ctx context.Context, entry *entities.WinnerSelectionHistory) error

	GetHistory(ctx context.Context, roomID int64) ([]*entities.WinnerSelectionHistory, error)
}

// PaymentRequestRepository defines the interface for top-up and withdrawal requests
type PaymentRequestRepository interface {
	Create(ctx context.Context, request *entities.PaymentRequest) error

	// GetByIDForUpdate returns the locked request, nil if none
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.PaymentRequest, error)

	// Finalize moves a pending request to its terminal status. Returns false
	// when the request was no longer pending.
	Finalize(ctx context.Context, request *entities.PaymentRequest) (bool, error)

	ListPending(ctx context.Context, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error)

	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.PaymentRequest, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding
// transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes the buffered events. Called after commit.
	Flush(ctx context.Context) error

	// Discard drops the buffered events. Called on rollback.
	Discard()
}
