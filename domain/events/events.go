package events

import (
	"time"

	"tourney/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange           EventType = "balance_change"
	EventTypeUserCreated             EventType = "user_created"
	EventTypeRoomCreated             EventType = "room_created"
	EventTypeRoomStatusChanged       EventType = "room_status_changed"
	EventTypeEnrollmentCreated       EventType = "enrollment_created"
	EventTypeKillsRecorded           EventType = "kills_recorded"
	EventTypeWinnerSelected          EventType = "winner_selected"
	EventTypeRewardDistributed       EventType = "reward_distributed"
	EventTypePaymentRequestCreated   EventType = "payment_request_created"
	EventTypePaymentRequestProcessed EventType = "payment_request_processed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64                    `json:"user_id"`
	OldBalance      int64                    `json:"old_balance"`
	NewBalance      int64                    `json:"new_balance"`
	ChangeAmount    int64                    `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	Description     string                   `json:"description"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new account signup
type UserCreatedEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// RoomCreatedEvent is emitted when an admin opens a room
type RoomCreatedEvent struct {
	RoomID     int64  `json:"room_id"`
	Name       string `json:"name"`
	EntryFee   int64  `json:"entry_fee"`
	PrizePool  int64  `json:"prize_pool"`
	MaxPlayers int    `json:"max_players"`
	CreatedBy  int64  `json:"created_by"`
}

func (e RoomCreatedEvent) Type() EventType {
	return EventTypeRoomCreated
}

// RoomStatusChangedEvent is emitted when a room is toggled or closed
type RoomStatusChangedEvent struct {
	RoomID   int64               `json:"room_id"`
	IsActive bool                `json:"is_active"`
	Status   entities.RoomStatus `json:"status"`
	ActorID  int64               `json:"actor_id"`
}

func (e RoomStatusChangedEvent) Type() EventType {
	return EventTypeRoomStatusChanged
}

// EnrollmentCreatedEvent is emitted after a paid enrollment commits
type EnrollmentCreatedEvent struct {
	EnrollmentID  int64                   `json:"enrollment_id"`
	RoomID        int64                   `json:"room_id"`
	UserID        int64                   `json:"user_id"`
	Kind          entities.EnrollmentKind `json:"kind"`
	TeamID        *int64                  `json:"team_id,omitempty"`
	GamingIDs     []int64                 `json:"gaming_ids,omitempty"`
	SlotCount     int                     `json:"slot_count"`
	TotalEntryFee int64                   `json:"total_entry_fee"`
}

func (e EnrollmentCreatedEvent) Type() EventType {
	return EventTypeEnrollmentCreated
}

// KillsRecordedEvent is emitted when an admin records kills for a gaming ID
type KillsRecordedEvent struct {
	RoomID        int64 `json:"room_id"`
	GamingIDID    int64 `json:"gaming_id_id"`
	UserID        int64 `json:"user_id"`
	KillsCount    int   `json:"kills_count"`
	RewardEarned  int64 `json:"reward_earned"`
	CreditedDelta int64 `json:"credited_delta"`
}

func (e KillsRecordedEvent) Type() EventType {
	return EventTypeKillsRecorded
}

// WinnerSelectedEvent is emitted when a placement is assigned
type WinnerSelectedEvent struct {
	WinnerID     int64 `json:"winner_id"`
	RoomID       int64 `json:"room_id"`
	Position     int   `json:"position"`
	GamingIDID   int64 `json:"gaming_id_id"`
	UserID       int64 `json:"user_id"`
	RewardAmount int64 `json:"reward_amount"`
}

func (e WinnerSelectedEvent) Type() EventType {
	return EventTypeWinnerSelected
}

// RewardDistributedEvent is emitted once per winner credited
type RewardDistributedEvent struct {
	WinnerID      int64     `json:"winner_id"`
	RoomID        int64     `json:"room_id"`
	UserID        int64     `json:"user_id"`
	Position      int       `json:"position"`
	RewardAmount  int64     `json:"reward_amount"`
	DistributedAt time.Time `json:"distributed_at"`
}

func (e RewardDistributedEvent) Type() EventType {
	return EventTypeRewardDistributed
}

// PaymentRequestCreatedEvent is emitted when a user files a top-up or withdrawal
type PaymentRequestCreatedEvent struct {
	RequestID int64                       `json:"request_id"`
	UserID    int64                       `json:"user_id"`
	Kind      entities.PaymentRequestKind `json:"kind"`
	Amount    int64                       `json:"amount"`
}

func (e PaymentRequestCreatedEvent) Type() EventType {
	return EventTypePaymentRequestCreated
}

// PaymentRequestProcessedEvent is emitted when an admin approves or rejects
type PaymentRequestProcessedEvent struct {
	RequestID   int64                         `json:"request_id"`
	UserID      int64                         `json:"user_id"`
	Kind        entities.PaymentRequestKind   `json:"kind"`
	Amount      int64                         `json:"amount"`
	Status      entities.PaymentRequestStatus `json:"status"`
	ProcessedBy int64                         `json:"processed_by"`
}

func (e PaymentRequestProcessedEvent) Type() EventType {
	return EventTypePaymentRequestProcessed
}
