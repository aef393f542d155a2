package interfaces

import (
	"context"
	"time"

	"tourney/domain/entities"
)

// LedgerService owns coin balance mutation. It never opens a transaction;
// every call runs inside the caller's unit of work.
type LedgerService interface {
	// Credit adds amount to the user's balance and records the entry
	Credit(ctx context.Context, userID int64, amount int64, entry entities.LedgerEntry) (*entities.BalanceHistory, error)

	// Debit removes amount from the user's balance, failing with
	// domain.ErrInsufficientFunds when the balance does not cover it
	Debit(ctx context.Context, userID int64, amount int64, entry entities.LedgerEntry) (*entities.BalanceHistory, error)

	// GetBalance returns the current balance
	GetBalance(ctx context.Context, userID int64) (int64, error)
}

// SignupInput carries a new account's credentials
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AccountService defines signup, login and wallet history
type AccountService interface {
	Signup(ctx context.Context, input SignupInput) (*entities.User, error)

	// Authenticate verifies the password and returns the user
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)

	GetUser(ctx context.Context, userID int64) (*entities.User, error)

	// GetHistory returns the user's ledger entries, newest first
	GetHistory(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error)
}

// GamingIDInput is the editable part of a gaming ID
type GamingIDInput struct {
	Platform    string
	Username    string
	DisplayName string
	IsPrimary   bool
	IsActive    *bool
}

// TeamInput is the editable part of a team
type TeamInput struct {
	Name    string
	Email   string
	Members []entities.MemberInput
}

// IdentityService manages gaming IDs and teams
type IdentityService interface {
	AddGamingID(ctx context.Context, actor entities.Actor, input GamingIDInput) (*entities.GamingID, error)
	EditGamingID(ctx context.Context, actor entities.Actor, id int64, input GamingIDInput) (*entities.GamingID, error)
	SetPrimary(ctx context.Context, actor entities.Actor, id int64) (*entities.GamingID, error)
	ListGamingIDs(ctx context.Context, actor entities.Actor) ([]*entities.GamingID, error)

	CreateTeam(ctx context.Context, actor entities.Actor, input TeamInput) (*entities.Team, error)
	EditTeam(ctx context.Context, actor entities.Actor, id int64, input TeamInput) (*entities.Team, error)
	ToggleTeam(ctx context.Context, actor entities.Actor, id int64, active bool) (*entities.Team, error)
	ListTeams(ctx context.Context, actor entities.Actor) ([]*entities.Team, error)
}

// RoomDetails is a room with its reward tiers and current occupancy
type RoomDetails struct {
	Room        *entities.Room
	RewardTiers []entities.RewardTier
	Occupancy   entities.RoomOccupancy
}

// BlockOutcome reports a block list change. Changed is false when the
// entry was already in the requested state, in which case Warning explains.
type BlockOutcome struct {
	Changed bool
	Warning string
}

// RoomService manages the room catalog and block lists
type RoomService interface {
	CreateRoom(ctx context.Context, actor entities.Actor, config entities.RoomConfig) (*RoomDetails, error)
	GetRoom(ctx context.Context, roomID int64) (*RoomDetails, error)
	ListRooms(ctx context.Context, activeOnly bool) ([]*entities.Room, error)
	ToggleActive(ctx context.Context, actor entities.Actor, roomID int64, active bool) (*entities.Room, error)

	BlockUser(ctx context.Context, actor entities.Actor, roomID int64, username, reason string) (*BlockOutcome, error)
	UnblockUser(ctx context.Context, actor entities.Actor, roomID int64, username string) (*BlockOutcome, error)
	BlockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64, reason string) (*BlockOutcome, error)
	UnblockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64) (*BlockOutcome, error)

	// Occupancy recomputes used slots from enrollment rows
	Occupancy(ctx context.Context, roomID int64) (*entities.RoomOccupancy, error)

	// CloseExpired closes open rooms whose event started before cutoff and
	// returns their ids
	CloseExpired(ctx context.Context, cutoff time.Time) ([]int64, error)
}

// EnrollmentResult is the outcome of a successful enrollment attempt.
// Replayed is true when an identical earlier enrollment was returned and
// nothing was charged.
type EnrollmentResult struct {
	Enrollment *entities.RoomEnrollment
	Replayed   bool
	NewBalance int64
}

// EnrollmentService admits gaming IDs or teams into rooms
type EnrollmentService interface {
	Enroll(ctx context.Context, actor entities.Actor, roomID int64, mode entities.EnrollmentMode) (*EnrollmentResult, error)
}

// KillsInput records kills for one gaming ID in a room
type KillsInput struct {
	RoomID     int64
	GamingIDID int64
	KillsCount int
	ProofRef   string
}

// KillsResult is the saved record and the amount credited by this call
type KillsResult struct {
	Record   *entities.KillRecord
	Credited int64
}

// WinnerInput assigns a gaming ID to a placement
type WinnerInput struct {
	RoomID     int64
	GamingIDID int64
	Position   int
	Notes      string
}

// PerformanceService records kills, selects winners and pays rewards
type PerformanceService interface {
	RecordKills(ctx context.Context, actor entities.Actor, input KillsInput) (*KillsResult, error)
	SelectWinner(ctx context.Context, actor entities.Actor, input WinnerInput) (*entities.Winner, error)

	// PendingDistributions returns ids of winners still awaiting payment
	PendingDistributions(ctx context.Context, actor entities.Actor, roomID int64) ([]int64, error)

	// DistributeWinner credits one winner and marks it distributed. Returns
	// false without crediting when the winner was already paid.
	DistributeWinner(ctx context.Context, actor entities.Actor, winnerID int64) (*entities.Winner, bool, error)

	Standings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error)
	Winners(ctx context.Context, roomID int64) ([]*entities.Winner, error)
	WinnerHistory(ctx context.Context, actor entities.Actor, roomID int64) ([]*entities.WinnerSelectionHistory, error)
}

// PaymentService handles top-up and withdrawal requests
type PaymentService interface {
	RequestTopUp(ctx context.Context, actor entities.Actor, amount int64, proofRef string) (*entities.PaymentRequest, error)
	RequestWithdrawal(ctx context.Context, actor entities.Actor, amount int64, payoutHandle string) (*entities.PaymentRequest, error)

	// Approve finalizes a pending request. Withdrawals require adminProofRef.
	Approve(ctx context.Context, actor entities.Actor, requestID int64, adminProofRef string) (*entities.PaymentRequest, error)

	// Reject finalizes a pending request, refunding withdrawals
	Reject(ctx context.Context, actor entities.Actor, requestID int64, note string) (*entities.PaymentRequest, error)

	ListPending(ctx context.Context, actor entities.Actor, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error)
	ListByUser(ctx context.Context, actor entities.Actor, limit int) ([]*entities.PaymentRequest, error)
}
