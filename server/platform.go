package server

import (
	"context"
	"time"

	"tourney/domain/entities"
	"tourney/domain/interfaces"
)

// Platform is the set of actions the HTTP surface exposes. It is satisfied
// by *application.Platform.
type Platform interface {
	Actor(ctx context.Context, userID int64) (entities.Actor, error)

	Signup(ctx context.Context, input interfaces.SignupInput) (*entities.User, error)
	Login(ctx context.Context, username, password string) (*entities.User, error)
	GetBalance(ctx context.Context, actor entities.Actor) (int64, error)
	BalanceHistory(ctx context.Context, actor entities.Actor, limit int) ([]*entities.BalanceHistory, error)

	RequestTopUp(ctx context.Context, actor entities.Actor, amount int64, proofRef string) (*entities.PaymentRequest, error)
	RequestWithdrawal(ctx context.Context, actor entities.Actor, amount int64, payoutHandle string) (*entities.PaymentRequest, error)
	ApprovePayment(ctx context.Context, actor entities.Actor, requestID int64, adminProofRef string) (*entities.PaymentRequest, error)
	RejectPayment(ctx context.Context, actor entities.Actor, requestID int64, note string) (*entities.PaymentRequest, error)
	ListPendingPayments(ctx context.Context, actor entities.Actor, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error)
	ListMyPayments(ctx context.Context, actor entities.Actor, limit int) ([]*entities.PaymentRequest, error)

	AddGamingID(ctx context.Context, actor entities.Actor, input interfaces.GamingIDInput) (*entities.GamingID, error)
	EditGamingID(ctx context.Context, actor entities.Actor, id int64, input interfaces.GamingIDInput) (*entities.GamingID, error)
	SetPrimaryGamingID(ctx context.Context, actor entities.Actor, id int64) (*entities.GamingID, error)
	ListGamingIDs(ctx context.Context, actor entities.Actor) ([]*entities.GamingID, error)

	CreateTeam(ctx context.Context, actor entities.Actor, input interfaces.TeamInput) (*entities.Team, error)
	EditTeam(ctx context.Context, actor entities.Actor, id int64, input interfaces.TeamInput) (*entities.Team, error)
	ToggleTeam(ctx context.Context, actor entities.Actor, id int64, active bool) (*entities.Team, error)
	ListTeams(ctx context.Context, actor entities.Actor) ([]*entities.Team, error)

	CreateRoom(ctx context.Context, actor entities.Actor, config entities.RoomConfig) (*interfaces.RoomDetails, error)
	GetRoom(ctx context.Context, actor entities.Actor, roomID int64) (*interfaces.RoomDetails, error)
	ListRooms(ctx context.Context, actor entities.Actor) ([]*entities.Room, error)
	ToggleRoom(ctx context.Context, actor entities.Actor, roomID int64, active bool) (*entities.Room, error)
	BlockUser(ctx context.Context, actor entities.Actor, roomID int64, username, reason string) (*interfaces.BlockOutcome, error)
	UnblockUser(ctx context.Context, actor entities.Actor, roomID int64, username string) (*interfaces.BlockOutcome, error)
	BlockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64, reason string) (*interfaces.BlockOutcome, error)
	UnblockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64) (*interfaces.BlockOutcome, error)

	Enroll(ctx context.Context, actor entities.Actor, roomID int64, mode entities.EnrollmentMode) (*interfaces.EnrollmentResult, error)

	RecordKills(ctx context.Context, actor entities.Actor, input interfaces.KillsInput) (*interfaces.KillsResult, error)
	SelectWinner(ctx context.Context, actor entities.Actor, input interfaces.WinnerInput) (*entities.Winner, error)
	Standings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error)
	Winners(ctx context.Context, roomID int64) ([]*entities.Winner, error)
	WinnerHistory(ctx context.Context, actor entities.Actor, roomID int64) ([]*entities.WinnerSelectionHistory, error)
	DistributeRewards(ctx context.Context, actor entities.Actor, roomID int64) (*entities.DistributionSummary, error)
}

// HealthChecker reports whether the store is reachable
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// RequestMetrics records one observation per handled request
type RequestMetrics interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}
