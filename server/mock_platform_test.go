package server

import (
	"context"

	"tourney/domain/entities"
	"tourney/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// mockPlatform is a testify mock of Platform
type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) Actor(ctx context.Context, userID int64) (entities.Actor, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entities.Actor), args.Error(1)
}

func (m *mockPlatform) Signup(ctx context.Context, input interfaces.SignupInput) (*entities.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockPlatform) Login(ctx context.Context, username string, password string) (*entities.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockPlatform) GetBalance(ctx context.Context, actor entities.Actor) (int64, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPlatform) BalanceHistory(ctx context.Context, actor entities.Actor, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

func (m *mockPlatform) RequestTopUp(ctx context.Context, actor entities.Actor, amount int64, proofRef string) (*entities.PaymentRequest, error) {
	args := m.Called(ctx, actor, amount, proofRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRequest), args.Error(1)
}

func (m *mockPlatform) RequestWithdrawal(ctx context.Context, actor entities.Actor, amount int64, payoutHandle string) (*entities.PaymentRequest, error) {
	args := m.Called(ctx, actor, amount, payoutHandle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRequest), args.Error(1)
}

func (m *mockPlatform) ApprovePayment(ctx context.Context, actor entities.Actor, requestID int64, adminProofRef string) (*entities.PaymentRequest, error) {
	args := m.Called(ctx, actor, requestID, adminProofRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRequest), args.Error(1)
}

func (m *mockPlatform) RejectPayment(ctx context.Context, actor entities.Actor, requestID int64, note string) (*entities.PaymentRequest, error) {
	args := m.Called(ctx, actor, requestID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRequest), args.Error(1)
}

func (m *mockPlatform) ListPendingPayments(ctx context.Context, actor entities.Actor, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error) {
	args := m.Called(ctx, actor, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentRequest), args.Error(1)
}

func (m *mockPlatform) ListMyPayments(ctx context.Context, actor entities.Actor, limit int) ([]*entities.PaymentRequest, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentRequest), args.Error(1)
}

func (m *mockPlatform) AddGamingID(ctx context.Context, actor entities.Actor, input interfaces.GamingIDInput) (*entities.GamingID, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GamingID), args.Error(1)
}

func (m *mockPlatform) EditGamingID(ctx context.Context, actor entities.Actor, id int64, input interfaces.GamingIDInput) (*entities.GamingID, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GamingID), args.Error(1)
}

func (m *mockPlatform) SetPrimaryGamingID(ctx context.Context, actor entities.Actor, id int64) (*entities.GamingID, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GamingID), args.Error(1)
}

func (m *mockPlatform) ListGamingIDs(ctx context.Context, actor entities.Actor) ([]*entities.GamingID, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GamingID), args.Error(1)
}

func (m *mockPlatform) CreateTeam(ctx context.Context, actor entities.Actor, input interfaces.TeamInput) (*entities.Team, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *mockPlatform) EditTeam(ctx context.Context, actor entities.Actor, id int64, input interfaces.TeamInput) (*entities.Team, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *mockPlatform) ToggleTeam(ctx context.Context, actor entities.Actor, id int64, active bool) (*entities.Team, error) {
	args := m.Called(ctx, actor, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *mockPlatform) ListTeams(ctx context.Context, actor entities.Actor) ([]*entities.Team, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Team), args.Error(1)
}

func (m *mockPlatform) CreateRoom(ctx context.Context, actor entities.Actor, config entities.RoomConfig) (*interfaces.RoomDetails, error) {
	args := m.Called(ctx, actor, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RoomDetails), args.Error(1)
}

func (m *mockPlatform) GetRoom(ctx context.Context, actor entities.Actor, roomID int64) (*interfaces.RoomDetails, error) {
	args := m.Called(ctx, actor, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RoomDetails), args.Error(1)
}

func (m *mockPlatform) ListRooms(ctx context.Context, actor entities.Actor) ([]*entities.Room, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Room), args.Error(1)
}

func (m *mockPlatform) ToggleRoom(ctx context.Context, actor entities.Actor, roomID int64, active bool) (*entities.Room, error) {
	args := m.Called(ctx, actor, roomID, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Room), args.Error(1)
}

func (m *mockPlatform) BlockUser(ctx context.Context, actor entities.Actor, roomID int64, username string, reason string) (*interfaces.BlockOutcome, error) {
	args := m.Called(ctx, actor, roomID, username, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.BlockOutcome), args.Error(1)
}

func (m *mockPlatform) UnblockUser(ctx context.Context, actor entities.Actor, roomID int64, username string) (*interfaces.BlockOutcome, error) {
	args := m.Called(ctx, actor, roomID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.BlockOutcome), args.Error(1)
}

func (m *mockPlatform) BlockTeam(ctx context.Context, actor entities.Actor, roomID int64, teamID int64, reason string) (*interfaces.BlockOutcome, error) {
	args := m.Called(ctx, actor, roomID, teamID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.BlockOutcome), args.Error(1)
}

func (m *mockPlatform) UnblockTeam(ctx context.Context, actor entities.Actor, roomID int64, teamID int64) (*interfaces.BlockOutcome, error) {
	args := m.Called(ctx, actor, roomID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.BlockOutcome), args.Error(1)
}

func (m *mockPlatform) Enroll(ctx context.Context, actor entities.Actor, roomID int64, mode entities.EnrollmentMode) (*interfaces.EnrollmentResult, error) {
	args := m.Called(ctx, actor, roomID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.EnrollmentResult), args.Error(1)
}

func (m *mockPlatform) RecordKills(ctx context.Context, actor entities.Actor, input interfaces.KillsInput) (*interfaces.KillsResult, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.KillsResult), args.Error(1)
}

func (m *mockPlatform) SelectWinner(ctx context.Context, actor entities.Actor, input interfaces.WinnerInput) (*entities.Winner, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Winner), args.Error(1)
}

func (m *mockPlatform) Standings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RoomStanding), args.Error(1)
}

func (m *mockPlatform) Winners(ctx context.Context, roomID int64) ([]*entities.Winner, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Winner), args.Error(1)
}

func (m *mockPlatform) WinnerHistory(ctx context.Context, actor entities.Actor, roomID int64) ([]*entities.WinnerSelectionHistory, error) {
	args := m.Called(ctx, actor, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WinnerSelectionHistory), args.Error(1)
}

func (m *mockPlatform) DistributeRewards(ctx context.Context, actor entities.Actor, roomID int64) (*entities.DistributionSummary, error) {
	args := m.Called(ctx, actor, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DistributionSummary), args.Error(1)
}
