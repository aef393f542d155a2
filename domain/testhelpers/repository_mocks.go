package testhelpers

import (
	"context"
	"time"

	"tourney/domain/entities"
	"tourney/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) AddBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) DeductBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

// MockGamingIDRepository is a mock implementation of GamingIDRepository
type MockGamingIDRepository struct {
	mock.Mock
}

func (m *MockGamingIDRepository) Create(ctx context.Context, gamingID *entities.GamingID) error {
	args := m.Called(ctx, gamingID)
	return args.Error(0)
}

func (m *MockGamingIDRepository) GetByID(ctx context.Context, id int64) (*entities.GamingID, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GamingID), args.Error(1)
}

func (m *MockGamingIDRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entities.GamingID, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GamingID), args.Error(1)
}

func (m *MockGamingIDRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.GamingID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GamingID), args.Error(1)
}

func (m *MockGamingIDRepository) ExistsForUser(ctx context.Context, userID int64, platform, username string, excludeID int64) (bool, error) {
	args := m.Called(ctx, userID, platform, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGamingIDRepository) Update(ctx context.Context, gamingID *entities.GamingID) error {
	args := m.Called(ctx, gamingID)
	return args.Error(0)
}

func (m *MockGamingIDRepository) ClearPrimary(ctx context.Context, userID int64, exceptID int64) error {
	args := m.Called(ctx, userID, exceptID)
	return args.Error(0)
}

func (m *MockGamingIDRepository) IncrementRoomsJoined(ctx context.Context, ids []int64) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockGamingIDRepository) AddKillStats(ctx context.Context, id int64, kills int64, rewards int64) error {
	args := m.Called(ctx, id, kills, rewards)
	return args.Error(0)
}

func (m *MockGamingIDRepository) GetStats(ctx context.Context, id int64) (*entities.GamingIDStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GamingIDStats), args.Error(1)
}

// MockTeamRepository is a mock implementation of TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.Team, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Team), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *entities.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *entities.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*entities.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context, activeOnly bool) ([]*entities.Room, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Room), args.Error(1)
}

func (m *MockRoomRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockRoomRepository) SetStatus(ctx context.Context, id int64, status entities.RoomStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRoomRepository) ListOpenStartedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Room, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Room), args.Error(1)
}

func (m *MockRoomRepository) SaveRewardTiers(ctx context.Context, roomID int64, tiers []entities.RewardTier) error {
	args := m.Called(ctx, roomID, tiers)
	return args.Error(0)
}

func (m *MockRoomRepository) GetRewardTiers(ctx context.Context, roomID int64) ([]entities.RewardTier, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RewardTier), args.Error(1)
}

func (m *MockRoomRepository) GetRewardTier(ctx context.Context, roomID int64, position int) (*entities.RewardTier, error) {
	args := m.Called(ctx, roomID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RewardTier), args.Error(1)
}

// MockBlockRepository is a mock implementation of BlockRepository
type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) BlockUser(ctx context.Context, block *entities.BlockedUser) (bool, error) {
	args := m.Called(ctx, block)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) UnblockUser(ctx context.Context, roomID, userID int64) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) IsUserBlocked(ctx context.Context, roomID, userID int64) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) BlockTeam(ctx context.Context, block *entities.BlockedTeam) (bool, error) {
	args := m.Called(ctx, block)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) UnblockTeam(ctx context.Context, roomID, teamID int64) (bool, error) {
	args := m.Called(ctx, roomID, teamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) IsTeamBlocked(ctx context.Context, roomID, teamID int64) (bool, error) {
	args := m.Called(ctx, roomID, teamID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) ListBlockedUsers(ctx context.Context, roomID int64) ([]*entities.BlockedUser, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BlockedUser), args.Error(1)
}

func (m *MockBlockRepository) ListBlockedTeams(ctx context.Context, roomID int64) ([]*entities.BlockedTeam, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BlockedTeam), args.Error(1)
}

// MockEnrollmentRepository is a mock implementation of EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *entities.RoomEnrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) GetActiveByUser(ctx context.Context, roomID, userID int64) (*entities.RoomEnrollment, error) {
	args := m.Called(ctx, roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RoomEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) GetActiveByTeam(ctx context.Context, roomID, teamID int64) (*entities.RoomEnrollment, error) {
	args := m.Called(ctx, roomID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RoomEnrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) CountActiveSlots(ctx context.Context, roomID int64) (int, error) {
	args := m.Called(ctx, roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockEnrollmentRepository) FindGamingIDClaims(ctx context.Context, roomID int64, ids []int64) ([]entities.GamingIDClaim, error) {
	args := m.Called(ctx, roomID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.GamingIDClaim), args.Error(1)
}

func (m *MockEnrollmentRepository) FindHandleClaims(ctx context.Context, roomID int64, handles []entities.GamingHandle, excludeUserID int64) ([]entities.GamingIDClaim, error) {
	args := m.Called(ctx, roomID, handles, excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.GamingIDClaim), args.Error(1)
}

func (m *MockEnrollmentRepository) IsGamingIDEnrolled(ctx context.Context, roomID, gamingIDID int64) (bool, error) {
	args := m.Called(ctx, roomID, gamingIDID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) CountActiveRooms(ctx context.Context, gamingIDID int64) (int, error) {
	args := m.Called(ctx, gamingIDID)
	return args.Int(0), args.Error(1)
}

func (m *MockEnrollmentRepository) IsUserEnrolled(ctx context.Context, roomID, userID int64) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) ListStandings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RoomStanding), args.Error(1)
}

// MockKillRecordRepository is a mock implementation of KillRecordRepository
type MockKillRecordRepository struct {
	mock.Mock
}

func (m *MockKillRecordRepository) Get(ctx context.Context, roomID, gamingIDID int64) (*entities.KillRecord, error) {
	args := m.Called(ctx, roomID, gamingIDID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.KillRecord), args.Error(1)
}

func (m *MockKillRecordRepository) Upsert(ctx context.Context, record *entities.KillRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockKillRecordRepository) ListByRoom(ctx context.Context, roomID int64) ([]*entities.KillRecord, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.KillRecord), args.Error(1)
}

// MockWinnerRepository is a mock implementation of WinnerRepository
type MockWinnerRepository struct {
	mock.Mock
}

func (m *MockWinnerRepository) GetByPositionForUpdate(ctx context.Context, roomID int64, position int) (*entities.Winner, error) {
	args := m.Called(ctx, roomID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Winner), args.Error(1)
}

func (m *MockWinnerRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Winner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Winner), args.Error(1)
}

func (m *MockWinnerRepository) Upsert(ctx context.Context, winner *entities.Winner) error {
	args := m.Called(ctx, winner)
	return args.Error(0)
}

func (m *MockWinnerRepository) ListByRoom(ctx context.Context, roomID int64) ([]*entities.Winner, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Winner), args.Error(1)
}

func (m *MockWinnerRepository) ListUndistributedIDs(ctx context.Context, roomID int64) ([]int64, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockWinnerRepository) MarkDistributed(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockWinnerRepository) RecordHistory(ctx context.Context, entry *entities.WinnerSelectionHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWinnerRepository) GetHistory(ctx context.Context, roomID int64) ([]*entities.WinnerSelectionHistory, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WinnerSelectionHistory), args.Error(1)
}

// MockPaymentRequestRepository is a mock implementation of PaymentRequestRepository
type MockPaymentRequestRepository struct {
	mock.Mock
}

func (m *MockPaymentRequestRepository) Create(ctx context.Context, request *entities.PaymentRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPaymentRequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) Finalize(ctx context.Context, request *entities.PaymentRequest) (bool, error) {
	args := m.Called(ctx, request)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRequestRepository) ListPending(ctx context.Context, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.PaymentRequest, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.PaymentRequest), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
