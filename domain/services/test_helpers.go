package services

import (
	"testing"

	"tourney/domain/entities"
	"tourney/domain/interfaces"
	"tourney/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	TestAdminID     = int64(1)
	TestUserID      = int64(100)
	TestOtherUserID = int64(200)
	TestRoomID      = int64(10)
	TestTeamID      = int64(30)
)

var (
	testAdmin = entities.Actor{UserID: TestAdminID, Username: "admin", IsAdmin: true}
	testUser  = entities.Actor{UserID: TestUserID, Username: "player1"}
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	UserRepo           *testhelpers.MockUserRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	GamingIDRepo       *testhelpers.MockGamingIDRepository
	TeamRepo           *testhelpers.MockTeamRepository
	RoomRepo           *testhelpers.MockRoomRepository
	BlockRepo          *testhelpers.MockBlockRepository
	EnrollmentRepo     *testhelpers.MockEnrollmentRepository
	KillRecordRepo     *testhelpers.MockKillRecordRepository
	WinnerRepo         *testhelpers.MockWinnerRepository
	PaymentRepo        *testhelpers.MockPaymentRequestRepository
	EventPublisher     *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		UserRepo:           &testhelpers.MockUserRepository{},
		BalanceHistoryRepo: &testhelpers.MockBalanceHistoryRepository{},
		GamingIDRepo:       &testhelpers.MockGamingIDRepository{},
		TeamRepo:           &testhelpers.MockTeamRepository{},
		RoomRepo:           &testhelpers.MockRoomRepository{},
		BlockRepo:          &testhelpers.MockBlockRepository{},
		EnrollmentRepo:     &testhelpers.MockEnrollmentRepository{},
		KillRecordRepo:     &testhelpers.MockKillRecordRepository{},
		WinnerRepo:         &testhelpers.MockWinnerRepository{},
		PaymentRepo:        &testhelpers.MockPaymentRequestRepository{},
		EventPublisher:     &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.UserRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.GamingIDRepo.AssertExpectations(t)
	m.TeamRepo.AssertExpectations(t)
	m.RoomRepo.AssertExpectations(t)
	m.BlockRepo.AssertExpectations(t)
	m.EnrollmentRepo.AssertExpectations(t)
	m.KillRecordRepo.AssertExpectations(t)
	m.WinnerRepo.AssertExpectations(t)
	m.PaymentRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// Ledger returns a real ledger service over the mocks
func (m *TestMocks) Ledger() interfaces.LedgerService {
	return NewLedgerService(m.UserRepo, m.BalanceHistoryRepo, m.EventPublisher)
}

// AllowEvents accepts any published event
func (m *TestMocks) AllowEvents() {
	m.EventPublisher.On("Publish", mock.Anything).Return(nil).Maybe()
}

// ExpectHistory expects one ledger entry per call and assigns it an id
func (m *TestMocks) ExpectHistory(id int64) {
	m.BalanceHistoryRepo.On("Record", mock.Anything, mock.AnythingOfType("*entities.BalanceHistory")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.BalanceHistory).ID = id
		}).
		Return(nil).Once()
}

func newTestRoom() *entities.Room {
	return &entities.Room{
		ID:                TestRoomID,
		Name:              "Squad Cup",
		EntryFee:          50,
		PrizePool:         1000,
		MaxPlayers:        10,
		MinTeamSize:       1,
		MaxTeamSize:       4,
		MinPlayersToStart: 2,
		IsMultiplayer:     true,
		IsActive:          true,
		Status:            entities.RoomStatusOpen,
		ConfigVersion:     entities.RoomConfigVersion,
	}
}

func newGamingID(id, userID int64, username string) *entities.GamingID {
	return &entities.GamingID{
		ID:          id,
		UserID:      userID,
		Platform:    entities.DefaultPlatform,
		Username:    username,
		DisplayName: username,
		IsActive:    true,
	}
}
