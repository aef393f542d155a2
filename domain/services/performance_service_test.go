package services

import (
	"context"
	"errors"
	"testing"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPerformanceServiceWithMocks(m *TestMocks) interfaces.PerformanceService {
	return NewPerformanceService(
		m.RoomRepo,
		m.GamingIDRepo,
		m.EnrollmentRepo,
		m.KillRecordRepo,
		m.WinnerRepo,
		m.Ledger(),
		m.EventPublisher,
	)
}

func expectEnrolledGamingID(m *TestMocks, room *entities.Room, gamingID *entities.GamingID) {
	m.RoomRepo.On("GetByID", mock.Anything, room.ID).Return(room, nil)
	m.GamingIDRepo.On("GetByID", mock.Anything, gamingID.ID).Return(gamingID, nil)
	m.EnrollmentRepo.On("IsGamingIDEnrolled", mock.Anything, room.ID, gamingID.ID).Return(true, nil)
}

// expectLockedEnrolledGamingID is expectEnrolledGamingID for operations
// that hold the room row lock
func expectLockedEnrolledGamingID(m *TestMocks, room *entities.Room, gamingID *entities.GamingID) {
	m.RoomRepo.On("GetByIDForUpdate", mock.Anything, room.ID).Return(room, nil)
	m.GamingIDRepo.On("GetByID", mock.Anything, gamingID.ID).Return(gamingID, nil)
	m.EnrollmentRepo.On("IsGamingIDEnrolled", mock.Anything, room.ID, gamingID.ID).Return(true, nil)
}

func killRewardRoom() *entities.Room {
	room := newTestRoom()
	room.KillReward = entities.KillRewardConfig{Enabled: true, MinKillsRequired: 3, RewardPerKill: 5}
	return room
}

func TestPerformanceService_RecordKills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		kills        int
		existing     *entities.KillRecord
		wantCredited int64
		wantEarned   int64
		wantKillDiff int64
	}{
		{name: "first submission pays eligible kills", kills: 7, wantCredited: 25, wantEarned: 25, wantKillDiff: 7},
		{name: "below threshold pays nothing", kills: 2, wantCredited: 0, wantEarned: 0, wantKillDiff: 2},
		{
			name:         "higher resubmission pays the difference",
			kills:        9,
			existing:     &entities.KillRecord{ID: 4, KillsCount: 7, RewardEarned: 25, RewardCredited: 25},
			wantCredited: 10,
			wantEarned:   35,
			wantKillDiff: 2,
		},
		{
			name:         "lower resubmission never debits",
			kills:        4,
			existing:     &entities.KillRecord{ID: 4, KillsCount: 7, RewardEarned: 25, RewardCredited: 25},
			wantCredited: 0,
			wantEarned:   10,
			wantKillDiff: -3,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			room := killRewardRoom()
			gamingID := newGamingID(7, TestUserID, "sniper")
			expectLockedEnrolledGamingID(m, room, gamingID)
			m.KillRecordRepo.On("Get", mock.Anything, TestRoomID, int64(7)).Return(tt.existing, nil)
			m.KillRecordRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.KillRecord")).
				Run(func(args mock.Arguments) {
					args.Get(1).(*entities.KillRecord).ID = 4
				}).Return(nil)
			if tt.wantCredited > 0 {
				m.UserRepo.On("AddBalance", mock.Anything, TestUserID, tt.wantCredited).Return(int64(1000), nil)
				m.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
					return h.TransactionType == entities.TransactionTypeKillReward && *h.RelatedID == 4
				})).Return(nil)
			}
			m.GamingIDRepo.On("AddKillStats", mock.Anything, int64(7), tt.wantKillDiff, tt.wantCredited).Return(nil)
			m.AllowEvents()

			svc := newPerformanceServiceWithMocks(m)
			result, err := svc.RecordKills(context.Background(), testAdmin, interfaces.KillsInput{
				RoomID: TestRoomID, GamingIDID: 7, KillsCount: tt.kills,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantCredited, result.Credited)
			assert.Equal(t, tt.wantEarned, result.Record.RewardEarned)
			assert.Equal(t, tt.kills, result.Record.KillsCount)
			assert.Equal(t, TestAdminID, result.Record.RecordedBy)
			m.AssertAllExpectations(t)
		})
	}
}

func TestPerformanceService_RecordKillsRequiresEnrollment(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.RoomRepo.On("GetByIDForUpdate", mock.Anything, TestRoomID).Return(newTestRoom(), nil)
	m.GamingIDRepo.On("GetByID", mock.Anything, int64(7)).Return(newGamingID(7, TestUserID, "sniper"), nil)
	m.EnrollmentRepo.On("IsGamingIDEnrolled", mock.Anything, TestRoomID, int64(7)).Return(false, nil)

	_, err := newPerformanceServiceWithMocks(m).RecordKills(context.Background(), testAdmin, interfaces.KillsInput{
		RoomID: TestRoomID, GamingIDID: 7, KillsCount: 3,
	})
	assert.ErrorIs(t, err, domain.ErrGamingIDNotInRoom)
}

func TestPerformanceService_RecordKillsLocksRoomFirst(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		room    *entities.Room
		lockErr error
		wantErr *domain.Error
	}{
		{name: "lock timeout is retryable", lockErr: domain.ErrLockTimeout.Wrap(errors.New("canceling statement due to lock timeout")), wantErr: domain.ErrLockTimeout},
		{name: "missing room", wantErr: domain.ErrRoomNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			m.RoomRepo.On("GetByIDForUpdate", mock.Anything, TestRoomID).Return(tt.room, tt.lockErr)

			_, err := newPerformanceServiceWithMocks(m).RecordKills(context.Background(), testAdmin, interfaces.KillsInput{
				RoomID: TestRoomID, GamingIDID: 7, KillsCount: 8,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			m.RoomRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
			m.KillRecordRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
			m.UserRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPerformanceService_SelectWinner(t *testing.T) {
	t.Parallel()

	tier := &entities.RewardTier{RoomID: TestRoomID, Position: 1, BaseReward: 500, KillBonusPerKill: 10, MaxKillBonus: 100}

	tests := []struct {
		name       string
		position   int
		setupMocks func(m *TestMocks)
		wantErr    error
		check      func(t *testing.T, w *entities.Winner)
	}{
		{
			name:     "reward is base plus capped kill bonus",
			position: 1,
			setupMocks: func(m *TestMocks) {
				expectEnrolledGamingID(m, newTestRoom(), newGamingID(7, TestUserID, "sniper"))
				m.RoomRepo.On("GetRewardTier", mock.Anything, TestRoomID, 1).Return(tier, nil)
				m.WinnerRepo.On("GetByPositionForUpdate", mock.Anything, TestRoomID, 1).Return(nil, nil)
				m.WinnerRepo.On("ListByRoom", mock.Anything, TestRoomID).Return([]*entities.Winner{}, nil)
				m.KillRecordRepo.On("Get", mock.Anything, TestRoomID, int64(7)).Return(&entities.KillRecord{KillsCount: 8}, nil)
				m.WinnerRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
				m.WinnerRepo.On("RecordHistory", mock.Anything, mock.MatchedBy(func(h *entities.WinnerSelectionHistory) bool {
					return h.ActionType == entities.WinnerActionSelected && h.RewardAmount == 580
				})).Return(nil)
				m.AllowEvents()
			},
			check: func(t *testing.T, w *entities.Winner) {
				assert.Equal(t, int64(580), w.RewardAmount)
				assert.Equal(t, 8, w.KillsCount)
				assert.Equal(t, int64(130), w.PerformanceScore)
				assert.Equal(t, TestUserID, w.UserID)
			},
		},
		{
			name:     "distributed position cannot be reassigned",
			position: 1,
			setupMocks: func(m *TestMocks) {
				expectEnrolledGamingID(m, newTestRoom(), newGamingID(7, TestUserID, "sniper"))
				m.RoomRepo.On("GetRewardTier", mock.Anything, TestRoomID, 1).Return(tier, nil)
				m.WinnerRepo.On("GetByPositionForUpdate", mock.Anything, TestRoomID, 1).
					Return(&entities.Winner{ID: 3, Position: 1, GamingIDID: 9, RewardDistributed: true}, nil)
			},
			wantErr: domain.ErrWinnerAlreadyDistributed,
		},
		{
			name:     "gaming ID already holds another position",
			position: 1,
			setupMocks: func(m *TestMocks) {
				expectEnrolledGamingID(m, newTestRoom(), newGamingID(7, TestUserID, "sniper"))
				m.RoomRepo.On("GetRewardTier", mock.Anything, TestRoomID, 1).Return(tier, nil)
				m.WinnerRepo.On("GetByPositionForUpdate", mock.Anything, TestRoomID, 1).Return(nil, nil)
				m.WinnerRepo.On("ListByRoom", mock.Anything, TestRoomID).
					Return([]*entities.Winner{{ID: 4, Position: 2, GamingIDID: 7}}, nil)
			},
			wantErr: domain.ErrWinnerDuplicateGamingID,
		},
		{
			name:       "position out of range",
			position:   4,
			setupMocks: func(m *TestMocks) {},
			wantErr:    domain.ErrInvalidPosition,
		},
		{
			name:     "tier missing",
			position: 2,
			setupMocks: func(m *TestMocks) {
				expectEnrolledGamingID(m, newTestRoom(), newGamingID(7, TestUserID, "sniper"))
				m.RoomRepo.On("GetRewardTier", mock.Anything, TestRoomID, 2).Return(nil, nil)
			},
			wantErr: domain.ErrRewardTierNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			tt.setupMocks(m)

			winner, err := newPerformanceServiceWithMocks(m).SelectWinner(context.Background(), testAdmin, interfaces.WinnerInput{
				RoomID: TestRoomID, GamingIDID: 7, Position: tt.position,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.WinnerRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tt.check(t, winner)
			m.AssertAllExpectations(t)
		})
	}
}

func TestPerformanceService_DistributeWinner(t *testing.T) {
	t.Parallel()

	t.Run("pays once and marks distributed", func(t *testing.T) {
		t.Parallel()

		m := NewTestMocks()
		m.WinnerRepo.On("GetByIDForUpdate", mock.Anything, int64(3)).
			Return(&entities.Winner{ID: 3, RoomID: TestRoomID, Position: 1, GamingIDID: 7, UserID: TestUserID, RewardAmount: 580}, nil)
		m.WinnerRepo.On("MarkDistributed", mock.Anything, int64(3), mock.Anything).Return(true, nil)
		m.UserRepo.On("AddBalance", mock.Anything, TestUserID, int64(580)).Return(int64(1080), nil)
		m.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
			return h.TransactionType == entities.TransactionTypeWinnerReward && *h.RelatedType == entities.RelatedTypeWinner
		})).Return(nil)
		m.GamingIDRepo.On("AddKillStats", mock.Anything, int64(7), int64(0), int64(580)).Return(nil)
		m.WinnerRepo.On("RecordHistory", mock.Anything, mock.MatchedBy(func(h *entities.WinnerSelectionHistory) bool {
			return h.ActionType == entities.WinnerActionDistributed
		})).Return(nil)
		m.AllowEvents()

		winner, paid, err := newPerformanceServiceWithMocks(m).DistributeWinner(context.Background(), testAdmin, 3)
		require.NoError(t, err)
		assert.True(t, paid)
		assert.True(t, winner.RewardDistributed)
		assert.NotNil(t, winner.DistributedAt)
		m.AssertAllExpectations(t)
	})

	t.Run("already distributed winner is skipped", func(t *testing.T) {
		t.Parallel()

		m := NewTestMocks()
		m.WinnerRepo.On("GetByIDForUpdate", mock.Anything, int64(3)).
			Return(&entities.Winner{ID: 3, UserID: TestUserID, RewardAmount: 580, RewardDistributed: true}, nil)

		_, paid, err := newPerformanceServiceWithMocks(m).DistributeWinner(context.Background(), testAdmin, 3)
		require.NoError(t, err)
		assert.False(t, paid)
		m.UserRepo.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non admin", func(t *testing.T) {
		t.Parallel()

		m := NewTestMocks()
		_, _, err := newPerformanceServiceWithMocks(m).DistributeWinner(context.Background(), testUser, 3)
		assert.ErrorIs(t, err, domain.ErrNotAdmin)
	})
}
