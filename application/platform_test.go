package application

import (
	"context"
	"errors"
	"testing"

	"tourney/domain"
	"tourney/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	adminActor  = entities.Actor{UserID: 1, Username: "admin", IsAdmin: true}
	playerActor = entities.Actor{UserID: 100, Username: "player1"}
)

func TestPlatform_TransactionOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(f *fakeUnitOfWorkFactory)
		wantKind   domain.Kind
		wantCommit bool
	}{
		{
			name: "success commits",
			setup: func(f *fakeUnitOfWorkFactory) {
				f.UserRepo.On("GetByID", mock.Anything, int64(100)).Return(&entities.User{ID: 100, Balance: 250}, nil)
			},
			wantCommit: true,
		},
		{
			name: "domain error rolls back",
			setup: func(f *fakeUnitOfWorkFactory) {
				f.UserRepo.On("GetByID", mock.Anything, int64(100)).Return(nil, nil)
			},
			wantKind: domain.KindNotFound,
		},
		{
			name: "commit failure is storage unavailable",
			setup: func(f *fakeUnitOfWorkFactory) {
				f.UserRepo.On("GetByID", mock.Anything, int64(100)).Return(&entities.User{ID: 100}, nil)
				f.commitErr = errors.New("connection reset")
			},
			wantKind: domain.KindStorageUnavailable,
		},
		{
			name: "commit lock timeout stays retryable",
			setup: func(f *fakeUnitOfWorkFactory) {
				f.UserRepo.On("GetByID", mock.Anything, int64(100)).Return(&entities.User{ID: 100}, nil)
				f.commitErr = domain.ErrLockTimeout.Wrap(errors.New("40001"))
			},
			wantKind: domain.KindRetryable,
		},
		{
			name: "begin failure is storage unavailable",
			setup: func(f *fakeUnitOfWorkFactory) {
				f.beginErr = errors.New("pool closed")
			},
			wantKind: domain.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeUnitOfWorkFactory()
			tt.setup(f)
			platform := NewPlatform(f, nil)

			balance, err := platform.GetBalance(context.Background(), playerActor)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(250), balance)
			}

			require.Len(t, f.created, 1)
			assert.Equal(t, tt.wantCommit, f.created[0].committed)
			if !tt.wantCommit && f.beginErr == nil {
				assert.True(t, f.created[0].rolledBack || f.commitErr != nil)
			}
		})
	}
}

func TestPlatform_GetRoomHidesCredentials(t *testing.T) {
	t.Parallel()

	room := &entities.Room{ID: 10, Name: "Squad Cup", MaxPlayers: 10, IsActive: true, Status: entities.RoomStatusOpen, GameRoomID: "R-77", GameRoomPassword: "secret"}

	tests := []struct {
		name     string
		actor    entities.Actor
		enrolled bool
		visible  bool
	}{
		{name: "admin sees credentials", actor: adminActor, visible: true},
		{name: "enrolled player sees credentials", actor: playerActor, enrolled: true, visible: true},
		{name: "other player does not", actor: playerActor},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeUnitOfWorkFactory()
			stored := *room
			f.RoomRepo.On("GetByID", mock.Anything, int64(10)).Return(&stored, nil)
			f.RoomRepo.On("GetRewardTiers", mock.Anything, int64(10)).Return([]entities.RewardTier{}, nil)
			f.EnrollmentRepo.On("CountActiveSlots", mock.Anything, int64(10)).Return(3, nil)
			f.EnrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(10), tt.actor.UserID).Return(tt.enrolled, nil).Maybe()

			details, err := NewPlatform(f, nil).GetRoom(context.Background(), tt.actor, 10)
			require.NoError(t, err)

			if tt.visible {
				assert.Equal(t, "secret", details.Room.GameRoomPassword)
				assert.Equal(t, "R-77", details.Room.GameRoomID)
			} else {
				assert.Empty(t, details.Room.GameRoomPassword)
				assert.Empty(t, details.Room.GameRoomID)
			}
			assert.Equal(t, 3, details.Occupancy.Used)
		})
	}
}

func TestPlatform_DistributeRewards(t *testing.T) {
	t.Parallel()

	f := newFakeUnitOfWorkFactory()
	ctx := context.Background()

	f.RoomRepo.On("GetByID", mock.Anything, int64(10)).Return(&entities.Room{ID: 10, Name: "Squad Cup"}, nil)
	f.WinnerRepo.On("ListUndistributedIDs", mock.Anything, int64(10)).Return([]int64{1, 2, 3}, nil)

	payable := func(id int64, position int, amount int64) *entities.Winner {
		return &entities.Winner{ID: id, RoomID: 10, Position: position, GamingIDID: 50 + id, UserID: 100 + id, RewardAmount: amount}
	}
	f.WinnerRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(payable(1, 1, 400), nil)
	f.WinnerRepo.On("GetByIDForUpdate", mock.Anything, int64(2)).Return(&entities.Winner{ID: 2, RoomID: 10, Position: 2, RewardAmount: 240, RewardDistributed: true}, nil)
	f.WinnerRepo.On("GetByIDForUpdate", mock.Anything, int64(3)).Return(payable(3, 3, 160), nil)

	f.WinnerRepo.On("MarkDistributed", mock.Anything, int64(1), mock.Anything).Return(true, nil)
	f.WinnerRepo.On("MarkDistributed", mock.Anything, int64(3), mock.Anything).Return(true, nil)

	f.UserRepo.On("AddBalance", mock.Anything, int64(101), int64(400)).Return(int64(400), nil)
	f.UserRepo.On("AddBalance", mock.Anything, int64(103), int64(160)).Return(int64(160), nil)
	f.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.TransactionType == entities.TransactionTypeWinnerReward
	})).Return(nil).Twice()

	f.GamingIDRepo.On("AddKillStats", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(nil)
	f.WinnerRepo.On("RecordHistory", mock.Anything, mock.Anything).Return(nil)

	summary, err := NewPlatform(f, nil).DistributeRewards(ctx, adminActor, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.WinnersPaid)
	assert.Equal(t, int64(560), summary.TotalDistributed)
	assert.Equal(t, 1, summary.Skipped)

	// One unit of work for the listing and one per winner
	assert.Len(t, f.created, 4)
	assert.Equal(t, 4, f.commits())
	f.UserRepo.AssertExpectations(t)
	f.BalanceHistoryRepo.AssertExpectations(t)
}

func TestPlatform_DistributeRewardsStopsOnFailure(t *testing.T) {
	t.Parallel()

	f := newFakeUnitOfWorkFactory()

	f.RoomRepo.On("GetByID", mock.Anything, int64(10)).Return(&entities.Room{ID: 10}, nil)
	f.WinnerRepo.On("ListUndistributedIDs", mock.Anything, int64(10)).Return([]int64{1, 2}, nil)
	f.WinnerRepo.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(nil, domain.ErrLockTimeout)

	summary, err := NewPlatform(f, nil).DistributeRewards(context.Background(), adminActor, 10)
	require.ErrorIs(t, err, domain.ErrLockTimeout)
	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.WinnersPaid)
	f.WinnerRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, int64(2))
}

func TestPlatform_DistributeRewardsRequiresAdmin(t *testing.T) {
	t.Parallel()

	f := newFakeUnitOfWorkFactory()
	_, err := NewPlatform(f, nil).DistributeRewards(context.Background(), playerActor, 10)
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
}
