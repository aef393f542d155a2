package services

import (
	"context"
	"testing"
	"time"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/events"
	"tourney/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRoomServiceWithMocks(m *TestMocks) interfaces.RoomService {
	return NewRoomService(m.RoomRepo, m.BlockRepo, m.EnrollmentRepo, m.UserRepo, m.TeamRepo, m.EventPublisher)
}

func TestRoomService_CreateRoom(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.RoomRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Room")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Room).ID = TestRoomID
		}).Return(nil)
	m.RoomRepo.On("SaveRewardTiers", mock.Anything, TestRoomID, mock.MatchedBy(func(tiers []entities.RewardTier) bool {
		return len(tiers) == 3 && tiers[0].RoomID == TestRoomID && tiers[0].BaseReward == 400
	})).Return(nil)
	m.RoomRepo.On("GetByID", mock.Anything, TestRoomID).Return(newTestRoom(), nil)
	m.UserRepo.On("GetByUsername", mock.Anything, "cheater").Return(&entities.User{ID: TestOtherUserID, Username: "cheater"}, nil)
	m.UserRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
	m.BlockRepo.On("BlockUser", mock.Anything, mock.MatchedBy(func(b *entities.BlockedUser) bool {
		return b.UserID == TestOtherUserID && b.Reason == "banned last season" && b.BlockedBy == TestAdminID
	})).Return(true, nil)
	m.EventPublisher.On("Publish", mock.MatchedBy(func(e interface{}) bool {
		_, ok := e.(events.RoomCreatedEvent)
		return ok
	})).Return(nil)

	details, err := newRoomServiceWithMocks(m).CreateRoom(context.Background(), testAdmin, entities.RoomConfig{
		Name:             "Squad Cup",
		EntryFee:         50,
		PrizePool:        1000,
		MaxPlayers:       10,
		IsMultiplayer:    true,
		BlockedUsernames: []string{"cheater", "ghost", " "},
		BlockReason:      "banned last season",
	})

	require.NoError(t, err)
	assert.Equal(t, TestRoomID, details.Room.ID)
	assert.Equal(t, 10, details.Occupancy.Remaining())
	m.AssertAllExpectations(t)
}

func TestRoomService_CreateRoomRequiresAdmin(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	_, err := newRoomServiceWithMocks(m).CreateRoom(context.Background(), testUser, entities.RoomConfig{Name: "x", MaxPlayers: 2})
	assert.ErrorIs(t, err, domain.ErrNotAdmin)
	m.RoomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_BlockIsIdempotent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		changed     bool
		wantWarning string
	}{
		{name: "first block changes the list", changed: true},
		{name: "repeat block warns", changed: false, wantWarning: "User 'cheater' is already blocked from this room"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			m.RoomRepo.On("GetByID", mock.Anything, TestRoomID).Return(newTestRoom(), nil)
			m.UserRepo.On("GetByUsername", mock.Anything, "cheater").Return(&entities.User{ID: TestOtherUserID, Username: "cheater"}, nil)
			m.BlockRepo.On("BlockUser", mock.Anything, mock.Anything).Return(tt.changed, nil)

			outcome, err := newRoomServiceWithMocks(m).BlockUser(context.Background(), testAdmin, TestRoomID, "cheater", "")
			require.NoError(t, err)
			assert.Equal(t, tt.changed, outcome.Changed)
			assert.Equal(t, tt.wantWarning, outcome.Warning)
		})
	}
}

func TestRoomService_UnblockTeam(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.RoomRepo.On("GetByID", mock.Anything, TestRoomID).Return(newTestRoom(), nil)
	m.BlockRepo.On("UnblockTeam", mock.Anything, TestRoomID, TestTeamID).Return(false, nil)

	outcome, err := newRoomServiceWithMocks(m).UnblockTeam(context.Background(), testAdmin, TestRoomID, TestTeamID)
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.NotEmpty(t, outcome.Warning)
}

func TestRoomService_Occupancy(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.RoomRepo.On("GetByID", mock.Anything, TestRoomID).Return(newTestRoom(), nil)
	m.EnrollmentRepo.On("CountActiveSlots", mock.Anything, TestRoomID).Return(9, nil)

	occupancy, err := newRoomServiceWithMocks(m).Occupancy(context.Background(), TestRoomID)
	require.NoError(t, err)
	assert.Equal(t, 9, occupancy.Used)
	assert.Equal(t, 1, occupancy.Remaining())
}

func TestRoomService_CloseExpired(t *testing.T) {
	t.Parallel()

	cutoff := time.Now().Add(-6 * time.Hour)
	m := NewTestMocks()
	m.RoomRepo.On("ListOpenStartedBefore", mock.Anything, cutoff).
		Return([]*entities.Room{{ID: 1, Status: entities.RoomStatusOpen}, {ID: 2, Status: entities.RoomStatusOpen}}, nil)
	m.RoomRepo.On("SetStatus", mock.Anything, int64(1), entities.RoomStatusClosed).Return(nil)
	m.RoomRepo.On("SetStatus", mock.Anything, int64(2), entities.RoomStatusClosed).Return(nil)
	m.EventPublisher.On("Publish", mock.MatchedBy(func(e interface{}) bool {
		ev, ok := e.(events.RoomStatusChangedEvent)
		return ok && ev.Status == entities.RoomStatusClosed && ev.ActorID == 0
	})).Return(nil).Twice()

	closed, err := newRoomServiceWithMocks(m).CloseExpired(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, closed)
	m.AssertAllExpectations(t)
}
