package services

import (
	"context"
	"testing"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newIdentityServiceWithMocks(m *TestMocks) interfaces.IdentityService {
	return NewIdentityService(m.GamingIDRepo, m.TeamRepo, m.EnrollmentRepo)
}

func TestIdentityService_AddGamingID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      interfaces.GamingIDInput
		setupMocks func(m *TestMocks)
		wantErr    error
		check      func(t *testing.T, g *entities.GamingID)
	}{
		{
			name:  "defaults platform and display name",
			input: interfaces.GamingIDInput{Username: " sniper "},
			setupMocks: func(m *TestMocks) {
				m.GamingIDRepo.On("ExistsForUser", mock.Anything, TestUserID, "PUBG", "sniper", int64(0)).Return(false, nil)
				m.GamingIDRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, g *entities.GamingID) {
				assert.Equal(t, "PUBG", g.Platform)
				assert.Equal(t, "sniper", g.DisplayName)
				assert.True(t, g.IsActive)
				assert.False(t, g.IsPrimary)
			},
		},
		{
			name:  "primary clears the other primaries first",
			input: interfaces.GamingIDInput{Platform: "BGMI", Username: "sniper", IsPrimary: true},
			setupMocks: func(m *TestMocks) {
				m.GamingIDRepo.On("ExistsForUser", mock.Anything, TestUserID, "BGMI", "sniper", int64(0)).Return(false, nil)
				m.GamingIDRepo.On("ClearPrimary", mock.Anything, TestUserID, int64(0)).Return(nil)
				m.GamingIDRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, g *entities.GamingID) {
				assert.True(t, g.IsPrimary)
			},
		},
		{
			name:  "duplicate for the same user",
			input: interfaces.GamingIDInput{Username: "sniper"},
			setupMocks: func(m *TestMocks) {
				m.GamingIDRepo.On("ExistsForUser", mock.Anything, TestUserID, "PUBG", "sniper", int64(0)).Return(true, nil)
			},
			wantErr: domain.ErrDuplicateGamingID,
		},
		{
			name:       "blank username",
			input:      interfaces.GamingIDInput{Username: "  "},
			setupMocks: func(m *TestMocks) {},
			wantErr:    domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			tt.setupMocks(m)

			g, err := newIdentityServiceWithMocks(m).AddGamingID(context.Background(), testUser, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.GamingIDRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tt.check(t, g)
			m.AssertAllExpectations(t)
		})
	}
}

func TestIdentityService_EditGamingID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      interfaces.GamingIDInput
		setupMocks func(m *TestMocks)
		wantErr    *domain.Error
		wantName   string
	}{
		{
			name:  "rename without enrollments",
			input: interfaces.GamingIDInput{Username: "ghost"},
			setupMocks: func(m *TestMocks) {
				m.GamingIDRepo.On("ExistsForUser", mock.Anything, TestUserID, entities.DefaultPlatform, "ghost", int64(7)).Return(false, nil)
				m.EnrollmentRepo.On("CountActiveRooms", mock.Anything, int64(7)).Return(0, nil)
				m.GamingIDRepo.On("Update", mock.Anything, mock.AnythingOfType("*entities.GamingID")).Return(nil)
			},
			wantName: "ghost",
		},
		{
			name:  "rename while enrolled is refused",
			input: interfaces.GamingIDInput{Username: "ghost"},
			setupMocks: func(m *TestMocks) {
				m.GamingIDRepo.On("ExistsForUser", mock.Anything, TestUserID, entities.DefaultPlatform, "ghost", int64(7)).Return(false, nil)
				m.EnrollmentRepo.On("CountActiveRooms", mock.Anything, int64(7)).Return(2, nil)
			},
			wantErr: domain.ErrGamingIDInUse,
		},
		{
			name:  "display name change while enrolled keeps the handle",
			input: interfaces.GamingIDInput{Username: "sniper", DisplayName: "Sniper Main"},
			setupMocks: func(m *TestMocks) {
				m.GamingIDRepo.On("ExistsForUser", mock.Anything, TestUserID, entities.DefaultPlatform, "sniper", int64(7)).Return(false, nil)
				m.GamingIDRepo.On("Update", mock.Anything, mock.MatchedBy(func(g *entities.GamingID) bool {
					return g.DisplayName == "Sniper Main"
				})).Return(nil)
			},
			wantName: "sniper",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			m.GamingIDRepo.On("GetByID", mock.Anything, int64(7)).Return(newGamingID(7, TestUserID, "sniper"), nil)
			tt.setupMocks(m)

			g, err := newIdentityServiceWithMocks(m).EditGamingID(context.Background(), testUser, 7, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.GamingIDRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, g.Username)
			m.AssertAllExpectations(t)
		})
	}
}

func TestIdentityService_SetPrimaryChecksOwnership(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.GamingIDRepo.On("GetByID", mock.Anything, int64(7)).Return(newGamingID(7, TestOtherUserID, "sniper"), nil)

	_, err := newIdentityServiceWithMocks(m).SetPrimary(context.Background(), testUser, 7)
	assert.ErrorIs(t, err, domain.ErrNotOwner)
	m.GamingIDRepo.AssertNotCalled(t, "ClearPrimary", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdentityService_SetPrimary(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.GamingIDRepo.On("GetByID", mock.Anything, int64(7)).Return(newGamingID(7, TestUserID, "sniper"), nil)
	m.GamingIDRepo.On("ClearPrimary", mock.Anything, TestUserID, int64(7)).Return(nil)
	m.GamingIDRepo.On("Update", mock.Anything, mock.MatchedBy(func(g *entities.GamingID) bool { return g.IsPrimary })).Return(nil)

	g, err := newIdentityServiceWithMocks(m).SetPrimary(context.Background(), testUser, 7)
	require.NoError(t, err)
	assert.True(t, g.IsPrimary)
	m.AssertAllExpectations(t)
}

func TestIdentityService_CreateTeam(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.TeamRepo.On("Create", mock.Anything, mock.MatchedBy(func(team *entities.Team) bool {
		return team.TeamSize == 2 && team.Members[1].IsLeader && team.UserID == TestUserID
	})).Return(nil)

	team, err := newIdentityServiceWithMocks(m).CreateTeam(context.Background(), testUser, interfaces.TeamInput{
		Name: "Wolves",
		Members: []entities.MemberInput{
			{Username: "mate"},
			{Username: ""},
			{Username: "player1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, team.TeamSize)
	assert.True(t, team.IsActive)
	m.AssertAllExpectations(t)
}

func TestIdentityService_CreateTeamNeedsMembers(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	_, err := newIdentityServiceWithMocks(m).CreateTeam(context.Background(), testUser, interfaces.TeamInput{
		Name:    "Empty",
		Members: []entities.MemberInput{{Username: " "}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
