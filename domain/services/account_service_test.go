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
	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_Signup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      interfaces.SignupInput
		setupMocks func(m *TestMocks)
		wantErr    error
		wantAdmin  bool
	}{
		{
			name:  "new user",
			input: interfaces.SignupInput{Username: "player1", Email: "p1@example.com", Password: "secret1"},
			setupMocks: func(m *TestMocks) {
				m.UserRepo.On("GetByUsername", mock.Anything, "player1").Return(nil, nil)
				m.UserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Balance == 0 && u.PasswordHash != "secret1" &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
				})).Return(nil)
				m.AllowEvents()
			},
		},
		{
			name:  "configured admin",
			input: interfaces.SignupInput{Username: "Root", Password: "secret1"},
			setupMocks: func(m *TestMocks) {
				m.UserRepo.On("GetByUsername", mock.Anything, "Root").Return(nil, nil)
				m.UserRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.AllowEvents()
			},
			wantAdmin: true,
		},
		{
			name:  "taken username",
			input: interfaces.SignupInput{Username: "player1", Password: "secret1"},
			setupMocks: func(m *TestMocks) {
				m.UserRepo.On("GetByUsername", mock.Anything, "player1").Return(&entities.User{ID: 1}, nil)
			},
			wantErr: domain.ErrUsernameTaken,
		},
		{
			name:       "short username",
			input:      interfaces.SignupInput{Username: "ab", Password: "secret1"},
			setupMocks: func(m *TestMocks) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:       "short password",
			input:      interfaces.SignupInput{Username: "player1", Password: "123"},
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
			svc := NewAccountService(m.UserRepo, m.BalanceHistoryRepo, m.EventPublisher, []string{"root"})

			user, err := svc.Signup(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdmin, user.IsAdmin)
			m.AssertAllExpectations(t)
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	m := NewTestMocks()
	m.UserRepo.On("GetByUsername", mock.Anything, "player1").Return(&entities.User{ID: TestUserID, Username: "player1", PasswordHash: string(hash)}, nil)
	m.UserRepo.On("GetByUsername", mock.Anything, "nobody").Return(nil, nil)
	svc := NewAccountService(m.UserRepo, m.BalanceHistoryRepo, m.EventPublisher, nil)

	user, err := svc.Authenticate(context.Background(), "player1", "secret1")
	require.NoError(t, err)
	assert.Equal(t, TestUserID, user.ID)

	_, err = svc.Authenticate(context.Background(), "player1", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
