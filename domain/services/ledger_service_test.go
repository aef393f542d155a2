package services

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

func TestLedgerService_Credit(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.UserRepo.On("AddBalance", mock.Anything, TestUserID, int64(200)).Return(int64(500), nil)
	m.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.BalanceBefore == 300 && h.BalanceAfter == 500 && h.ChangeAmount == 200 &&
			h.TransactionType == entities.TransactionTypeKillReward &&
			h.RelatedType != nil && *h.RelatedType == entities.RelatedTypeKillRecord
	})).Return(nil)
	m.AllowEvents()

	entry := entities.LedgerEntry{Type: entities.TransactionTypeKillReward, Description: "Kill reward"}
	history, err := m.Ledger().Credit(context.Background(), TestUserID, 200, entry.RelatedTo(entities.RelatedTypeKillRecord, 9))

	require.NoError(t, err)
	assert.Equal(t, int64(500), history.BalanceAfter)
	assert.Equal(t, int64(9), *history.RelatedID)
	m.AssertAllExpectations(t)
}

func TestLedgerService_Debit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		amount     int64
		setupMocks func(m *TestMocks)
		wantErr    error
		wantAfter  int64
	}{
		{
			name:   "covered debit",
			amount: 150,
			setupMocks: func(m *TestMocks) {
				m.UserRepo.On("DeductBalance", mock.Anything, TestUserID, int64(150)).Return(int64(450), nil)
				m.ExpectHistory(1)
				m.AllowEvents()
			},
			wantAfter: 450,
		},
		{
			name:   "guard failure is insufficient funds",
			amount: 500,
			setupMocks: func(m *TestMocks) {
				m.UserRepo.On("DeductBalance", mock.Anything, TestUserID, int64(500)).Return(int64(0), domain.ErrInsufficientFunds)
			},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:       "zero amount",
			amount:     0,
			setupMocks: func(m *TestMocks) {},
			wantErr:    domain.ErrInvalidAmount,
		},
		{
			name:   "store failure",
			amount: 10,
			setupMocks: func(m *TestMocks) {
				m.UserRepo.On("DeductBalance", mock.Anything, TestUserID, int64(10)).Return(int64(0), errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewTestMocks()
			tt.setupMocks(m)

			history, err := m.Ledger().Debit(context.Background(), TestUserID, tt.amount, entities.LedgerEntry{Description: "Room entry fee"})
			if tt.wantErr != nil {
				require.Error(t, err)
				var de *domain.Error
				if errors.As(tt.wantErr, &de) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
					assert.Equal(t, domain.KindStorageUnavailable, domain.KindOf(err))
				}
				m.BalanceHistoryRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantAfter, history.BalanceAfter)
			assert.Equal(t, -tt.amount, history.ChangeAmount)
			assert.Equal(t, entities.TransactionTypeDebit, history.TransactionType)
			m.AssertAllExpectations(t)
		})
	}
}

func TestLedgerService_GetBalance(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.UserRepo.On("GetByID", mock.Anything, TestUserID).Return(&entities.User{ID: TestUserID, Balance: 42}, nil)
	m.UserRepo.On("GetByID", mock.Anything, TestOtherUserID).Return(nil, nil)

	balance, err := m.Ledger().GetBalance(context.Background(), TestUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance)

	_, err = m.Ledger().GetBalance(context.Background(), TestOtherUserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
