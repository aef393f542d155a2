package repository

import (
	"context"
	"testing"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("new user starts at zero", func(t *testing.T) {
		user := testutil.CreateTestUser("alice")
		require.NoError(t, repo.Create(ctx, user))

		assert.NotZero(t, user.ID)
		assert.Equal(t, int64(0), user.Balance)
		assert.False(t, user.CreatedAt.IsZero())

		found, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "alice@example.com", found.Email)
	})

	t.Run("duplicate username", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestUser("bob")))

		dup := testutil.CreateTestUser("bob")
		dup.Email = "other@example.com"
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		first := testutil.CreateTestUser("carol")
		first.Email = "Carol@Example.com"
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.CreateTestUser("carol2")
		second.Email = "carol@example.com"
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("missing user", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_Balance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()
	user := seedUser(t, testDB.DB, "wallet", 500)

	balance, err := repo.DeductBalance(ctx, user.ID, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)

	_, err = repo.DeductBalance(ctx, user.ID, 301)
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Contains(t, domain.MessageOf(err), "Required: 301, available: 300")

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(300), found.Balance)

	_, err = repo.AddBalance(ctx, 999999, 10)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = repo.DeductBalance(ctx, 999999, 10)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestBalanceHistoryRepository_RecordAndList(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBalanceHistoryRepository(testDB.DB)
	ctx := context.Background()
	user := seedUser(t, testDB.DB, "ledger", 0)

	entries := []*entities.BalanceHistory{
		{UserID: user.ID, BalanceBefore: 0, BalanceAfter: 100, ChangeAmount: 100, TransactionType: entities.TransactionTypeCredit, Description: "Top-up approved"},
		{UserID: user.ID, BalanceBefore: 100, BalanceAfter: 60, ChangeAmount: -40, TransactionType: entities.TransactionTypeDebit, Description: "Room entry", TransactionMetadata: map[string]any{"room_id": 7}},
	}
	for _, e := range entries {
		require.NoError(t, repo.Record(ctx, e))
		assert.NotZero(t, e.ID)
	}

	history, err := repo.GetByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entries[1].ID, history[0].ID)
	assert.Equal(t, entities.TransactionTypeDebit, history[0].TransactionType)
	assert.EqualValues(t, 7, history[0].TransactionMetadata["room_id"])
	assert.Nil(t, history[1].TransactionMetadata)
}
