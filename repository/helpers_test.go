package repository

import (
	"context"
	"testing"

	"tourney/database"
	"tourney/domain/entities"
	"tourney/repository/testutil"

	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, db *database.DB, username string, balance int64) *entities.User {
	t.Helper()
	ctx := context.Background()
	repo := NewUserRepository(db)

	user := testutil.CreateTestUser(username)
	require.NoError(t, repo.Create(ctx, user))
	if balance > 0 {
		newBalance, err := repo.AddBalance(ctx, user.ID, balance)
		require.NoError(t, err)
		user.Balance = newBalance
	}
	return user
}

func seedGamingID(t *testing.T, db *database.DB, userID int64, username string) *entities.GamingID {
	t.Helper()
	gid := testutil.CreateTestGamingID(userID, username)
	require.NoError(t, NewGamingIDRepository(db).Create(context.Background(), gid))
	return gid
}

func seedRoom(t *testing.T, db *database.DB, createdBy int64, maxPlayers int, entryFee int64) *entities.Room {
	t.Helper()
	room := testutil.CreateTestRoom(createdBy, maxPlayers, entryFee)
	require.NoError(t, NewRoomRepository(db).Create(context.Background(), room))
	return room
}

func seedEnrollment(t *testing.T, db *database.DB, roomID, userID int64, gamingIDs ...int64) *entities.RoomEnrollment {
	t.Helper()
	enrollment := &entities.RoomEnrollment{
		RoomID:        roomID,
		UserID:        userID,
		Kind:          entities.EnrollmentKindGamingIDs,
		SlotCount:     len(gamingIDs),
		PaymentStatus: entities.PaymentStatusPaid,
		IsActive:      true,
		GamingIDs:     gamingIDs,
	}
	require.NoError(t, NewEnrollmentRepository(db).Create(context.Background(), enrollment))
	return enrollment
}
