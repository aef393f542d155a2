package application_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tourney/application"
	"tourney/domain"
	"tourney/domain/entities"
	"tourney/infrastructure"
	"tourney/repository"
	"tourney/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatform_ConcurrentEnrollmentRespectsCapacity(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	const (
		maxPlayers = 3
		entrants   = 6
		entryFee   = int64(100)
		funding    = int64(500)
	)

	users := repository.NewUserRepository(testDB.DB)
	gamingIDs := repository.NewGamingIDRepository(testDB.DB)
	rooms := repository.NewRoomRepository(testDB.DB)

	admin := testutil.CreateTestAdmin("room_admin")
	require.NoError(t, users.Create(ctx, admin))
	room := testutil.CreateTestRoom(admin.ID, maxPlayers, entryFee)
	require.NoError(t, rooms.Create(ctx, room))

	type entrant struct {
		actor entities.Actor
		gid   int64
	}
	players := make([]entrant, 0, entrants)
	for i := 0; i < entrants; i++ {
		user := testutil.CreateTestUser(fmt.Sprintf("player%d", i))
		require.NoError(t, users.Create(ctx, user))
		_, err := users.AddBalance(ctx, user.ID, funding)
		require.NoError(t, err)

		gid := testutil.CreateTestGamingID(user.ID, fmt.Sprintf("pubg_player%d", i))
		require.NoError(t, gamingIDs.Create(ctx, gid))
		players = append(players, entrant{actor: user.Actor(), gid: gid.ID})
	}

	factory := infrastructure.NewUnitOfWorkFactory(testDB.DB, 5*time.Second, infrastructure.NewNoopEventPublisher())
	platform := application.NewPlatform(factory, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		joined  []int64
		refused int
	)
	for _, p := range players {
		wg.Add(1)
		go func(p entrant) {
			defer wg.Done()
			_, err := platform.Enroll(ctx, p.actor, room.ID, entities.GamingIDsMode(p.gid))

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				joined = append(joined, p.actor.UserID)
				return
			}
			assert.ErrorIs(t, err, domain.ErrRoomFull)
			refused++
		}(p)
	}
	wg.Wait()

	assert.Len(t, joined, maxPlayers)
	assert.Equal(t, entrants-maxPlayers, refused)

	used, err := repository.NewEnrollmentRepository(testDB.DB).CountActiveSlots(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, maxPlayers, used)

	// Only admitted players paid the entry fee
	for _, p := range players {
		user, err := users.GetByID(ctx, p.actor.UserID)
		require.NoError(t, err)

		want := funding
		for _, id := range joined {
			if id == p.actor.UserID {
				want = funding - entryFee
			}
		}
		assert.Equal(t, want, user.Balance, "balance of user %d", p.actor.UserID)
	}
}

func TestPlatform_GamingIDClaimsAreScopedToOneRoom(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	users := repository.NewUserRepository(testDB.DB)
	rooms := repository.NewRoomRepository(testDB.DB)

	admin := testutil.CreateTestAdmin("claims_admin")
	require.NoError(t, users.Create(ctx, admin))

	newPlayer := func(name string) *entities.User {
		user := testutil.CreateTestUser(name)
		require.NoError(t, users.Create(ctx, user))
		_, err := users.AddBalance(ctx, user.ID, 500)
		require.NoError(t, err)
		return user
	}
	alice := newPlayer("alice")
	bob := newPlayer("bob")

	shared := testutil.CreateTestGamingID(alice.ID, "pubg_shared")
	require.NoError(t, repository.NewGamingIDRepository(testDB.DB).Create(ctx, shared))

	newRoom := func() *entities.Room {
		room := testutil.CreateTestRoom(admin.ID, 10, 100)
		require.NoError(t, rooms.Create(ctx, room))
		return room
	}
	first, second, raced := newRoom(), newRoom(), newRoom()

	factory := infrastructure.NewUnitOfWorkFactory(testDB.DB, 5*time.Second, infrastructure.NewNoopEventPublisher())
	platform := application.NewPlatform(factory, nil)

	_, err := platform.Enroll(ctx, alice.Actor(), first.ID, entities.GamingIDsMode(shared.ID))
	require.NoError(t, err)

	t.Run("same room is refused", func(t *testing.T) {
		_, err := platform.Enroll(ctx, bob.Actor(), first.ID, entities.GamingIDsMode(shared.ID))
		assert.ErrorIs(t, err, domain.ErrGamingIDAlreadyEnrolled)
	})

	t.Run("another room accepts the same gaming ID", func(t *testing.T) {
		result, err := platform.Enroll(ctx, bob.Actor(), second.ID, entities.GamingIDsMode(shared.ID))
		require.NoError(t, err)
		assert.Equal(t, bob.ID, result.Enrollment.UserID)
		assert.Equal(t, int64(400), result.NewBalance)
	})

	t.Run("concurrent claims on one gaming ID admit one", func(t *testing.T) {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			admitted int
		)
		for _, actor := range []entities.Actor{alice.Actor(), bob.Actor()} {
			wg.Add(1)
			go func(actor entities.Actor) {
				defer wg.Done()
				_, err := platform.Enroll(ctx, actor, raced.ID, entities.GamingIDsMode(shared.ID))

				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					admitted++
					return
				}
				assert.ErrorIs(t, err, domain.ErrGamingIDAlreadyEnrolled)
			}(actor)
		}
		wg.Wait()

		assert.Equal(t, 1, admitted)
		used, err := repository.NewEnrollmentRepository(testDB.DB).CountActiveSlots(ctx, raced.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, used)
	})

	active, err := repository.NewEnrollmentRepository(testDB.DB).CountActiveRooms(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, active)
}
