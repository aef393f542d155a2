package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tourney/application"
	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"
	"tourney/infrastructure"
	"tourney/repository"
	"tourney/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatform_ConcurrentKillSubmissionsCreditOnce(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	const (
		submissions   = 5
		kills         = 8
		rewardPerKill = int64(10)
	)

	users := repository.NewUserRepository(testDB.DB)

	admin := testutil.CreateTestAdmin("kills_admin")
	require.NoError(t, users.Create(ctx, admin))
	player := testutil.CreateTestUser("fragger")
	require.NoError(t, users.Create(ctx, player))

	room := testutil.CreateTestRoom(admin.ID, 10, 0)
	room.KillReward = entities.KillRewardConfig{Enabled: true, MinKillsRequired: 1, RewardPerKill: rewardPerKill}
	require.NoError(t, repository.NewRoomRepository(testDB.DB).Create(ctx, room))

	gid := testutil.CreateTestGamingID(player.ID, "pubg_fragger")
	require.NoError(t, repository.NewGamingIDRepository(testDB.DB).Create(ctx, gid))

	factory := infrastructure.NewUnitOfWorkFactory(testDB.DB, 5*time.Second, infrastructure.NewNoopEventPublisher())
	platform := application.NewPlatform(factory, nil)

	_, err := platform.Enroll(ctx, player.Actor(), room.ID, entities.GamingIDsMode(gid.ID))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		recorded int
		credited int64
	)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := platform.RecordKills(ctx, admin.Actor(), interfaces.KillsInput{
				RoomID: room.ID, GamingIDID: gid.ID, KillsCount: kills,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrLockTimeout)
				return
			}
			recorded++
			credited += result.Credited
		}()
	}
	wg.Wait()

	want := int64(kills) * rewardPerKill
	require.Positive(t, recorded)
	assert.Equal(t, want, credited)

	user, err := users.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, want, user.Balance)

	record, err := repository.NewKillRecordRepository(testDB.DB).Get(ctx, room.ID, gid.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, want, record.RewardCredited)
	assert.Equal(t, kills, record.KillsCount)
}
