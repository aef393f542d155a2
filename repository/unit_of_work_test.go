package repository

import (
	"context"
	"testing"
	"time"

	"tourney/domain"
	"tourney/domain/events"
	"tourney/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher buffers events and records what was flushed
type recordingPublisher struct {
	pending   []events.Event
	flushed   []events.Event
	discarded int
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

func (p *recordingPublisher) Flush(ctx context.Context) error {
	p.flushed = append(p.flushed, p.pending...)
	p.pending = nil
	return nil
}

func (p *recordingPublisher) Discard() {
	p.discarded += len(p.pending)
	p.pending = nil
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, 0)

	t.Run("getters panic before begin", func(t *testing.T) {
		uow := factory.CreateWithPublisher(&recordingPublisher{})
		assert.PanicsWithValue(t, notStartedPanic, func() { uow.UserRepository() })
	})

	t.Run("commit persists and flushes", func(t *testing.T) {
		pub := &recordingPublisher{}
		uow := factory.CreateWithPublisher(pub)
		require.NoError(t, uow.Begin(ctx))

		user := testutil.CreateTestUser("committed")
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		require.NoError(t, uow.EventBus().Publish(events.UserCreatedEvent{UserID: user.ID, Username: user.Username}))
		require.NoError(t, uow.Commit())

		assert.Len(t, pub.flushed, 1)
		found, err := NewUserRepository(testDB.DB).GetByUsername(ctx, "committed")
		require.NoError(t, err)
		assert.NotNil(t, found)
	})

	t.Run("rollback discards", func(t *testing.T) {
		pub := &recordingPublisher{}
		uow := factory.CreateWithPublisher(pub)
		require.NoError(t, uow.Begin(ctx))

		user := testutil.CreateTestUser("discarded")
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		require.NoError(t, uow.EventBus().Publish(events.UserCreatedEvent{UserID: user.ID}))
		require.NoError(t, uow.Rollback())

		assert.Empty(t, pub.flushed)
		assert.Equal(t, 1, pub.discarded)
		found, err := NewUserRepository(testDB.DB).GetByUsername(ctx, "discarded")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestUnitOfWork_LockTimeoutIsRetryable(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	admin := seedUser(t, testDB.DB, "admin", 0)
	room := seedRoom(t, testDB.DB, admin.ID, 10, 0)

	factory := NewUnitOfWorkFactory(testDB.DB, 200*time.Millisecond)

	holder := factory.CreateWithPublisher(&recordingPublisher{})
	require.NoError(t, holder.Begin(ctx))
	defer holder.Rollback()

	locked, err := holder.RoomRepository().GetByIDForUpdate(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, locked)

	waiter := factory.CreateWithPublisher(&recordingPublisher{})
	require.NoError(t, waiter.Begin(ctx))
	defer waiter.Rollback()

	_, err = waiter.RoomRepository().GetByIDForUpdate(ctx, room.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.Equal(t, domain.KindRetryable, domain.KindOf(err))
}
