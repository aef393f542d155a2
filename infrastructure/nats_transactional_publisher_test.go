package infrastructure

import (
	"context"
	"errors"
	"testing"

	"tourney/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestNATSTransactionalPublisher_FlushPublishesInOrder(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	first := events.RoomCreatedEvent{RoomID: 1, Name: "Evening Squads"}
	second := events.EnrollmentCreatedEvent{EnrollmentID: 9, RoomID: 1, SlotCount: 2}

	require.NoError(t, transPublisher.Publish(first))
	require.NoError(t, transPublisher.Publish(second))
	assert.Empty(t, mockPublisher.PublishedEvents)

	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Equal(t, []events.Event{first, second}, mockPublisher.PublishedEvents)

	// A second flush has nothing left to send
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_Discard(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.UserCreatedEvent{UserID: 1, Username: "alice"}))
	transPublisher.Discard()

	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestNATSTransactionalPublisher_PublishErrorsDoNotFailFlush(t *testing.T) {
	t.Parallel()

	mockPublisher := &MockEventPublisher{PublishError: errors.New("nats down")}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.UserCreatedEvent{UserID: 1}))
	assert.NoError(t, transPublisher.Flush(context.Background()))
}
