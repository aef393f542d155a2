package infrastructure

import (
	"fmt"
	"sort"

	"tourney/domain/events"
)

// DomainEventStream is the JetStream stream every domain event is written to
const DomainEventStream = "tourney_events"

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:           "wallet.balance_changed",
	events.EventTypeUserCreated:             "accounts.created",
	events.EventTypeRoomCreated:             "rooms.created",
	events.EventTypeRoomStatusChanged:       "rooms.status_changed",
	events.EventTypeEnrollmentCreated:       "rooms.enrollment_created",
	events.EventTypeKillsRecorded:           "performance.kills_recorded",
	events.EventTypeWinnerSelected:          "performance.winner_selected",
	events.EventTypeRewardDistributed:       "performance.reward_distributed",
	events.EventTypePaymentRequestCreated:   "payments.request_created",
	events.EventTypePaymentRequestProcessed: "payments.request_processed",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct {
	eventTypes map[string]events.EventType
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	reverse := make(map[string]events.EventType, len(eventSubjects))
	for eventType, subject := range eventSubjects {
		reverse[subject] = eventType
	}
	return &EventSubjectMapper{eventTypes: reverse}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	if eventType, ok := m.eventTypes[subject]; ok {
		return eventType
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects this service publishes to, sorted
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(eventSubjects))
	for _, subject := range eventSubjects {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects
}
