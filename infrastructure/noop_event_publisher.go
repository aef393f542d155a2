package infrastructure

import (
	"tourney/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops events. Used when NATS is disabled.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that discards everything
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish logs and discards the event
func (p *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Event publishing disabled, dropping event")
	return nil
}
