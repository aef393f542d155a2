package infrastructure

import (
	"tourney/domain/events"
	"tourney/domain/interfaces"
	"tourney/infrastructure/observability"
)

// MetricsEventPublisher records committed domain events as metrics before
// passing them on. It sits under the transactional publisher, so only
// events of committed transactions are counted.
type MetricsEventPublisher struct {
	next    interfaces.EventPublisher
	metrics *observability.MetricsProvider
}

// NewMetricsEventPublisher wraps next
func NewMetricsEventPublisher(next interfaces.EventPublisher, metrics *observability.MetricsProvider) *MetricsEventPublisher {
	return &MetricsEventPublisher{next: next, metrics: metrics}
}

// Publish records the event and forwards it
func (p *MetricsEventPublisher) Publish(event events.Event) error {
	switch e := event.(type) {
	case events.BalanceChangeEvent:
		p.metrics.RecordBalanceTransaction(e.TransactionType.String())
	case events.EnrollmentCreatedEvent:
		p.metrics.RecordEnrollment(string(e.Kind), e.SlotCount)
	case events.RewardDistributedEvent:
		p.metrics.RecordRewardDistributed(e.Position, e.RewardAmount)
	case events.PaymentRequestProcessedEvent:
		p.metrics.RecordPaymentProcessed(string(e.Kind), string(e.Status))
	}

	if err := p.next.Publish(event); err != nil {
		return err
	}
	if _, ok := p.next.(*NATSEventPublisher); ok {
		p.metrics.RecordNATSMessagePublished(string(event.Type()))
	}
	return nil
}
