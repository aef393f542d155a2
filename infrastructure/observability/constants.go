package observability

// Metric name prefixes
const (
	MetricPrefix = "tourney"
)

// Metric names
const (
	// Enrollment metrics
	EnrollmentsTotal     = MetricPrefix + ".enrollments.total"
	EnrollmentSlotsTotal = MetricPrefix + ".enrollments.slots_total"

	// Ledger metrics
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"

	// Reward metrics
	RewardsDistributedTotal = MetricPrefix + ".rewards.distributed_coins_total"

	// Payment request metrics
	PaymentRequestsProcessedTotal = MetricPrefix + ".payments.processed_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// HTTP metrics
	HTTPRequestsTotal   = MetricPrefix + ".http.requests_total"
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelKind      = "kind"
	LabelStatus    = "status"
	LabelRoute     = "route"
	LabelMethod    = "method"
	LabelPosition  = "position"
)
