package application

import (
	"context"

	"tourney/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations.
// Everything read or written through its repositories belongs to a single
// database transaction; events published on EventBus are delivered only
// after Commit succeeds.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	BalanceHistoryRepository() interfaces.BalanceHistoryRepository
	GamingIDRepository() interfaces.GamingIDRepository
	TeamRepository() interfaces.TeamRepository
	RoomRepository() interfaces.RoomRepository
	BlockRepository() interfaces.BlockRepository
	EnrollmentRepository() interfaces.EnrollmentRepository
	KillRecordRepository() interfaces.KillRecordRepository
	WinnerRepository() interfaces.WinnerRepository
	PaymentRequestRepository() interfaces.PaymentRequestRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
