package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourney/application"
	"tourney/database"
	"tourney/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const notStartedPanic = "unit of work not started - call Begin() first"

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	lockTimeout            time.Duration
	transactionalPublisher interfaces.TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	balanceHistoryRepo     interfaces.BalanceHistoryRepository
	gamingIDRepo           interfaces.GamingIDRepository
	teamRepo               interfaces.TeamRepository
	roomRepo               interfaces.RoomRepository
	blockRepo              interfaces.BlockRepository
	enrollmentRepo         interfaces.EnrollmentRepository
	killRecordRepo         interfaces.KillRecordRepository
	winnerRepo             interfaces.WinnerRepository
	paymentRequestRepo     interfaces.PaymentRequestRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Every transaction
// it begins waits at most lockTimeout for row locks.
func NewUnitOfWorkFactory(db *database.DB, lockTimeout time.Duration) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

type unitOfWorkFactory struct {
	db          *database.DB
	lockTimeout time.Duration
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		lockTimeout:            f.lockTimeout,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if u.lockTimeout > 0 {
		// SET LOCAL does not take bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepository(tx)
	u.balanceHistoryRepo = newBalanceHistoryRepository(tx)
	u.gamingIDRepo = newGamingIDRepository(tx)
	u.teamRepo = newTeamRepository(tx)
	u.roomRepo = newRoomRepository(tx)
	u.blockRepo = newBlockRepository(tx)
	u.enrollmentRepo = newEnrollmentRepository(tx)
	u.killRecordRepo = newKillRecordRepository(tx)
	u.winnerRepo = newWinnerRepository(tx)
	u.paymentRequestRepo = newPaymentRequestRepository(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		if u.transactionalPublisher != nil {
			u.transactionalPublisher.Discard()
		}
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}

	// Events are best-effort once the transaction is durable
	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Warn("Failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic(notStartedPanic)
	}
	return u.userRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic(notStartedPanic)
	}
	return u.balanceHistoryRepo
}

func (u *unitOfWork) GamingIDRepository() interfaces.GamingIDRepository {
	if u.gamingIDRepo == nil {
		panic(notStartedPanic)
	}
	return u.gamingIDRepo
}

func (u *unitOfWork) TeamRepository() interfaces.TeamRepository {
	if u.teamRepo == nil {
		panic(notStartedPanic)
	}
	return u.teamRepo
}

func (u *unitOfWork) RoomRepository() interfaces.RoomRepository {
	if u.roomRepo == nil {
		panic(notStartedPanic)
	}
	return u.roomRepo
}

func (u *unitOfWork) BlockRepository() interfaces.BlockRepository {
	if u.blockRepo == nil {
		panic(notStartedPanic)
	}
	return u.blockRepo
}

func (u *unitOfWork) EnrollmentRepository() interfaces.EnrollmentRepository {
	if u.enrollmentRepo == nil {
		panic(notStartedPanic)
	}
	return u.enrollmentRepo
}

func (u *unitOfWork) KillRecordRepository() interfaces.KillRecordRepository {
	if u.killRecordRepo == nil {
		panic(notStartedPanic)
	}
	return u.killRecordRepo
}

func (u *unitOfWork) WinnerRepository() interfaces.WinnerRepository {
	if u.winnerRepo == nil {
		panic(notStartedPanic)
	}
	return u.winnerRepo
}

func (u *unitOfWork) PaymentRequestRepository() interfaces.PaymentRequestRepository {
	if u.paymentRequestRepo == nil {
		panic(notStartedPanic)
	}
	return u.paymentRequestRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("transactional publisher not configured")
	}
	return u.transactionalPublisher
}
