package application

import (
	"context"
	"errors"

	"tourney/domain/interfaces"
	"tourney/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork hands out shared mocks and records the transaction outcome
type fakeUnitOfWork struct {
	factory    *fakeUnitOfWorkFactory
	begun      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.factory.beginErr != nil {
		return u.factory.beginErr
	}
	u.begun = true
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if !u.begun {
		return errors.New("no transaction to commit")
	}
	if u.factory.commitErr != nil {
		return u.factory.commitErr
	}
	u.committed = true
	u.begun = false
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.begun {
		u.rolledBack = true
		u.begun = false
	}
	return nil
}

func (u *fakeUnitOfWork) UserRepository() interfaces.UserRepository { return u.factory.UserRepo }
func (u *fakeUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.factory.BalanceHistoryRepo
}
func (u *fakeUnitOfWork) GamingIDRepository() interfaces.GamingIDRepository {
	return u.factory.GamingIDRepo
}
func (u *fakeUnitOfWork) TeamRepository() interfaces.TeamRepository   { return u.factory.TeamRepo }
func (u *fakeUnitOfWork) RoomRepository() interfaces.RoomRepository   { return u.factory.RoomRepo }
func (u *fakeUnitOfWork) BlockRepository() interfaces.BlockRepository { return u.factory.BlockRepo }
func (u *fakeUnitOfWork) EnrollmentRepository() interfaces.EnrollmentRepository {
	return u.factory.EnrollmentRepo
}
func (u *fakeUnitOfWork) KillRecordRepository() interfaces.KillRecordRepository {
	return u.factory.KillRecordRepo
}
func (u *fakeUnitOfWork) WinnerRepository() interfaces.WinnerRepository { return u.factory.WinnerRepo }
func (u *fakeUnitOfWork) PaymentRequestRepository() interfaces.PaymentRequestRepository {
	return u.factory.PaymentRepo
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.factory.EventPublisher }

// fakeUnitOfWorkFactory shares one set of mocks across every unit of work
type fakeUnitOfWorkFactory struct {
	UserRepo           *testhelpers.MockUserRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	GamingIDRepo       *testhelpers.MockGamingIDRepository
	TeamRepo           *testhelpers.MockTeamRepository
	RoomRepo           *testhelpers.MockRoomRepository
	BlockRepo          *testhelpers.MockBlockRepository
	EnrollmentRepo     *testhelpers.MockEnrollmentRepository
	KillRecordRepo     *testhelpers.MockKillRecordRepository
	WinnerRepo         *testhelpers.MockWinnerRepository
	PaymentRepo        *testhelpers.MockPaymentRequestRepository
	EventPublisher     *testhelpers.MockEventPublisher

	beginErr  error
	commitErr error
	created   []*fakeUnitOfWork
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	f := &fakeUnitOfWorkFactory{
		UserRepo:           &testhelpers.MockUserRepository{},
		BalanceHistoryRepo: &testhelpers.MockBalanceHistoryRepository{},
		GamingIDRepo:       &testhelpers.MockGamingIDRepository{},
		TeamRepo:           &testhelpers.MockTeamRepository{},
		RoomRepo:           &testhelpers.MockRoomRepository{},
		BlockRepo:          &testhelpers.MockBlockRepository{},
		EnrollmentRepo:     &testhelpers.MockEnrollmentRepository{},
		KillRecordRepo:     &testhelpers.MockKillRecordRepository{},
		WinnerRepo:         &testhelpers.MockWinnerRepository{},
		PaymentRepo:        &testhelpers.MockPaymentRequestRepository{},
		EventPublisher:     &testhelpers.MockEventPublisher{},
	}
	f.EventPublisher.On("Publish", mock.Anything).Return(nil).Maybe()
	return f
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	uow := &fakeUnitOfWork{factory: f}
	f.created = append(f.created, uow)
	return uow
}

func (f *fakeUnitOfWorkFactory) commits() int {
	n := 0
	for _, u := range f.created {
		if u.committed {
			n++
		}
	}
	return n
}
