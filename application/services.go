package application

import (
	"tourney/domain/interfaces"
	"tourney/domain/services"
)

// Services are the domain services bound to one unit of work. They share
// its transaction and its transactional event bus.
type Services struct {
	Ledger      interfaces.LedgerService
	Account     interfaces.AccountService
	Identity    interfaces.IdentityService
	Room        interfaces.RoomService
	Enrollment  interfaces.EnrollmentService
	Performance interfaces.PerformanceService
	Payment     interfaces.PaymentService
}

// NewServices wires the domain services over uow's repositories
func NewServices(uow UnitOfWork, adminUsernames []string) *Services {
	bus := uow.EventBus()
	ledger := services.NewLedgerService(uow.UserRepository(), uow.BalanceHistoryRepository(), bus)

	return &Services{
		Ledger:   ledger,
		Account:  services.NewAccountService(uow.UserRepository(), uow.BalanceHistoryRepository(), bus, adminUsernames),
		Identity: services.NewIdentityService(uow.GamingIDRepository(), uow.TeamRepository(), uow.EnrollmentRepository()),
		Room: services.NewRoomService(
			uow.RoomRepository(),
			uow.BlockRepository(),
			uow.EnrollmentRepository(),
			uow.UserRepository(),
			uow.TeamRepository(),
			bus,
		),
		Enrollment: services.NewEnrollmentService(
			uow.RoomRepository(),
			uow.BlockRepository(),
			uow.EnrollmentRepository(),
			uow.GamingIDRepository(),
			uow.TeamRepository(),
			uow.UserRepository(),
			ledger,
			bus,
		),
		Performance: services.NewPerformanceService(
			uow.RoomRepository(),
			uow.GamingIDRepository(),
			uow.EnrollmentRepository(),
			uow.KillRecordRepository(),
			uow.WinnerRepository(),
			ledger,
			bus,
		),
		Payment: services.NewPaymentService(uow.PaymentRequestRepository(), ledger, bus),
	}
}
