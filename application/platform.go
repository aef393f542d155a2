package application

import (
	"context"
	"errors"
	"time"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Platform runs every user and admin action in its own unit of work.
// Nothing an action wrote is visible unless the whole action commits.
type Platform struct {
	uowFactory     UnitOfWorkFactory
	adminUsernames []string
}

// NewPlatform creates a new Platform
func NewPlatform(uowFactory UnitOfWorkFactory, adminUsernames []string) *Platform {
	return &Platform{
		uowFactory:     uowFactory,
		adminUsernames: adminUsernames,
	}
}

// inTransaction begins a unit of work, runs fn with services bound to it
// and commits. Any error rolls everything back.
func inTransaction[T any](ctx context.Context, p *Platform, fn func(s *Services, uow UnitOfWork) (T, error)) (T, error) {
	var zero T

	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return zero, domain.ErrStorageUnavailable.Wrap(err)
	}
	defer uow.Rollback()

	result, err := fn(NewServices(uow, p.adminUsernames), uow)
	if err != nil {
		return zero, err
	}

	if err := uow.Commit(); err != nil {
		return zero, commitError(err)
	}
	return result, nil
}

// commitError keeps retryable classifications and reports every other
// commit failure as StorageUnavailable
func commitError(err error) error {
	if errors.Is(err, domain.ErrLockTimeout) {
		return err
	}
	log.WithError(err).Error("Failed to commit unit of work")
	return domain.ErrStorageUnavailable.Wrap(err)
}

// Actor loads the user behind an authenticated session. The admin flag
// comes from the store, not from the token.
func (p *Platform) Actor(ctx context.Context, userID int64) (entities.Actor, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (entities.Actor, error) {
		user, err := s.Account.GetUser(ctx, userID)
		if err != nil {
			return entities.Actor{}, err
		}
		return user.Actor(), nil
	})
}

// Accounts

// Signup registers a user and returns it with its starting balance
func (p *Platform) Signup(ctx context.Context, input interfaces.SignupInput) (*entities.User, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.User, error) {
		return s.Account.Signup(ctx, input)
	})
}

// Login checks credentials and returns the user
func (p *Platform) Login(ctx context.Context, username, password string) (*entities.User, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.User, error) {
		return s.Account.Authenticate(ctx, username, password)
	})
}

// GetBalance returns the actor's coin balance
func (p *Platform) GetBalance(ctx context.Context, actor entities.Actor) (int64, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (int64, error) {
		return s.Ledger.GetBalance(ctx, actor.UserID)
	})
}

// BalanceHistory returns the actor's ledger entries, newest first
func (p *Platform) BalanceHistory(ctx context.Context, actor entities.Actor, limit int) ([]*entities.BalanceHistory, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.BalanceHistory, error) {
		return s.Account.GetHistory(ctx, actor.UserID, limit)
	})
}

// Payment requests

// RequestTopUp files a pending top-up backed by an uploaded proof
func (p *Platform) RequestTopUp(ctx context.Context, actor entities.Actor, amount int64, proofRef string) (*entities.PaymentRequest, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.PaymentRequest, error) {
		return s.Payment.RequestTopUp(ctx, actor, amount, proofRef)
	})
}

// RequestWithdrawal holds amount from the balance and files a pending withdrawal
func (p *Platform) RequestWithdrawal(ctx context.Context, actor entities.Actor, amount int64, payoutHandle string) (*entities.PaymentRequest, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.PaymentRequest, error) {
		return s.Payment.RequestWithdrawal(ctx, actor, amount, payoutHandle)
	})
}

// ApprovePayment settles a pending request. Approved top-ups credit the user.
func (p *Platform) ApprovePayment(ctx context.Context, actor entities.Actor, requestID int64, adminProofRef string) (*entities.PaymentRequest, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.PaymentRequest, error) {
		return s.Payment.Approve(ctx, actor, requestID, adminProofRef)
	})
}

// RejectPayment closes a pending request. Rejected withdrawals are refunded.
func (p *Platform) RejectPayment(ctx context.Context, actor entities.Actor, requestID int64, note string) (*entities.PaymentRequest, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.PaymentRequest, error) {
		return s.Payment.Reject(ctx, actor, requestID, note)
	})
}

// ListPendingPayments lists requests awaiting review, optionally of one kind
func (p *Platform) ListPendingPayments(ctx context.Context, actor entities.Actor, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.PaymentRequest, error) {
		return s.Payment.ListPending(ctx, actor, kind)
	})
}

// ListMyPayments lists the actor's own payment requests
func (p *Platform) ListMyPayments(ctx context.Context, actor entities.Actor, limit int) ([]*entities.PaymentRequest, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.PaymentRequest, error) {
		return s.Payment.ListByUser(ctx, actor, limit)
	})
}

// Identity

// AddGamingID registers a gaming handle for the actor
func (p *Platform) AddGamingID(ctx context.Context, actor entities.Actor, input interfaces.GamingIDInput) (*entities.GamingID, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.GamingID, error) {
		return s.Identity.AddGamingID(ctx, actor, input)
	})
}

// EditGamingID updates one of the actor's gaming IDs
func (p *Platform) EditGamingID(ctx context.Context, actor entities.Actor, id int64, input interfaces.GamingIDInput) (*entities.GamingID, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.GamingID, error) {
		return s.Identity.EditGamingID(ctx, actor, id, input)
	})
}

// SetPrimaryGamingID makes id the actor's primary gaming ID
func (p *Platform) SetPrimaryGamingID(ctx context.Context, actor entities.Actor, id int64) (*entities.GamingID, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.GamingID, error) {
		return s.Identity.SetPrimary(ctx, actor, id)
	})
}

// ListGamingIDs lists the actor's gaming IDs
func (p *Platform) ListGamingIDs(ctx context.Context, actor entities.Actor) ([]*entities.GamingID, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.GamingID, error) {
		return s.Identity.ListGamingIDs(ctx, actor)
	})
}

// CreateTeam saves a team and its roster for the actor
func (p *Platform) CreateTeam(ctx context.Context, actor entities.Actor, input interfaces.TeamInput) (*entities.Team, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.Team, error) {
		return s.Identity.CreateTeam(ctx, actor, input)
	})
}

// EditTeam renames a team or replaces its roster
func (p *Platform) EditTeam(ctx context.Context, actor entities.Actor, id int64, input interfaces.TeamInput) (*entities.Team, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.Team, error) {
		return s.Identity.EditTeam(ctx, actor, id, input)
	})
}

// ToggleTeam activates or deactivates one of the actor's teams
func (p *Platform) ToggleTeam(ctx context.Context, actor entities.Actor, id int64, active bool) (*entities.Team, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.Team, error) {
		return s.Identity.ToggleTeam(ctx, actor, id, active)
	})
}

// ListTeams lists the actor's teams
func (p *Platform) ListTeams(ctx context.Context, actor entities.Actor) ([]*entities.Team, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.Team, error) {
		return s.Identity.ListTeams(ctx, actor)
	})
}

// Rooms

// CreateRoom validates config and opens a room with its reward tiers
func (p *Platform) CreateRoom(ctx context.Context, actor entities.Actor, config entities.RoomConfig) (*interfaces.RoomDetails, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.RoomDetails, error) {
		return s.Room.CreateRoom(ctx, actor, config)
	})
}

// GetRoom returns the room with its tiers and occupancy. The in-game room
// credentials are blanked unless the actor is an admin or enrolled.
func (p *Platform) GetRoom(ctx context.Context, actor entities.Actor, roomID int64) (*interfaces.RoomDetails, error) {
	return inTransaction(ctx, p, func(s *Services, uow UnitOfWork) (*interfaces.RoomDetails, error) {
		details, err := s.Room.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if actor.IsAdmin {
			return details, nil
		}
		enrolled, err := uow.EnrollmentRepository().IsUserEnrolled(ctx, roomID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			room := *details.Room
			room.GameRoomID = ""
			room.GameRoomPassword = ""
			details.Room = &room
		}
		return details, nil
	})
}

// ListRooms lists rooms without their credentials. Inactive rooms are
// listed for admins only.
func (p *Platform) ListRooms(ctx context.Context, actor entities.Actor) ([]*entities.Room, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.Room, error) {
		rooms, err := s.Room.ListRooms(ctx, !actor.IsAdmin)
		if err != nil {
			return nil, err
		}
		for _, room := range rooms {
			room.GameRoomPassword = ""
			if !actor.IsAdmin {
				room.GameRoomID = ""
			}
		}
		return rooms, nil
	})
}

// ToggleRoom enables or disables enrollment into a room
func (p *Platform) ToggleRoom(ctx context.Context, actor entities.Actor, roomID int64, active bool) (*entities.Room, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.Room, error) {
		return s.Room.ToggleActive(ctx, actor, roomID, active)
	})
}

// BlockUser bars a user from joining the room
func (p *Platform) BlockUser(ctx context.Context, actor entities.Actor, roomID int64, username, reason string) (*interfaces.BlockOutcome, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.BlockOutcome, error) {
		return s.Room.BlockUser(ctx, actor, roomID, username, reason)
	})
}

// UnblockUser lifts a user block
func (p *Platform) UnblockUser(ctx context.Context, actor entities.Actor, roomID int64, username string) (*interfaces.BlockOutcome, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.BlockOutcome, error) {
		return s.Room.UnblockUser(ctx, actor, roomID, username)
	})
}

// BlockTeam bars a team from joining the room
func (p *Platform) BlockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64, reason string) (*interfaces.BlockOutcome, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.BlockOutcome, error) {
		return s.Room.BlockTeam(ctx, actor, roomID, teamID, reason)
	})
}

// UnblockTeam lifts a team block
func (p *Platform) UnblockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64) (*interfaces.BlockOutcome, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.BlockOutcome, error) {
		return s.Room.UnblockTeam(ctx, actor, roomID, teamID)
	})
}

// CloseExpiredRooms closes open rooms whose event started before cutoff
func (p *Platform) CloseExpiredRooms(ctx context.Context, cutoff time.Time) ([]int64, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]int64, error) {
		return s.Room.CloseExpired(ctx, cutoff)
	})
}

// Enrollment

// Enroll admits the actor's gaming IDs or team into the room. Validation,
// the fee debit and the enrollment rows commit together or not at all.
func (p *Platform) Enroll(ctx context.Context, actor entities.Actor, roomID int64, mode entities.EnrollmentMode) (*interfaces.EnrollmentResult, error) {
	result, err := inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.EnrollmentResult, error) {
		return s.Enrollment.Enroll(ctx, actor, roomID, mode)
	})
	if err != nil {
		log.WithFields(log.Fields{
			"roomID": roomID,
			"userID": actor.UserID,
			"kind":   mode.Kind,
			"reason": domain.CodeOf(err),
		}).Info("Enrollment rejected")
		return nil, err
	}
	return result, nil
}

// Performance

// RecordKills saves a gaming ID's kill count and credits any new kill reward
func (p *Platform) RecordKills(ctx context.Context, actor entities.Actor, input interfaces.KillsInput) (*interfaces.KillsResult, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*interfaces.KillsResult, error) {
		return s.Performance.RecordKills(ctx, actor, input)
	})
}

// SelectWinner places a gaming ID at position 1, 2 or 3
func (p *Platform) SelectWinner(ctx context.Context, actor entities.Actor, input interfaces.WinnerInput) (*entities.Winner, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (*entities.Winner, error) {
		return s.Performance.SelectWinner(ctx, actor, input)
	})
}

// Standings lists the room's enrolled gaming IDs with kills and placements
func (p *Platform) Standings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.RoomStanding, error) {
		return s.Performance.Standings(ctx, roomID)
	})
}

// Winners lists the room's selected winners by position
func (p *Platform) Winners(ctx context.Context, roomID int64) ([]*entities.Winner, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.Winner, error) {
		return s.Performance.Winners(ctx, roomID)
	})
}

// WinnerHistory returns the admin audit trail of winner selections
func (p *Platform) WinnerHistory(ctx context.Context, actor entities.Actor, roomID int64) ([]*entities.WinnerSelectionHistory, error) {
	return inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]*entities.WinnerSelectionHistory, error) {
		return s.Performance.WinnerHistory(ctx, actor, roomID)
	})
}

// DistributeRewards pays every undistributed winner of the room, one unit
// of work per winner. A failure stops the loop; winners already paid stay
// paid and a rerun picks up the rest.
func (p *Platform) DistributeRewards(ctx context.Context, actor entities.Actor, roomID int64) (*entities.DistributionSummary, error) {
	summary := &entities.DistributionSummary{RoomID: roomID}

	ids, err := inTransaction(ctx, p, func(s *Services, _ UnitOfWork) ([]int64, error) {
		return s.Performance.PendingDistributions(ctx, actor, roomID)
	})
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		type outcome struct {
			winner *entities.Winner
			paid   bool
		}
		res, err := inTransaction(ctx, p, func(s *Services, _ UnitOfWork) (outcome, error) {
			winner, paid, err := s.Performance.DistributeWinner(ctx, actor, id)
			return outcome{winner: winner, paid: paid}, err
		})
		if err != nil {
			log.WithFields(log.Fields{
				"roomID":   roomID,
				"winnerID": id,
				"paid":     summary.WinnersPaid,
			}).WithError(err).Error("Reward distribution stopped")
			return summary, err
		}
		if !res.paid {
			summary.Skipped++
			continue
		}
		summary.WinnersPaid++
		summary.TotalDistributed += res.winner.RewardAmount
	}

	log.WithFields(log.Fields{
		"roomID":           roomID,
		"winnersPaid":      summary.WinnersPaid,
		"totalDistributed": summary.TotalDistributed,
		"skipped":          summary.Skipped,
	}).Info("Rewards distributed")
	return summary, nil
}
