package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/events"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// enrollmentService admits gaming IDs or teams into rooms. It must run
// inside a unit of work: the room row lock taken first is held until the
// caller commits, which serializes capacity and duplicate checks per room.
type enrollmentService struct {
	roomRepo       interfaces.RoomRepository
	blockRepo      interfaces.BlockRepository
	enrollmentRepo interfaces.EnrollmentRepository
	gamingIDRepo   interfaces.GamingIDRepository
	teamRepo       interfaces.TeamRepository
	userRepo       interfaces.UserRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	roomRepo interfaces.RoomRepository,
	blockRepo interfaces.BlockRepository,
	enrollmentRepo interfaces.EnrollmentRepository,
	gamingIDRepo interfaces.GamingIDRepository,
	teamRepo interfaces.TeamRepository,
	userRepo interfaces.UserRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.EnrollmentService {
	return &enrollmentService{
		roomRepo:       roomRepo,
		blockRepo:      blockRepo,
		enrollmentRepo: enrollmentRepo,
		gamingIDRepo:   gamingIDRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// enrollmentAttempt carries what has been resolved about one attempt
type enrollmentAttempt struct {
	actor     entities.Actor
	room      *entities.Room
	mode      entities.EnrollmentMode
	team      *entities.Team
	gamingIDs []*entities.GamingID
	ids       []int64
	slots     int
}

// Enroll validates the attempt in a fixed order, stopping at the first
// failure, then debits the fee and writes the enrollment
func (s *enrollmentService) Enroll(ctx context.Context, actor entities.Actor, roomID int64, mode entities.EnrollmentMode) (*interfaces.EnrollmentResult, error) {
	room, err := s.roomRepo.GetByIDForUpdate(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	if err := room.CheckAcceptsEnrollment(); err != nil {
		return nil, err
	}

	attempt := &enrollmentAttempt{actor: actor, room: room, mode: mode}
	switch mode.Kind {
	case entities.EnrollmentKindGamingIDs:
		attempt.ids = mode.DistinctGamingIDs()
		attempt.slots = len(attempt.ids)
	case entities.EnrollmentKindTeam:
		team, err := s.resolveTeam(ctx, actor, mode.TeamID)
		if err != nil {
			return nil, err
		}
		attempt.team = team
		attempt.slots = team.TeamSize
	default:
		return nil, domain.ErrInvalidInput.WithMessage("Unknown enrollment mode '%s'", mode.Kind)
	}

	if err := s.checkBlocked(ctx, attempt); err != nil {
		return nil, err
	}

	existing, err := s.findExisting(ctx, attempt)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.replay(ctx, attempt, existing)
	}

	if err := s.checkSelection(ctx, attempt); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(ctx, attempt); err != nil {
		return nil, err
	}
	if mode.Kind == entities.EnrollmentKindGamingIDs {
		if err := s.checkDuplicates(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return s.commit(ctx, attempt)
}

func (s *enrollmentService) resolveTeam(ctx context.Context, actor entities.Actor, teamID int64) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}
	if team.UserID != actor.UserID {
		return nil, domain.ErrNotOwner
	}
	if !team.IsActive {
		return nil, domain.ErrInactive.WithMessage("Team '%s' is inactive", team.Name)
	}
	return team, nil
}

// checkBlocked rejects blocked users. Team attempts are also rejected when
// the team itself is blocked.
func (s *enrollmentService) checkBlocked(ctx context.Context, a *enrollmentAttempt) error {
	blocked, err := s.blockRepo.IsUserBlocked(ctx, a.room.ID, a.actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to check user block list: %w", err)
	}
	if blocked {
		return domain.ErrActorBlocked
	}
	if a.team != nil {
		blocked, err = s.blockRepo.IsTeamBlocked(ctx, a.room.ID, a.team.ID)
		if err != nil {
			return fmt.Errorf("failed to check team block list: %w", err)
		}
		if blocked {
			return domain.ErrActorBlocked.WithMessage("Team '%s' has been blocked from joining this room", a.team.Name)
		}
	}
	return nil
}

func (s *enrollmentService) findExisting(ctx context.Context, a *enrollmentAttempt) (*entities.RoomEnrollment, error) {
	if a.team != nil {
		existing, err := s.enrollmentRepo.GetActiveByTeam(ctx, a.room.ID, a.team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check team enrollment: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrAlreadyEnrolled.WithMessage("Team '%s' is already enrolled in this room", a.team.Name)
		}
		return nil, nil
	}

	existing, err := s.enrollmentRepo.GetActiveByUser(ctx, a.room.ID, a.actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	if !existing.SameGamingIDs(a.ids) {
		return nil, domain.ErrAlreadyEnrolled
	}
	return existing, nil
}

// replay returns an identical earlier enrollment without charging again
func (s *enrollmentService) replay(ctx context.Context, a *enrollmentAttempt, existing *entities.RoomEnrollment) (*interfaces.EnrollmentResult, error) {
	balance, err := s.ledger.GetBalance(ctx, a.actor.UserID)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"roomID":       a.room.ID,
		"userID":       a.actor.UserID,
		"enrollmentID": existing.ID,
	}).Info("Enrollment retried with identical gaming IDs, returning existing enrollment")
	return &interfaces.EnrollmentResult{Enrollment: existing, Replayed: true, NewBalance: balance}, nil
}

// checkSelection bounds the slot count and, for gaming-ID attempts, checks
// every selected ID exists and is active. Any user's gaming ID may be
// selected; a record already playing in the room is caught by checkDuplicates.
func (s *enrollmentService) checkSelection(ctx context.Context, a *enrollmentAttempt) error {
	lo, hi := a.room.SelectionBounds(a.mode.Kind)
	if a.slots < lo || a.slots > hi {
		if a.team != nil {
			return domain.ErrTeamSizeOutOfRange.WithMessage("Team size must be between %d and %d for this room", lo, hi)
		}
		return domain.ErrTeamSizeOutOfRange.WithMessage("You can select between %d and %d gaming IDs for this room", lo, hi)
	}
	if a.team != nil {
		return nil
	}

	gamingIDs, err := s.gamingIDRepo.GetByIDs(ctx, a.ids)
	if err != nil {
		return fmt.Errorf("failed to load gaming IDs: %w", err)
	}
	byID := make(map[int64]*entities.GamingID, len(gamingIDs))
	for _, g := range gamingIDs {
		byID[g.ID] = g
	}
	for _, id := range a.ids {
		g, ok := byID[id]
		if !ok {
			return domain.ErrGamingIDNotFound.WithMessage("Gaming ID %d not found", id)
		}
		if !g.IsActive {
			return domain.ErrInactive.WithMessage("Gaming ID '%s' is inactive", g.Username)
		}
		a.gamingIDs = append(a.gamingIDs, g)
	}
	return nil
}

// checkCapacity recomputes occupancy from paid, active enrollments
func (s *enrollmentService) checkCapacity(ctx context.Context, a *enrollmentAttempt) error {
	used, err := s.enrollmentRepo.CountActiveSlots(ctx, a.room.ID)
	if err != nil {
		return fmt.Errorf("failed to count enrolled slots: %w", err)
	}
	if used >= a.room.MaxPlayers {
		return domain.ErrRoomFull
	}
	if used+a.slots > a.room.MaxPlayers {
		return domain.ErrInsufficientSlots.WithMessage("Only %d slots remaining", a.room.MaxPlayers-used)
	}
	return nil
}

// checkDuplicates rejects gaming ID records already enrolled in the room
// and handles already enrolled by a different user
func (s *enrollmentService) checkDuplicates(ctx context.Context, a *enrollmentAttempt) error {
	claims, err := s.enrollmentRepo.FindGamingIDClaims(ctx, a.room.ID, a.ids)
	if err != nil {
		return fmt.Errorf("failed to check gaming ID claims: %w", err)
	}
	if len(claims) > 0 {
		reasons := make([]string, 0, len(claims))
		for _, c := range claims {
			reasons = append(reasons, fmt.Sprintf("Gaming ID '%s' is already enrolled in this room by %s", c.Username, c.OwnerUsername))
		}
		return domain.ErrGamingIDAlreadyEnrolled.WithMessage("%s", strings.Join(reasons, "; "))
	}

	handles := make([]entities.GamingHandle, 0, len(a.gamingIDs))
	for _, g := range a.gamingIDs {
		handles = append(handles, g.Handle())
	}
	conflicts, err := s.enrollmentRepo.FindHandleClaims(ctx, a.room.ID, handles, a.actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to check gaming username claims: %w", err)
	}
	if len(conflicts) > 0 {
		reasons := make([]string, 0, len(conflicts))
		for _, c := range conflicts {
			reasons = append(reasons, fmt.Sprintf("Gaming username '%s' is already enrolled in this room by %s", c.Handle(), c.OwnerUsername))
		}
		return domain.ErrGamingUsernameConflict.WithMessage("%s", strings.Join(reasons, "; "))
	}
	return nil
}

// commit checks affordability, debits the fee and writes the enrollment
func (s *enrollmentService) commit(ctx context.Context, a *enrollmentAttempt) (*interfaces.EnrollmentResult, error) {
	fee := a.room.EntryFee * int64(a.slots)

	balance, err := s.ledger.GetBalance(ctx, a.actor.UserID)
	if err != nil {
		return nil, err
	}
	if balance < fee {
		return nil, domain.ErrInsufficientFunds.WithMessage("Insufficient coins. Required: %d, available: %d", fee, balance)
	}

	enrollment := &entities.RoomEnrollment{
		RoomID:        a.room.ID,
		UserID:        a.actor.UserID,
		Kind:          a.mode.Kind,
		SlotCount:     a.slots,
		TotalEntryFee: fee,
		PaymentStatus: entities.PaymentStatusPaid,
		IsActive:      true,
		GamingIDs:     a.ids,
	}
	if a.team != nil {
		teamID := a.team.ID
		enrollment.TeamID = &teamID
	}

	if fee > 0 {
		history, err := s.ledger.Debit(ctx, a.actor.UserID, fee, entities.LedgerEntry{
			Type:        entities.TransactionTypeDebit,
			Description: fmt.Sprintf("Room entry fee - %s", a.room.Name),
			Metadata: map[string]any{
				"room_id":    a.room.ID,
				"slot_count": a.slots,
				"entry_fee":  a.room.EntryFee,
			},
		})
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientFunds) {
				return nil, domain.ErrInsufficientFunds.WithMessage("Insufficient coins. Required: %d, available: %d", fee, balance)
			}
			return nil, err
		}
		enrollment.BalanceHistoryID = &history.ID
		balance = history.BalanceAfter
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if domain.KindOf(err) != domain.KindStorageUnavailable {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	if len(a.ids) > 0 {
		if err := s.gamingIDRepo.IncrementRoomsJoined(ctx, a.ids); err != nil {
			return nil, fmt.Errorf("failed to update gaming ID stats: %w", err)
		}
	}

	if err := s.eventPublisher.Publish(events.EnrollmentCreatedEvent{
		EnrollmentID:  enrollment.ID,
		RoomID:        enrollment.RoomID,
		UserID:        enrollment.UserID,
		Kind:          enrollment.Kind,
		TeamID:        enrollment.TeamID,
		GamingIDs:     enrollment.GamingIDs,
		SlotCount:     enrollment.SlotCount,
		TotalEntryFee: enrollment.TotalEntryFee,
	}); err != nil {
		log.WithError(err).Error("Failed to publish enrollment created event")
	}

	log.WithFields(log.Fields{
		"roomID":       a.room.ID,
		"userID":       a.actor.UserID,
		"enrollmentID": enrollment.ID,
		"kind":         enrollment.Kind,
		"slots":        enrollment.SlotCount,
		"fee":          fee,
	}).Info("Enrollment created")

	return &interfaces.EnrollmentResult{Enrollment: enrollment, NewBalance: balance}, nil
}
