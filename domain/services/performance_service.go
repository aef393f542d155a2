package services

import (
	"context"
	"fmt"
	"time"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/events"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// performanceService records kills, assigns placements and pays winners
type performanceService struct {
	roomRepo       interfaces.RoomRepository
	gamingIDRepo   interfaces.GamingIDRepository
	enrollmentRepo interfaces.EnrollmentRepository
	killRecordRepo interfaces.KillRecordRepository
	winnerRepo     interfaces.WinnerRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewPerformanceService creates a new performance and winner service
func NewPerformanceService(
	roomRepo interfaces.RoomRepository,
	gamingIDRepo interfaces.GamingIDRepository,
	enrollmentRepo interfaces.EnrollmentRepository,
	killRecordRepo interfaces.KillRecordRepository,
	winnerRepo interfaces.WinnerRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.PerformanceService {
	return &performanceService{
		roomRepo:       roomRepo,
		gamingIDRepo:   gamingIDRepo,
		enrollmentRepo: enrollmentRepo,
		killRecordRepo: killRecordRepo,
		winnerRepo:     winnerRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// RecordKills overwrites the kill count for a gaming ID in a room. When the
// room pays kill rewards, only the part of the new reward not yet credited
// for this record is paid out; a lower re-submission never debits.
// The room row stays locked until commit so concurrent submissions for the
// same record read each other's credited amount.
func (s *performanceService) RecordKills(ctx context.Context, actor entities.Actor, input interfaces.KillsInput) (*interfaces.KillsResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.KillsCount < 0 {
		return nil, domain.ErrInvalidInput.WithMessage("Kills count cannot be negative")
	}

	room, err := s.roomRepo.GetByIDForUpdate(ctx, input.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	gamingID, err := s.enrolledGamingID(ctx, room.ID, input.GamingIDID)
	if err != nil {
		return nil, err
	}

	existing, err := s.killRecordRepo.Get(ctx, room.ID, gamingID.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get kill record: %w", err)
	}

	reward := room.KillReward.RewardFor(input.KillsCount)
	var previousKills int
	var alreadyCredited int64
	var proofRef *string
	if existing != nil {
		previousKills = existing.KillsCount
		alreadyCredited = existing.RewardCredited
		proofRef = existing.ProofRef
	}
	if input.ProofRef != "" {
		ref := input.ProofRef
		proofRef = &ref
	}

	delta := reward - alreadyCredited
	if delta < 0 {
		delta = 0
	}

	record := &entities.KillRecord{
		RoomID:         room.ID,
		GamingIDID:     gamingID.ID,
		UserID:         gamingID.UserID,
		KillsCount:     input.KillsCount,
		RewardEarned:   reward,
		RewardCredited: alreadyCredited + delta,
		RewardStatus:   entities.KillRewardStatusNotEligible,
		ProofRef:       proofRef,
		RecordedBy:     actor.UserID,
	}
	if reward > 0 {
		record.RewardStatus = entities.KillRewardStatusApproved
	}
	if err := s.killRecordRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save kill record: %w", err)
	}

	if delta > 0 {
		entry := entities.LedgerEntry{
			Type:        entities.TransactionTypeKillReward,
			Description: fmt.Sprintf("Kill reward - %d kills in %s", input.KillsCount, room.Name),
			Metadata: map[string]any{
				"room_id":      room.ID,
				"gaming_id_id": gamingID.ID,
				"kills":        input.KillsCount,
			},
		}
		if _, err := s.ledger.Credit(ctx, gamingID.UserID, delta, entry.RelatedTo(entities.RelatedTypeKillRecord, record.ID)); err != nil {
			return nil, err
		}
	}

	if err := s.gamingIDRepo.AddKillStats(ctx, gamingID.ID, int64(input.KillsCount-previousKills), delta); err != nil {
		return nil, fmt.Errorf("failed to update gaming ID stats: %w", err)
	}

	if err := s.eventPublisher.Publish(events.KillsRecordedEvent{
		RoomID:        room.ID,
		GamingIDID:    gamingID.ID,
		UserID:        gamingID.UserID,
		KillsCount:    input.KillsCount,
		RewardEarned:  reward,
		CreditedDelta: delta,
	}); err != nil {
		log.WithError(err).Error("Failed to publish kills recorded event")
	}

	log.WithFields(log.Fields{
		"roomID":   room.ID,
		"gamingID": gamingID.ID,
		"kills":    input.KillsCount,
		"reward":   reward,
		"credited": delta,
		"adminID":  actor.UserID,
	}).Info("Kills recorded")

	return &interfaces.KillsResult{Record: record, Credited: delta}, nil
}

// SelectWinner assigns a gaming ID to a placement and computes its reward.
// A position whose reward was already distributed cannot be reassigned.
func (s *performanceService) SelectWinner(ctx context.Context, actor entities.Actor, input interfaces.WinnerInput) (*entities.Winner, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !entities.ValidPosition(input.Position) {
		return nil, domain.ErrInvalidPosition
	}

	room, err := s.getRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	gamingID, err := s.enrolledGamingID(ctx, room.ID, input.GamingIDID)
	if err != nil {
		return nil, err
	}

	tier, err := s.roomRepo.GetRewardTier(ctx, room.ID, input.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward tier: %w", err)
	}
	if tier == nil {
		return nil, domain.ErrRewardTierNotFound
	}

	current, err := s.winnerRepo.GetByPositionForUpdate(ctx, room.ID, input.Position)
	if err != nil {
		return nil, fmt.Errorf("failed to get current winner: %w", err)
	}
	if current != nil && current.RewardDistributed {
		return nil, domain.ErrWinnerAlreadyDistributed.WithMessage("Reward for position %d was already distributed", input.Position)
	}

	winners, err := s.winnerRepo.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	for _, w := range winners {
		if w.GamingIDID == gamingID.ID && w.Position != input.Position {
			return nil, domain.ErrWinnerDuplicateGamingID.WithMessage("Gaming ID '%s' already holds position %d in this room", gamingID.Username, w.Position)
		}
	}

	kills := 0
	record, err := s.killRecordRepo.Get(ctx, room.ID, gamingID.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get kill record: %w", err)
	}
	if record != nil {
		kills = record.KillsCount
	}
	killBonus, total := tier.Compute(kills)

	winner := &entities.Winner{
		RoomID:           room.ID,
		Position:         input.Position,
		GamingIDID:       gamingID.ID,
		UserID:           gamingID.UserID,
		KillsCount:       kills,
		PerformanceScore: entities.PerformanceScore(kills, input.Position),
		RewardAmount:     total,
		SelectedBy:       actor.UserID,
		Notes:            input.Notes,
	}
	if err := s.winnerRepo.Upsert(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to save winner: %w", err)
	}

	position := input.Position
	gid := gamingID.ID
	if err := s.winnerRepo.RecordHistory(ctx, &entities.WinnerSelectionHistory{
		RoomID:       room.ID,
		ActionType:   entities.WinnerActionSelected,
		GamingIDID:   &gid,
		Position:     &position,
		RewardAmount: total,
		AdminUserID:  actor.UserID,
		Details:      fmt.Sprintf("Selected %s for position %d with %d kills (base %d, kill bonus %d)", gamingID.Handle(), position, kills, tier.BaseReward, killBonus),
	}); err != nil {
		return nil, fmt.Errorf("failed to record winner history: %w", err)
	}

	if err := s.eventPublisher.Publish(events.WinnerSelectedEvent{
		WinnerID:     winner.ID,
		RoomID:       room.ID,
		Position:     position,
		GamingIDID:   gid,
		UserID:       winner.UserID,
		RewardAmount: total,
	}); err != nil {
		log.WithError(err).Error("Failed to publish winner selected event")
	}

	return winner, nil
}

// PendingDistributions returns winners in the room still awaiting payment
func (s *performanceService) PendingDistributions(ctx context.Context, actor entities.Actor, roomID int64) ([]int64, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	ids, err := s.winnerRepo.ListUndistributedIDs(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list undistributed winners: %w", err)
	}
	return ids, nil
}

// DistributeWinner marks one winner distributed and credits its reward.
// Both writes share the caller's transaction.
func (s *performanceService) DistributeWinner(ctx context.Context, actor entities.Actor, winnerID int64) (*entities.Winner, bool, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, false, err
	}

	winner, err := s.winnerRepo.GetByIDForUpdate(ctx, winnerID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get winner: %w", err)
	}
	if winner == nil {
		return nil, false, domain.ErrWinnerNotFound
	}
	if !winner.IsPayable() {
		return winner, false, nil
	}

	now := time.Now()
	marked, err := s.winnerRepo.MarkDistributed(ctx, winner.ID, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark winner distributed: %w", err)
	}
	if !marked {
		return winner, false, nil
	}

	entry := entities.LedgerEntry{
		Type:        entities.TransactionTypeWinnerReward,
		Description: fmt.Sprintf("Winner reward - position %d in room %d", winner.Position, winner.RoomID),
		Metadata: map[string]any{
			"room_id":  winner.RoomID,
			"position": winner.Position,
		},
	}
	if _, err := s.ledger.Credit(ctx, winner.UserID, winner.RewardAmount, entry.RelatedTo(entities.RelatedTypeWinner, winner.ID)); err != nil {
		return nil, false, err
	}

	if err := s.gamingIDRepo.AddKillStats(ctx, winner.GamingIDID, 0, winner.RewardAmount); err != nil {
		return nil, false, fmt.Errorf("failed to update gaming ID stats: %w", err)
	}

	position := winner.Position
	gid := winner.GamingIDID
	if err := s.winnerRepo.RecordHistory(ctx, &entities.WinnerSelectionHistory{
		RoomID:       winner.RoomID,
		ActionType:   entities.WinnerActionDistributed,
		GamingIDID:   &gid,
		Position:     &position,
		RewardAmount: winner.RewardAmount,
		AdminUserID:  actor.UserID,
		Details:      fmt.Sprintf("Distributed %d coins for position %d", winner.RewardAmount, position),
	}); err != nil {
		return nil, false, fmt.Errorf("failed to record winner history: %w", err)
	}

	winner.RewardDistributed = true
	winner.DistributedAt = &now

	if err := s.eventPublisher.Publish(events.RewardDistributedEvent{
		WinnerID:      winner.ID,
		RoomID:        winner.RoomID,
		UserID:        winner.UserID,
		Position:      winner.Position,
		RewardAmount:  winner.RewardAmount,
		DistributedAt: now,
	}); err != nil {
		log.WithError(err).Error("Failed to publish reward distributed event")
	}

	return winner, true, nil
}

// Standings lists enrolled gaming IDs with kills and placements
func (s *performanceService) Standings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	standings, err := s.enrollmentRepo.ListStandings(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	return standings, nil
}

// Winners lists the room's current placements
func (s *performanceService) Winners(ctx context.Context, roomID int64) ([]*entities.Winner, error) {
	winners, err := s.winnerRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners: %w", err)
	}
	return winners, nil
}

// WinnerHistory returns the room's winner audit log
func (s *performanceService) WinnerHistory(ctx context.Context, actor entities.Actor, roomID int64) ([]*entities.WinnerSelectionHistory, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	history, err := s.winnerRepo.GetHistory(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner history: %w", err)
	}
	return history, nil
}

func (s *performanceService) getRoom(ctx context.Context, roomID int64) (*entities.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *performanceService) enrolledGamingID(ctx context.Context, roomID, gamingIDID int64) (*entities.GamingID, error) {
	gamingID, err := s.gamingIDRepo.GetByID(ctx, gamingIDID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gaming ID: %w", err)
	}
	if gamingID == nil {
		return nil, domain.ErrGamingIDNotFound
	}
	enrolled, err := s.enrollmentRepo.IsGamingIDEnrolled(ctx, roomID, gamingIDID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, domain.ErrGamingIDNotInRoom
	}
	return gamingID, nil
}
