package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/events"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// roomService manages the room catalog and per-room block lists
type roomService struct {
	roomRepo       interfaces.RoomRepository
	blockRepo      interfaces.BlockRepository
	enrollmentRepo interfaces.EnrollmentRepository
	userRepo       interfaces.UserRepository
	teamRepo       interfaces.TeamRepository
	eventPublisher interfaces.EventPublisher
}

// NewRoomService creates a new room catalog service
func NewRoomService(
	roomRepo interfaces.RoomRepository,
	blockRepo interfaces.BlockRepository,
	enrollmentRepo interfaces.EnrollmentRepository,
	userRepo interfaces.UserRepository,
	teamRepo interfaces.TeamRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.RoomService {
	return &roomService{
		roomRepo:       roomRepo,
		blockRepo:      blockRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		teamRepo:       teamRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateRoom validates the configuration, stores the room with its reward
// tiers and applies any initial block list
func (s *roomService) CreateRoom(ctx context.Context, actor entities.Actor, config entities.RoomConfig) (*interfaces.RoomDetails, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	room, tiers, err := config.Build(actor.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	for i := range tiers {
		tiers[i].RoomID = room.ID
	}
	if err := s.roomRepo.SaveRewardTiers(ctx, room.ID, tiers); err != nil {
		return nil, fmt.Errorf("failed to save reward tiers: %w", err)
	}

	for _, username := range config.BlockedUsernames {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		if _, err := s.BlockUser(ctx, actor, room.ID, username, config.BlockReason); err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				log.WithFields(log.Fields{
					"roomID":   room.ID,
					"username": username,
				}).Warn("Skipping unknown username in initial block list")
				continue
			}
			return nil, err
		}
	}

	if err := s.eventPublisher.Publish(events.RoomCreatedEvent{
		RoomID:     room.ID,
		Name:       room.Name,
		EntryFee:   room.EntryFee,
		PrizePool:  room.PrizePool,
		MaxPlayers: room.MaxPlayers,
		CreatedBy:  actor.UserID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish room created event")
	}

	log.WithFields(log.Fields{
		"roomID":     room.ID,
		"name":       room.Name,
		"entryFee":   room.EntryFee,
		"maxPlayers": room.MaxPlayers,
		"adminID":    actor.UserID,
	}).Info("Room created")

	return &interfaces.RoomDetails{
		Room:        room,
		RewardTiers: tiers,
		Occupancy:   entities.RoomOccupancy{RoomID: room.ID, MaxPlayers: room.MaxPlayers},
	}, nil
}

// GetRoom returns the room with its tiers and occupancy
func (s *roomService) GetRoom(ctx context.Context, roomID int64) (*interfaces.RoomDetails, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	tiers, err := s.roomRepo.GetRewardTiers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward tiers: %w", err)
	}
	used, err := s.enrollmentRepo.CountActiveSlots(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrolled slots: %w", err)
	}
	return &interfaces.RoomDetails{
		Room:        room,
		RewardTiers: tiers,
		Occupancy:   entities.RoomOccupancy{RoomID: roomID, MaxPlayers: room.MaxPlayers, Used: used},
	}, nil
}

// ListRooms returns the catalog
func (s *roomService) ListRooms(ctx context.Context, activeOnly bool) ([]*entities.Room, error) {
	rooms, err := s.roomRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// ToggleActive enables or disables enrollment in a room
func (s *roomService) ToggleActive(ctx context.Context, actor entities.Actor, roomID int64, active bool) (*entities.Room, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.SetActive(ctx, roomID, active); err != nil {
		return nil, fmt.Errorf("failed to toggle room: %w", err)
	}
	room.IsActive = active

	s.publishStatus(room, actor)
	return room, nil
}

// BlockUser adds the user to the room's block list. Blocking twice is a no-op.
func (s *roomService) BlockUser(ctx context.Context, actor entities.Actor, roomID int64, username, reason string) (*interfaces.BlockOutcome, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	changed, err := s.blockRepo.BlockUser(ctx, &entities.BlockedUser{
		RoomID:    roomID,
		UserID:    user.ID,
		Reason:    strings.TrimSpace(reason),
		BlockedBy: actor.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to block user: %w", err)
	}
	return blockOutcome(changed, roomID, fmt.Sprintf("User '%s' is already blocked from this room", user.Username)), nil
}

// UnblockUser removes the user from the room's block list
func (s *roomService) UnblockUser(ctx context.Context, actor entities.Actor, roomID int64, username string) (*interfaces.BlockOutcome, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	changed, err := s.blockRepo.UnblockUser(ctx, roomID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to unblock user: %w", err)
	}
	return blockOutcome(changed, roomID, fmt.Sprintf("User '%s' is not blocked from this room", user.Username)), nil
}

// BlockTeam adds the team to the room's block list
func (s *roomService) BlockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64, reason string) (*interfaces.BlockOutcome, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}

	changed, err := s.blockRepo.BlockTeam(ctx, &entities.BlockedTeam{
		RoomID:    roomID,
		TeamID:    teamID,
		Reason:    strings.TrimSpace(reason),
		BlockedBy: actor.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to block team: %w", err)
	}
	return blockOutcome(changed, roomID, fmt.Sprintf("Team '%s' is already blocked from this room", team.Name)), nil
}

// UnblockTeam removes the team from the room's block list
func (s *roomService) UnblockTeam(ctx context.Context, actor entities.Actor, roomID, teamID int64) (*interfaces.BlockOutcome, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	changed, err := s.blockRepo.UnblockTeam(ctx, roomID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to unblock team: %w", err)
	}
	return blockOutcome(changed, roomID, fmt.Sprintf("Team %d is not blocked from this room", teamID)), nil
}

// Occupancy recomputes the room's used slots
func (s *roomService) Occupancy(ctx context.Context, roomID int64) (*entities.RoomOccupancy, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	used, err := s.enrollmentRepo.CountActiveSlots(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrolled slots: %w", err)
	}
	return &entities.RoomOccupancy{RoomID: roomID, MaxPlayers: room.MaxPlayers, Used: used}, nil
}

// CloseExpired closes open rooms whose event began before cutoff
func (s *roomService) CloseExpired(ctx context.Context, cutoff time.Time) ([]int64, error) {
	rooms, err := s.roomRepo.ListOpenStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired rooms: %w", err)
	}

	closed := make([]int64, 0, len(rooms))
	for _, room := range rooms {
		if err := s.roomRepo.SetStatus(ctx, room.ID, entities.RoomStatusClosed); err != nil {
			return closed, fmt.Errorf("failed to close room %d: %w", room.ID, err)
		}
		room.Status = entities.RoomStatusClosed
		s.publishStatus(room, entities.SystemActor)
		closed = append(closed, room.ID)
	}
	return closed, nil
}

func (s *roomService) getRoom(ctx context.Context, roomID int64) (*entities.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *roomService) userByUsername(ctx context.Context, username string) (*entities.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound.WithMessage("User '%s' not found", strings.TrimSpace(username))
	}
	return user, nil
}

func (s *roomService) publishStatus(room *entities.Room, actor entities.Actor) {
	if err := s.eventPublisher.Publish(events.RoomStatusChangedEvent{
		RoomID:   room.ID,
		IsActive: room.IsActive,
		Status:   room.Status,
		ActorID:  actor.UserID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish room status event")
	}
}

func blockOutcome(changed bool, roomID int64, warning string) *interfaces.BlockOutcome {
	if changed {
		return &interfaces.BlockOutcome{Changed: true}
	}
	log.WithFields(log.Fields{
		"roomID":  roomID,
		"warning": warning,
	}).Warn("Block list unchanged")
	return &interfaces.BlockOutcome{Changed: false, Warning: warning}
}

func requireAdmin(actor entities.Actor) error {
	if !actor.IsAdmin {
		return domain.ErrNotAdmin
	}
	return nil
}
