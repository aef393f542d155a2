package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// identityService manages a user's gaming IDs and teams
type identityService struct {
	gamingIDRepo   interfaces.GamingIDRepository
	teamRepo       interfaces.TeamRepository
	enrollmentRepo interfaces.EnrollmentRepository
}

// NewIdentityService creates a new identity registry service
func NewIdentityService(
	gamingIDRepo interfaces.GamingIDRepository,
	teamRepo interfaces.TeamRepository,
	enrollmentRepo interfaces.EnrollmentRepository,
) interfaces.IdentityService {
	return &identityService{
		gamingIDRepo:   gamingIDRepo,
		teamRepo:       teamRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// AddGamingID registers a new handle for the actor. The same handle may be
// registered by different users, but only once per user.
func (s *identityService) AddGamingID(ctx context.Context, actor entities.Actor, input interfaces.GamingIDInput) (*entities.GamingID, error) {
	platform, username, displayName := entities.NormalizeGamingID(input.Platform, input.Username, input.DisplayName)
	if username == "" {
		return nil, domain.ErrInvalidInput.WithMessage("Gaming username is required")
	}

	exists, err := s.gamingIDRepo.ExistsForUser(ctx, actor.UserID, platform, username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check gaming ID: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateGamingID.WithMessage("Gaming username '%s' already exists in your account for %s", username, platform)
	}

	if input.IsPrimary {
		if err := s.gamingIDRepo.ClearPrimary(ctx, actor.UserID, 0); err != nil {
			return nil, fmt.Errorf("failed to clear primary gaming ID: %w", err)
		}
	}

	gamingID := &entities.GamingID{
		UserID:      actor.UserID,
		Platform:    platform,
		Username:    username,
		DisplayName: displayName,
		IsPrimary:   input.IsPrimary,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := s.gamingIDRepo.Create(ctx, gamingID); err != nil {
		if errors.Is(err, domain.ErrDuplicateGamingID) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create gaming ID: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":    actor.UserID,
		"gamingID":  gamingID.ID,
		"platform":  platform,
		"isPrimary": gamingID.IsPrimary,
	}).Info("Gaming ID added")

	return gamingID, nil
}

// EditGamingID updates an owned gaming ID. The handle of a gaming ID with
// active room enrollments is frozen, since room claims were checked against it.
func (s *identityService) EditGamingID(ctx context.Context, actor entities.Actor, id int64, input interfaces.GamingIDInput) (*entities.GamingID, error) {
	gamingID, err := s.ownedGamingID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	platform, username, displayName := entities.NormalizeGamingID(input.Platform, input.Username, input.DisplayName)
	if username == "" {
		return nil, domain.ErrInvalidInput.WithMessage("Gaming username is required")
	}

	exists, err := s.gamingIDRepo.ExistsForUser(ctx, actor.UserID, platform, username, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check gaming ID: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateGamingID.WithMessage("Gaming username '%s' already exists in your account for %s", username, platform)
	}

	if platform != gamingID.Platform || username != gamingID.Username {
		rooms, err := s.enrollmentRepo.CountActiveRooms(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check gaming ID enrollments: %w", err)
		}
		if rooms > 0 {
			return nil, domain.ErrGamingIDInUse.WithMessage("Gaming ID '%s' is enrolled in %d active room(s); its username cannot change until those rooms end", gamingID.Username, rooms)
		}
	}

	if input.IsPrimary {
		if err := s.gamingIDRepo.ClearPrimary(ctx, actor.UserID, id); err != nil {
			return nil, fmt.Errorf("failed to clear primary gaming ID: %w", err)
		}
	}

	gamingID.Platform = platform
	gamingID.Username = username
	gamingID.DisplayName = displayName
	gamingID.IsPrimary = input.IsPrimary
	if input.IsActive != nil {
		gamingID.IsActive = *input.IsActive
	}
	if err := s.gamingIDRepo.Update(ctx, gamingID); err != nil {
		if errors.Is(err, domain.ErrDuplicateGamingID) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update gaming ID: %w", err)
	}
	return gamingID, nil
}

// SetPrimary makes id the actor's only primary gaming ID
func (s *identityService) SetPrimary(ctx context.Context, actor entities.Actor, id int64) (*entities.GamingID, error) {
	gamingID, err := s.ownedGamingID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.gamingIDRepo.ClearPrimary(ctx, actor.UserID, id); err != nil {
		return nil, fmt.Errorf("failed to clear primary gaming ID: %w", err)
	}
	gamingID.IsPrimary = true
	if err := s.gamingIDRepo.Update(ctx, gamingID); err != nil {
		return nil, fmt.Errorf("failed to update gaming ID: %w", err)
	}
	return gamingID, nil
}

// ListGamingIDs returns the actor's gaming IDs
func (s *identityService) ListGamingIDs(ctx context.Context, actor entities.Actor) ([]*entities.GamingID, error) {
	ids, err := s.gamingIDRepo.GetByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gaming IDs: %w", err)
	}
	return ids, nil
}

// CreateTeam creates a team owned by the actor
func (s *identityService) CreateTeam(ctx context.Context, actor entities.Actor, input interfaces.TeamInput) (*entities.Team, error) {
	team := &entities.Team{
		UserID:   actor.UserID,
		IsActive: true,
	}
	if err := applyTeamInput(team, input, actor.Username); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   actor.UserID,
		"teamID":   team.ID,
		"teamSize": team.TeamSize,
	}).Info("Team created")

	return team, nil
}

// EditTeam replaces an owned team's details and roster
func (s *identityService) EditTeam(ctx context.Context, actor entities.Actor, id int64, input interfaces.TeamInput) (*entities.Team, error) {
	team, err := s.ownedTeam(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyTeamInput(team, input, actor.Username); err != nil {
		return nil, err
	}
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return team, nil
}

// ToggleTeam activates or deactivates an owned team
func (s *identityService) ToggleTeam(ctx context.Context, actor entities.Actor, id int64, active bool) (*entities.Team, error) {
	team, err := s.ownedTeam(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.teamRepo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to toggle team: %w", err)
	}
	team.IsActive = active
	return team, nil
}

// ListTeams returns the actor's teams
func (s *identityService) ListTeams(ctx context.Context, actor entities.Actor) ([]*entities.Team, error) {
	teams, err := s.teamRepo.GetByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *identityService) ownedGamingID(ctx context.Context, actor entities.Actor, id int64) (*entities.GamingID, error) {
	gamingID, err := s.gamingIDRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get gaming ID: %w", err)
	}
	if gamingID == nil {
		return nil, domain.ErrGamingIDNotFound
	}
	if gamingID.UserID != actor.UserID {
		return nil, domain.ErrNotOwner
	}
	return gamingID, nil
}

func (s *identityService) ownedTeam(ctx context.Context, actor entities.Actor, id int64) (*entities.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}
	if team.UserID != actor.UserID {
		return nil, domain.ErrNotOwner
	}
	return team, nil
}

func applyTeamInput(team *entities.Team, input interfaces.TeamInput, leaderUsername string) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.ErrInvalidInput.WithMessage("Team name is required")
	}
	members := entities.BuildRoster(input.Members, leaderUsername)
	if len(members) == 0 {
		return domain.ErrInvalidInput.WithMessage("A team needs at least one member")
	}
	team.Name = name
	team.Email = strings.TrimSpace(input.Email)
	team.Members = members
	team.TeamSize = len(members)
	return nil
}
