package server

import (
	"net/http"
	"time"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"
)

type joinRequest struct {
	GamingIDs []int64 `json:"gaming_ids"`
	TeamID    int64   `json:"team_id"`
}

// mode picks team enrollment when a team is named, otherwise gaming IDs
func (req joinRequest) mode() (entities.EnrollmentMode, error) {
	switch {
	case req.TeamID > 0 && len(req.GamingIDs) > 0:
		return entities.EnrollmentMode{}, domain.ErrInvalidInput.WithMessage("Choose either gaming IDs or a team, not both")
	case req.TeamID > 0:
		return entities.TeamMode(req.TeamID), nil
	default:
		return entities.GamingIDsMode(req.GamingIDs...), nil
	}
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.platform.ListRooms(r.Context(), actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRooms(rooms))
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	details, err := s.platform.GetRoom(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoomDetails(details))
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	mode, err := req.mode()
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.platform.Enroll(r.Context(), actorFrom(r.Context()), id, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, toEnrollment(result))
}

type createRoomRequest struct {
	Name              string              `json:"name"`
	GameType          string              `json:"game_type"`
	EntryFee          int64               `json:"entry_fee"`
	PrizePool         int64               `json:"prize_pool"`
	MaxPlayers        int                 `json:"max_players"`
	IsMultiplayer     bool                `json:"is_multiplayer"`
	MinTeamSize       *int                `json:"min_team_size"`
	MaxTeamSize       *int                `json:"max_team_size"`
	MinPlayersToStart *int                `json:"min_players_to_start"`
	IsActive          *bool               `json:"is_active"`
	GameRoomID        string              `json:"game_room_id"`
	GameRoomPassword  string              `json:"game_room_password"`
	EventTiming       *time.Time          `json:"event_timing"`
	KillReward        *killRewardPayload  `json:"kill_reward"`
	RewardTiers       []rewardTierPayload `json:"reward_tiers"`
	BlockedUsernames  []string            `json:"blocked_usernames"`
	BlockReason       string              `json:"block_reason"`
}

func (req createRoomRequest) config() entities.RoomConfig {
	cfg := entities.RoomConfig{
		Name:              req.Name,
		GameType:          req.GameType,
		EntryFee:          req.EntryFee,
		PrizePool:         req.PrizePool,
		MaxPlayers:        req.MaxPlayers,
		IsMultiplayer:     req.IsMultiplayer,
		MinTeamSize:       req.MinTeamSize,
		MaxTeamSize:       req.MaxTeamSize,
		MinPlayersToStart: req.MinPlayersToStart,
		IsActive:          req.IsActive,
		GameRoomID:        req.GameRoomID,
		GameRoomPassword:  req.GameRoomPassword,
		EventTiming:       req.EventTiming,
		BlockedUsernames:  req.BlockedUsernames,
		BlockReason:       req.BlockReason,
	}
	if req.KillReward != nil {
		cfg.KillReward = &entities.KillRewardConfig{
			Enabled:          req.KillReward.Enabled,
			MinKillsRequired: req.KillReward.MinKillsRequired,
			RewardPerKill:    req.KillReward.RewardPerKill,
		}
	}
	for _, t := range req.RewardTiers {
		cfg.RewardTiers = append(cfg.RewardTiers, entities.RewardTier{
			Position:         t.Position,
			BaseReward:       t.BaseReward,
			KillBonusPerKill: t.KillBonusPerKill,
			MaxKillBonus:     t.MaxKillBonus,
		})
	}
	return cfg
}

type blockUserRequest struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

type blockTeamRequest struct {
	TeamID int64  `json:"team_id"`
	Reason string `json:"reason"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	details, err := s.platform.CreateRoom(r.Context(), actorFrom(r.Context()), req.config())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoomDetails(details))
}

func (s *Server) handleToggleRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	room, err := s.platform.ToggleRoom(r.Context(), actorFrom(r.Context()), id, req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRoom(room))
}

func (s *Server) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	s.blockUser(w, r, true)
}

func (s *Server) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	s.blockUser(w, r, false)
}

func (s *Server) blockUser(w http.ResponseWriter, r *http.Request, block bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req blockUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	actor := actorFrom(r.Context())
	var outcome *interfaces.BlockOutcome
	if block {
		outcome, err = s.platform.BlockUser(r.Context(), actor, id, req.Username, req.Reason)
	} else {
		outcome, err = s.platform.UnblockUser(r.Context(), actor, id, req.Username)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blockResponse{Changed: outcome.Changed, Warning: outcome.Warning})
}

func (s *Server) handleBlockTeam(w http.ResponseWriter, r *http.Request) {
	s.blockTeam(w, r, true)
}

func (s *Server) handleUnblockTeam(w http.ResponseWriter, r *http.Request) {
	s.blockTeam(w, r, false)
}

func (s *Server) blockTeam(w http.ResponseWriter, r *http.Request, block bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req blockTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	actor := actorFrom(r.Context())
	var outcome *interfaces.BlockOutcome
	if block {
		outcome, err = s.platform.BlockTeam(r.Context(), actor, id, req.TeamID, req.Reason)
	} else {
		outcome, err = s.platform.UnblockTeam(r.Context(), actor, id, req.TeamID)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blockResponse{Changed: outcome.Changed, Warning: outcome.Warning})
}
