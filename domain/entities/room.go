package entities

import (
	"strings"
	"time"

	"tourney/domain"
)

// RoomConfigVersion is the version of the room configuration layout written
// by this code. Older rows are upgraded by migrations, never at query time.
const RoomConfigVersion = 1

const (
	defaultMinTeamSize       = 1
	defaultMaxTeamSize       = 4
	defaultMinPlayersToStart = 2
)

// RoomStatus is the lifecycle state of a room
type RoomStatus string

const (
	RoomStatusOpen     RoomStatus = "open"
	RoomStatusClosed   RoomStatus = "closed"
	RoomStatusFinished RoomStatus = "finished"
)

// IsTerminal returns true for states a room never leaves
func (s RoomStatus) IsTerminal() bool {
	return s == RoomStatusClosed || s == RoomStatusFinished
}

// KillRewardConfig configures the per-kill payout credited when kills are recorded
type KillRewardConfig struct {
	Enabled          bool  `db:"kill_reward_enabled"`
	MinKillsRequired int   `db:"min_kills_required"`
	RewardPerKill    int64 `db:"reward_per_kill"`
}

// RewardFor returns the kill reward for kills. Kills below the threshold earn
// nothing; from the threshold on every kill counts, so reaching exactly the
// threshold pays one kill's reward.
func (k KillRewardConfig) RewardFor(kills int) int64 {
	if !k.Enabled || kills <= 0 {
		return 0
	}
	eligible := kills - k.MinKillsRequired + 1
	if eligible <= 0 {
		return 0
	}
	return int64(eligible) * k.RewardPerKill
}

// Room is a single tournament match with a fixed capacity and entry fee
type Room struct {
	ID                int64            `db:"id"`
	Name              string           `db:"room_name"`
	GameType          string           `db:"game_type"`
	EntryFee          int64            `db:"entry_fee"`
	PrizePool         int64            `db:"prize_pool"`
	MaxPlayers        int              `db:"max_players"`
	MinTeamSize       int              `db:"min_team_size"`
	MaxTeamSize       int              `db:"max_team_size"`
	MinPlayersToStart int              `db:"min_players_to_start"`
	IsMultiplayer     bool             `db:"is_multiplayer"`
	IsActive          bool             `db:"is_active"`
	Status            RoomStatus       `db:"status"`
	GameRoomID        string           `db:"game_room_id"`
	GameRoomPassword  string           `db:"game_room_password"`
	EventTiming       *time.Time       `db:"event_timing"`
	KillReward        KillRewardConfig `db:"-"`
	ConfigVersion     int              `db:"config_version"`
	CreatedBy         int64            `db:"created_by"`
	CreatedAt         time.Time        `db:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at"`
}

// CheckAcceptsEnrollment returns RoomDisabled for inactive or finished rooms
func (r *Room) CheckAcceptsEnrollment() error {
	if !r.IsActive {
		return domain.ErrRoomDisabled
	}
	if r.Status.IsTerminal() {
		return domain.ErrRoomDisabled.WithMessage("This room is %s", r.Status)
	}
	return nil
}

// SelectionBounds returns how many slots a single enrollment of the given
// kind may occupy. Gaming-ID enrollments may pick 1..max_team_size IDs; a
// team must fit min_team_size..max_team_size.
func (r *Room) SelectionBounds(kind EnrollmentKind) (int, int) {
	if kind == EnrollmentKindTeam {
		return r.MinTeamSize, r.MaxTeamSize
	}
	return 1, r.MaxTeamSize
}

// RoomConfig is the versioned input for creating a room. Optional fields
// carry explicit defaults applied once in Build.
type RoomConfig struct {
	Name              string
	GameType          string
	EntryFee          int64
	PrizePool         int64
	MaxPlayers        int
	IsMultiplayer     bool
	MinTeamSize       *int
	MaxTeamSize       *int
	MinPlayersToStart *int
	IsActive          *bool
	GameRoomID        string
	GameRoomPassword  string
	EventTiming       *time.Time
	KillReward        *KillRewardConfig
	RewardTiers       []RewardTier
	BlockedUsernames  []string
	BlockReason       string
}

// Build validates the config and returns the room and its reward tiers.
// When no tiers are supplied the defaults derived from the prize pool are used.
func (c RoomConfig) Build(createdBy int64) (*Room, []RewardTier, error) {
	room := &Room{
		Name:              strings.TrimSpace(c.Name),
		GameType:          strings.TrimSpace(c.GameType),
		EntryFee:          c.EntryFee,
		PrizePool:         c.PrizePool,
		MaxPlayers:        c.MaxPlayers,
		IsMultiplayer:     c.IsMultiplayer,
		MinTeamSize:       intOrDefault(c.MinTeamSize, defaultMinTeamSize),
		MinPlayersToStart: intOrDefault(c.MinPlayersToStart, defaultMinPlayersToStart),
		IsActive:          c.IsActive == nil || *c.IsActive,
		Status:            RoomStatusOpen,
		GameRoomID:        strings.TrimSpace(c.GameRoomID),
		GameRoomPassword:  c.GameRoomPassword,
		EventTiming:       c.EventTiming,
		ConfigVersion:     RoomConfigVersion,
		CreatedBy:         createdBy,
	}
	if c.IsMultiplayer {
		room.MaxTeamSize = intOrDefault(c.MaxTeamSize, defaultMaxTeamSize)
	} else {
		room.MaxTeamSize = intOrDefault(c.MaxTeamSize, 1)
	}
	if c.KillReward != nil {
		room.KillReward = *c.KillReward
	}

	if err := room.Validate(); err != nil {
		return nil, nil, err
	}

	tiers := c.RewardTiers
	if len(tiers) == 0 {
		tiers = DefaultRewardTiers(room.PrizePool)
	}
	if err := ValidateRewardTiers(tiers); err != nil {
		return nil, nil, err
	}
	return room, tiers, nil
}

// Validate checks the room's structural invariants
func (r *Room) Validate() error {
	invalid := domain.ErrInvalidRoomConfig
	switch {
	case r.Name == "":
		return invalid.WithMessage("Room name is required")
	case r.EntryFee < 0:
		return invalid.WithMessage("Entry fee cannot be negative")
	case r.PrizePool < 0:
		return invalid.WithMessage("Prize pool cannot be negative")
	case r.MaxPlayers < 1:
		return invalid.WithMessage("Max players must be at least 1")
	case r.MinTeamSize < 1:
		return invalid.WithMessage("Minimum team size must be at least 1")
	case r.MinTeamSize > r.MaxTeamSize:
		return invalid.WithMessage("Minimum team size cannot be greater than maximum team size")
	case r.MinPlayersToStart < 1:
		return invalid.WithMessage("Minimum players to start must be at least 1")
	case r.MinPlayersToStart > r.MaxPlayers:
		return invalid.WithMessage("Minimum players to start cannot be greater than maximum players")
	case !r.IsMultiplayer && (r.MinTeamSize != 1 || r.MaxTeamSize != 1):
		return invalid.WithMessage("Single player rooms must have team size 1")
	}

	if r.KillReward.Enabled {
		if r.KillReward.MinKillsRequired < 1 {
			return invalid.WithMessage("Minimum kills required must be at least 1")
		}
		if r.KillReward.RewardPerKill <= 0 {
			return invalid.WithMessage("Reward per kill must be greater than 0")
		}
	}
	return nil
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
