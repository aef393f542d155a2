package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourney/database"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RoomRepository implements the RoomRepository interface
type RoomRepository struct {
	q Queryable
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{q: db.Pool}
}

func newRoomRepository(tx Queryable) *RoomRepository {
	return &RoomRepository{q: tx}
}

const roomColumns = `
	id, room_name, game_type, entry_fee, prize_pool, max_players,
	min_team_size, max_team_size, min_players_to_start, is_multiplayer,
	is_active, status, game_room_id, game_room_password, event_timing,
	kill_reward_enabled, min_kills_required, reward_per_kill,
	config_version, created_by, created_at, updated_at`

func scanRoom(row pgx.Row) (*entities.Room, error) {
	var room entities.Room
	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.GameType,
		&room.EntryFee,
		&room.PrizePool,
		&room.MaxPlayers,
		&room.MinTeamSize,
		&room.MaxTeamSize,
		&room.MinPlayersToStart,
		&room.IsMultiplayer,
		&room.IsActive,
		&room.Status,
		&room.GameRoomID,
		&room.GameRoomPassword,
		&room.EventTiming,
		&room.KillReward.Enabled,
		&room.KillReward.MinKillsRequired,
		&room.KillReward.RewardPerKill,
		&room.ConfigVersion,
		&room.CreatedBy,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Create inserts a new room
func (r *RoomRepository) Create(ctx context.Context, room *entities.Room) error {
	query := `
		INSERT INTO rooms (
			room_name, game_type, entry_fee, prize_pool, max_players,
			min_team_size, max_team_size, min_players_to_start, is_multiplayer,
			is_active, status, game_room_id, game_room_password, event_timing,
			kill_reward_enabled, min_kills_required, reward_per_kill,
			config_version, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		room.Name,
		room.GameType,
		room.EntryFee,
		room.PrizePool,
		room.MaxPlayers,
		room.MinTeamSize,
		room.MaxTeamSize,
		room.MinPlayersToStart,
		room.IsMultiplayer,
		room.IsActive,
		room.Status,
		room.GameRoomID,
		room.GameRoomPassword,
		room.EventTiming,
		room.KillReward.Enabled,
		room.KillReward.MinKillsRequired,
		room.KillReward.RewardPerKill,
		room.ConfigVersion,
		room.CreatedBy,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room %s: %w", room.Name, err)
	}
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*entities.Room, error) {
	return r.get(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves the room and holds its row lock until the
// transaction ends. Waiting is bounded by the transaction's lock_timeout.
func (r *RoomRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Room, error) {
	return r.get(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id)
}

func (r *RoomRepository) get(ctx context.Context, query string, id int64) (*entities.Room, error) {
	room, err := scanRoom(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room %d: %w", id, translateError(err))
	}
	return room, nil
}

// List returns rooms newest first
func (r *RoomRepository) List(ctx context.Context, activeOnly bool) ([]*entities.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE is_active OR NOT $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return collectRooms(rows)
}

// SetActive enables or disables a room
func (r *RoomRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE rooms SET is_active = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, active); err != nil {
		return fmt.Errorf("failed to set room %d active=%t: %w", id, active, err)
	}
	return nil
}

// SetStatus moves a room to a new lifecycle state
func (r *RoomRepository) SetStatus(ctx context.Context, id int64, status entities.RoomStatus) error {
	query := `UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to set room %d status to %s: %w", id, status, err)
	}
	return nil
}

// ListOpenStartedBefore returns open rooms whose event began before cutoff
func (r *RoomRepository) ListOpenStartedBefore(ctx context.Context, cutoff time.Time) ([]*entities.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE status = 'open' AND event_timing IS NOT NULL AND event_timing < $1
		ORDER BY event_timing
	`

	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired rooms: %w", err)
	}
	return collectRooms(rows)
}

// SaveRewardTiers replaces the room's reward tiers
func (r *RoomRepository) SaveRewardTiers(ctx context.Context, roomID int64, tiers []entities.RewardTier) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM room_reward_tiers WHERE room_id = $1`, roomID); err != nil {
		return fmt.Errorf("failed to clear reward tiers for room %d: %w", roomID, err)
	}

	query := `
		INSERT INTO room_reward_tiers (room_id, position, base_reward, kill_bonus_per_kill, max_kill_bonus)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, tier := range tiers {
		if _, err := r.q.Exec(ctx, query, roomID, tier.Position, tier.BaseReward, tier.KillBonusPerKill, tier.MaxKillBonus); err != nil {
			return fmt.Errorf("failed to save reward tier %d for room %d: %w", tier.Position, roomID, err)
		}
	}
	return nil
}

// GetRewardTiers returns the room's tiers ordered by position
func (r *RoomRepository) GetRewardTiers(ctx context.Context, roomID int64) ([]entities.RewardTier, error) {
	query := `
		SELECT room_id, position, base_reward, kill_bonus_per_kill, max_kill_bonus
		FROM room_reward_tiers
		WHERE room_id = $1
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward tiers for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var tiers []entities.RewardTier
	for rows.Next() {
		var t entities.RewardTier
		if err := rows.Scan(&t.RoomID, &t.Position, &t.BaseReward, &t.KillBonusPerKill, &t.MaxKillBonus); err != nil {
			return nil, fmt.Errorf("failed to scan reward tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reward tiers: %w", err)
	}
	return tiers, nil
}

// GetRewardTier returns the tier for position
func (r *RoomRepository) GetRewardTier(ctx context.Context, roomID int64, position int) (*entities.RewardTier, error) {
	query := `
		SELECT room_id, position, base_reward, kill_bonus_per_kill, max_kill_bonus
		FROM room_reward_tiers
		WHERE room_id = $1 AND position = $2
	`

	var t entities.RewardTier
	err := r.q.QueryRow(ctx, query, roomID, position).Scan(&t.RoomID, &t.Position, &t.BaseReward, &t.KillBonusPerKill, &t.MaxKillBonus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reward tier %d for room %d: %w", position, roomID, err)
	}
	return &t, nil
}

func collectRooms(rows pgx.Rows) ([]*entities.Room, error) {
	defer rows.Close()

	var rooms []*entities.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}
