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

// WinnerRepository implements the WinnerRepository interface
type WinnerRepository struct {
	q Queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(db *database.DB) *WinnerRepository {
	return &WinnerRepository{q: db.Pool}
}

func newWinnerRepository(tx Queryable) *WinnerRepository {
	return &WinnerRepository{q: tx}
}

const winnerColumns = `
	id, room_id, position, gaming_id_id, user_id, kills_count, performance_score,
	reward_amount, reward_distributed, distributed_at, selected_by, selected_at, notes`

func scanWinner(row pgx.Row) (*entities.Winner, error) {
	var w entities.Winner
	err := row.Scan(
		&w.ID,
		&w.RoomID,
		&w.Position,
		&w.GamingIDID,
		&w.UserID,
		&w.KillsCount,
		&w.PerformanceScore,
		&w.RewardAmount,
		&w.RewardDistributed,
		&w.DistributedAt,
		&w.SelectedBy,
		&w.SelectedAt,
		&w.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByPositionForUpdate returns the locked winner for (room, position)
func (r *WinnerRepository) GetByPositionForUpdate(ctx context.Context, roomID int64, position int) (*entities.Winner, error) {
	query := `SELECT ` + winnerColumns + ` FROM room_winners WHERE room_id = $1 AND position = $2 FOR UPDATE`

	w, err := scanWinner(r.q.QueryRow(ctx, query, roomID, position))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner %d of room %d: %w", position, roomID, translateError(err))
	}
	return w, nil
}

// GetByIDForUpdate returns the locked winner row
func (r *WinnerRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Winner, error) {
	query := `SELECT ` + winnerColumns + ` FROM room_winners WHERE id = $1 FOR UPDATE`

	w, err := scanWinner(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner %d: %w", id, translateError(err))
	}
	return w, nil
}

// Upsert inserts or overwrites the winner for (room, position). An
// overwrite resets the distribution flag; callers refuse to overwrite a
// distributed winner.
func (r *WinnerRepository) Upsert(ctx context.Context, winner *entities.Winner) error {
	query := `
		INSERT INTO room_winners
		(room_id, position, gaming_id_id, user_id, kills_count, performance_score, reward_amount, selected_by, selected_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)
		ON CONFLICT (room_id, position) DO UPDATE SET
			gaming_id_id = EXCLUDED.gaming_id_id,
			user_id = EXCLUDED.user_id,
			kills_count = EXCLUDED.kills_count,
			performance_score = EXCLUDED.performance_score,
			reward_amount = EXCLUDED.reward_amount,
			reward_distributed = FALSE,
			distributed_at = NULL,
			selected_by = EXCLUDED.selected_by,
			selected_at = NOW(),
			notes = EXCLUDED.notes
		RETURNING id, reward_distributed, distributed_at, selected_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.RoomID,
		winner.Position,
		winner.GamingIDID,
		winner.UserID,
		winner.KillsCount,
		winner.PerformanceScore,
		winner.RewardAmount,
		winner.SelectedBy,
		winner.Notes,
	).Scan(&winner.ID, &winner.RewardDistributed, &winner.DistributedAt, &winner.SelectedAt)
	if err != nil {
		return fmt.Errorf("failed to save winner %d of room %d: %w", winner.Position, winner.RoomID, translateError(err))
	}
	return nil
}

// ListByRoom returns the room's winners by position
func (r *WinnerRepository) ListByRoom(ctx context.Context, roomID int64) ([]*entities.Winner, error) {
	query := `SELECT ` + winnerColumns + ` FROM room_winners WHERE room_id = $1 ORDER BY position`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners of room %d: %w", roomID, err)
	}
	defer rows.Close()

	var winners []*entities.Winner
	for rows.Next() {
		w, err := scanWinner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating winners: %w", err)
	}
	return winners, nil
}

// ListUndistributedIDs returns winners that still have a positive reward to receive
func (r *WinnerRepository) ListUndistributedIDs(ctx context.Context, roomID int64) ([]int64, error) {
	query := `
		SELECT id FROM room_winners
		WHERE room_id = $1 AND NOT reward_distributed AND reward_amount > 0
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list undistributed winners of room %d: %w", roomID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan undistributed winners: %w", err)
	}
	return ids, nil
}

// MarkDistributed flags the winner as paid. Returns false when it already was.
func (r *WinnerRepository) MarkDistributed(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := `
		UPDATE room_winners
		SET reward_distributed = TRUE, distributed_at = $2
		WHERE id = $1 AND NOT reward_distributed
	`

	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark winner %d distributed: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordHistory appends an audit entry
func (r *WinnerRepository) RecordHistory(ctx context.Context, entry *entities.WinnerSelectionHistory) error {
	query := `
		INSERT INTO winner_selection_history
		(room_id, action_type, gaming_id_id, position, reward_amount, admin_user_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.RoomID,
		entry.ActionType,
		entry.GamingIDID,
		entry.Position,
		entry.RewardAmount,
		entry.AdminUserID,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record winner history for room %d: %w", entry.RoomID, err)
	}
	return nil
}

// GetHistory returns the room's winner audit log, newest first
func (r *WinnerRepository) GetHistory(ctx context.Context, roomID int64) ([]*entities.WinnerSelectionHistory, error) {
	query := `
		SELECT id, room_id, action_type, gaming_id_id, position, reward_amount, admin_user_id, details, created_at
		FROM winner_selection_history
		WHERE room_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner history for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var entries []*entities.WinnerSelectionHistory
	for rows.Next() {
		var h entities.WinnerSelectionHistory
		err := rows.Scan(&h.ID, &h.RoomID, &h.ActionType, &h.GamingIDID, &h.Position, &h.RewardAmount, &h.AdminUserID, &h.Details, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner history: %w", err)
		}
		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating winner history: %w", err)
	}
	return entries, nil
}
