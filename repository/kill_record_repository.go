package repository

import (
	"context"
	"errors"
	"fmt"

	"tourney/database"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// KillRecordRepository implements the KillRecordRepository interface
type KillRecordRepository struct {
	q Queryable
}

// NewKillRecordRepository creates a new kill record repository
func NewKillRecordRepository(db *database.DB) *KillRecordRepository {
	return &KillRecordRepository{q: db.Pool}
}

func newKillRecordRepository(tx Queryable) *KillRecordRepository {
	return &KillRecordRepository{q: tx}
}

const killRecordColumns = `
	id, room_id, gaming_id_id, user_id, kills_count, reward_earned,
	reward_credited, reward_status, proof_ref, recorded_by, recorded_at`

func scanKillRecord(row pgx.Row) (*entities.KillRecord, error) {
	var k entities.KillRecord
	err := row.Scan(
		&k.ID,
		&k.RoomID,
		&k.GamingIDID,
		&k.UserID,
		&k.KillsCount,
		&k.RewardEarned,
		&k.RewardCredited,
		&k.RewardStatus,
		&k.ProofRef,
		&k.RecordedBy,
		&k.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Get returns the record for (room, gaming ID)
func (r *KillRecordRepository) Get(ctx context.Context, roomID, gamingIDID int64) (*entities.KillRecord, error) {
	query := `SELECT ` + killRecordColumns + ` FROM kill_records WHERE room_id = $1 AND gaming_id_id = $2`

	record, err := scanKillRecord(r.q.QueryRow(ctx, query, roomID, gamingIDID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kill record for gaming ID %d in room %d: %w", gamingIDID, roomID, translateError(err))
	}
	return record, nil
}

// Upsert inserts or overwrites the record for (room, gaming ID). A missing
// proof on re-submission keeps the earlier proof.
func (r *KillRecordRepository) Upsert(ctx context.Context, record *entities.KillRecord) error {
	query := `
		INSERT INTO kill_records
		(room_id, gaming_id_id, user_id, kills_count, reward_earned, reward_credited, reward_status, proof_ref, recorded_by, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (room_id, gaming_id_id) DO UPDATE SET
			kills_count = EXCLUDED.kills_count,
			reward_earned = EXCLUDED.reward_earned,
			reward_credited = EXCLUDED.reward_credited,
			reward_status = EXCLUDED.reward_status,
			proof_ref = COALESCE(EXCLUDED.proof_ref, kill_records.proof_ref),
			recorded_by = EXCLUDED.recorded_by,
			recorded_at = NOW()
		RETURNING id, proof_ref, recorded_at
	`

	err := r.q.QueryRow(ctx, query,
		record.RoomID,
		record.GamingIDID,
		record.UserID,
		record.KillsCount,
		record.RewardEarned,
		record.RewardCredited,
		record.RewardStatus,
		record.ProofRef,
		record.RecordedBy,
	).Scan(&record.ID, &record.ProofRef, &record.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to save kill record for gaming ID %d in room %d: %w", record.GamingIDID, record.RoomID, translateError(err))
	}
	return nil
}

// ListByRoom returns the room's kill records, most kills first
func (r *KillRecordRepository) ListByRoom(ctx context.Context, roomID int64) ([]*entities.KillRecord, error) {
	query := `SELECT ` + killRecordColumns + ` FROM kill_records WHERE room_id = $1 ORDER BY kills_count DESC, id`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kill records for room %d: %w", roomID, translateError(err))
	}
	defer rows.Close()

	var records []*entities.KillRecord
	for rows.Next() {
		record, err := scanKillRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kill record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kill records: %w", err)
	}
	return records, nil
}
