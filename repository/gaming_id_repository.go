package repository

import (
	"context"
	"errors"
	"fmt"

	"tourney/database"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GamingIDRepository implements the GamingIDRepository interface
type GamingIDRepository struct {
	q Queryable
}

// NewGamingIDRepository creates a new gaming ID repository
func NewGamingIDRepository(db *database.DB) *GamingIDRepository {
	return &GamingIDRepository{q: db.Pool}
}

func newGamingIDRepository(tx Queryable) *GamingIDRepository {
	return &GamingIDRepository{q: tx}
}

const gamingIDColumns = `id, user_id, gaming_platform, gaming_username, display_name, is_primary, is_active, created_at, updated_at`

func scanGamingID(row pgx.Row) (*entities.GamingID, error) {
	var g entities.GamingID
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Platform,
		&g.Username,
		&g.DisplayName,
		&g.IsPrimary,
		&g.IsActive,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func collectGamingIDs(rows pgx.Rows) ([]*entities.GamingID, error) {
	defer rows.Close()

	var ids []*entities.GamingID
	for rows.Next() {
		g, err := scanGamingID(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gaming ID: %w", err)
		}
		ids = append(ids, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gaming IDs: %w", err)
	}
	return ids, nil
}

// Create inserts the gaming ID together with its zeroed stats row
func (r *GamingIDRepository) Create(ctx context.Context, gamingID *entities.GamingID) error {
	query := `
		INSERT INTO gaming_ids (user_id, gaming_platform, gaming_username, display_name, is_primary, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		gamingID.UserID,
		gamingID.Platform,
		gamingID.Username,
		gamingID.DisplayName,
		gamingID.IsPrimary,
		gamingID.IsActive,
	).Scan(&gamingID.ID, &gamingID.CreatedAt, &gamingID.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gaming ID for user %d: %w", gamingID.UserID, translateError(err))
	}

	if _, err := r.q.Exec(ctx, `INSERT INTO gaming_id_stats (gaming_id_id) VALUES ($1)`, gamingID.ID); err != nil {
		return fmt.Errorf("failed to create stats for gaming ID %d: %w", gamingID.ID, err)
	}
	return nil
}

// GetByID retrieves a gaming ID by ID
func (r *GamingIDRepository) GetByID(ctx context.Context, id int64) (*entities.GamingID, error) {
	query := `SELECT ` + gamingIDColumns + ` FROM gaming_ids WHERE id = $1`

	g, err := scanGamingID(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gaming ID %d: %w", id, err)
	}
	return g, nil
}

// GetByIDs retrieves the gaming IDs with the given ids
func (r *GamingIDRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entities.GamingID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + gamingIDColumns + ` FROM gaming_ids WHERE id = ANY($1) ORDER BY id`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get gaming IDs: %w", err)
	}
	return collectGamingIDs(rows)
}

// GetByUser returns a user's gaming IDs, primary first
func (r *GamingIDRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.GamingID, error) {
	query := `
		SELECT ` + gamingIDColumns + `
		FROM gaming_ids
		WHERE user_id = $1
		ORDER BY is_primary DESC, created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gaming IDs for user %d: %w", userID, err)
	}
	return collectGamingIDs(rows)
}

// ExistsForUser reports whether the user registered the handle on another gaming ID
func (r *GamingIDRepository) ExistsForUser(ctx context.Context, userID int64, platform, username string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM gaming_ids
			WHERE user_id = $1 AND gaming_platform = $2 AND gaming_username = $3 AND id <> $4
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, userID, platform, username, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check gaming ID for user %d: %w", userID, err)
	}
	return exists, nil
}

// Update saves the editable fields of a gaming ID
func (r *GamingIDRepository) Update(ctx context.Context, gamingID *entities.GamingID) error {
	query := `
		UPDATE gaming_ids
		SET gaming_platform = $2, gaming_username = $3, display_name = $4,
		    is_primary = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		gamingID.ID,
		gamingID.Platform,
		gamingID.Username,
		gamingID.DisplayName,
		gamingID.IsPrimary,
		gamingID.IsActive,
	).Scan(&gamingID.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update gaming ID %d: %w", gamingID.ID, translateError(err))
	}
	return nil
}

// ClearPrimary unsets is_primary on the user's gaming IDs other than exceptID
func (r *GamingIDRepository) ClearPrimary(ctx context.Context, userID int64, exceptID int64) error {
	query := `
		UPDATE gaming_ids
		SET is_primary = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND id <> $2 AND is_primary
	`

	if _, err := r.q.Exec(ctx, query, userID, exceptID); err != nil {
		return fmt.Errorf("failed to clear primary gaming ID for user %d: %w", userID, err)
	}
	return nil
}

// IncrementRoomsJoined bumps total_rooms_joined for each id
func (r *GamingIDRepository) IncrementRoomsJoined(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE gaming_id_stats
		SET total_rooms_joined = total_rooms_joined + 1, updated_at = NOW()
		WHERE gaming_id_id = ANY($1)
	`

	if _, err := r.q.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to increment rooms joined: %w", err)
	}
	return nil
}

// AddKillStats accumulates kills and rewards. kills may be negative when
// a kill count is corrected downwards.
func (r *GamingIDRepository) AddKillStats(ctx context.Context, id int64, kills int64, rewards int64) error {
	query := `
		UPDATE gaming_id_stats
		SET total_kills = GREATEST(total_kills + $2, 0),
		    total_rewards_earned = total_rewards_earned + $3,
		    updated_at = NOW()
		WHERE gaming_id_id = $1
	`

	if _, err := r.q.Exec(ctx, query, id, kills, rewards); err != nil {
		return fmt.Errorf("failed to update kill stats for gaming ID %d: %w", id, err)
	}
	return nil
}

// GetStats returns the activity totals of a gaming ID
func (r *GamingIDRepository) GetStats(ctx context.Context, id int64) (*entities.GamingIDStats, error) {
	query := `
		SELECT gaming_id_id, total_rooms_joined, total_kills, total_rewards_earned, updated_at
		FROM gaming_id_stats
		WHERE gaming_id_id = $1
	`

	var stats entities.GamingIDStats
	err := r.q.QueryRow(ctx, query, id).Scan(
		&stats.GamingIDID,
		&stats.TotalRoomsJoined,
		&stats.TotalKills,
		&stats.TotalRewardsEarned,
		&stats.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for gaming ID %d: %w", id, err)
	}
	return &stats, nil
}
