package repository

import (
	"context"
	"fmt"

	"tourney/database"
	"tourney/domain/entities"
)

// BlockRepository implements the BlockRepository interface
type BlockRepository struct {
	q Queryable
}

// NewBlockRepository creates a new block list repository
func NewBlockRepository(db *database.DB) *BlockRepository {
	return &BlockRepository{q: db.Pool}
}

func newBlockRepository(tx Queryable) *BlockRepository {
	return &BlockRepository{q: tx}
}

// BlockUser adds the user to the room's block list. Returns false if the
// user was already blocked.
func (r *BlockRepository) BlockUser(ctx context.Context, block *entities.BlockedUser) (bool, error) {
	query := `
		INSERT INTO blocked_users (room_id, user_id, reason, blocked_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, user_id) DO NOTHING
		RETURNING id, created_at
	`

	rows, err := r.q.Query(ctx, query, block.RoomID, block.UserID, block.Reason, block.BlockedBy)
	if err != nil {
		return false, fmt.Errorf("failed to block user %d in room %d: %w", block.UserID, block.RoomID, err)
	}
	defer rows.Close()

	inserted := false
	for rows.Next() {
		if err := rows.Scan(&block.ID, &block.CreatedAt); err != nil {
			return false, fmt.Errorf("failed to scan blocked user: %w", err)
		}
		inserted = true
	}
	return inserted, rows.Err()
}

// UnblockUser removes the user from the block list. Returns false if the
// user was not blocked.
func (r *BlockRepository) UnblockUser(ctx context.Context, roomID, userID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM blocked_users WHERE room_id = $1 AND user_id = $2`, roomID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to unblock user %d in room %d: %w", userID, roomID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// IsUserBlocked reports whether the user is on the room's block list
func (r *BlockRepository) IsUserBlocked(ctx context.Context, roomID, userID int64) (bool, error) {
	var blocked bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_users WHERE room_id = $1 AND user_id = $2)`,
		roomID, userID,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to check block for user %d in room %d: %w", userID, roomID, err)
	}
	return blocked, nil
}

// BlockTeam adds the team to the room's block list
func (r *BlockRepository) BlockTeam(ctx context.Context, block *entities.BlockedTeam) (bool, error) {
	query := `
		INSERT INTO blocked_teams (room_id, team_id, reason, blocked_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (room_id, team_id) DO NOTHING
		RETURNING id, created_at
	`

	rows, err := r.q.Query(ctx, query, block.RoomID, block.TeamID, block.Reason, block.BlockedBy)
	if err != nil {
		return false, fmt.Errorf("failed to block team %d in room %d: %w", block.TeamID, block.RoomID, err)
	}
	defer rows.Close()

	inserted := false
	for rows.Next() {
		if err := rows.Scan(&block.ID, &block.CreatedAt); err != nil {
			return false, fmt.Errorf("failed to scan blocked team: %w", err)
		}
		inserted = true
	}
	return inserted, rows.Err()
}

// UnblockTeam removes the team from the block list
func (r *BlockRepository) UnblockTeam(ctx context.Context, roomID, teamID int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM blocked_teams WHERE room_id = $1 AND team_id = $2`, roomID, teamID)
	if err != nil {
		return false, fmt.Errorf("failed to unblock team %d in room %d: %w", teamID, roomID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// IsTeamBlocked reports whether the team is on the room's block list
func (r *BlockRepository) IsTeamBlocked(ctx context.Context, roomID, teamID int64) (bool, error) {
	var blocked bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_teams WHERE room_id = $1 AND team_id = $2)`,
		roomID, teamID,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to check block for team %d in room %d: %w", teamID, roomID, err)
	}
	return blocked, nil
}

// ListBlockedUsers returns the room's blocked users with their usernames
func (r *BlockRepository) ListBlockedUsers(ctx context.Context, roomID int64) ([]*entities.BlockedUser, error) {
	query := `
		SELECT b.id, b.room_id, b.user_id, u.username, b.reason, b.blocked_by, b.created_at
		FROM blocked_users b
		JOIN users u ON u.id = b.user_id
		WHERE b.room_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked users for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var blocks []*entities.BlockedUser
	for rows.Next() {
		var b entities.BlockedUser
		if err := rows.Scan(&b.ID, &b.RoomID, &b.UserID, &b.Username, &b.Reason, &b.BlockedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blocked user: %w", err)
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked users: %w", err)
	}
	return blocks, nil
}

// ListBlockedTeams returns the room's blocked teams
func (r *BlockRepository) ListBlockedTeams(ctx context.Context, roomID int64) ([]*entities.BlockedTeam, error) {
	query := `
		SELECT id, room_id, team_id, reason, blocked_by, created_at
		FROM blocked_teams
		WHERE room_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked teams for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var blocks []*entities.BlockedTeam
	for rows.Next() {
		var b entities.BlockedTeam
		if err := rows.Scan(&b.ID, &b.RoomID, &b.TeamID, &b.Reason, &b.BlockedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blocked team: %w", err)
		}
		blocks = append(blocks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocked teams: %w", err)
	}
	return blocks, nil
}
