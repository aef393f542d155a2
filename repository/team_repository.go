package repository

import (
	"context"
	"errors"
	"fmt"

	"tourney/database"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// TeamRepository implements the TeamRepository interface
type TeamRepository struct {
	q Queryable
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.DB) *TeamRepository {
	return &TeamRepository{q: db.Pool}
}

func newTeamRepository(tx Queryable) *TeamRepository {
	return &TeamRepository{q: tx}
}

const teamColumns = `id, user_id, team_name, team_email, team_size, is_active, created_at, updated_at`

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var team entities.Team
	err := row.Scan(
		&team.ID,
		&team.UserID,
		&team.Name,
		&team.Email,
		&team.TeamSize,
		&team.IsActive,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// Create inserts the team and its members
func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	query := `
		INSERT INTO teams (user_id, team_name, team_email, team_size, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		team.UserID,
		team.Name,
		team.Email,
		team.TeamSize,
		team.IsActive,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team for user %d: %w", team.UserID, err)
	}

	return r.insertMembers(ctx, team)
}

// GetByID loads the team with its members
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*entities.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := r.getMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

// GetByUser returns the user's teams with their members
func (r *TeamRepository) GetByUser(ctx context.Context, userID int64) ([]*entities.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams for user %d: %w", userID, err)
	}

	var teams []*entities.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	for _, team := range teams {
		members, err := r.getMembers(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		team.Members = members
	}
	return teams, nil
}

// Update saves the team fields and replaces the roster wholesale
func (r *TeamRepository) Update(ctx context.Context, team *entities.Team) error {
	query := `
		UPDATE teams
		SET team_name = $2, team_email = $3, team_size = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, team.ID, team.Name, team.Email, team.TeamSize).Scan(&team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, team.ID); err != nil {
		return fmt.Errorf("failed to clear members of team %d: %w", team.ID, err)
	}
	return r.insertMembers(ctx, team)
}

// SetActive activates or deactivates a team
func (r *TeamRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE teams SET is_active = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id, active); err != nil {
		return fmt.Errorf("failed to set team %d active=%t: %w", id, active, err)
	}
	return nil
}

func (r *TeamRepository) insertMembers(ctx context.Context, team *entities.Team) error {
	query := `
		INSERT INTO team_members (team_id, member_username, external_game_id, email, is_leader, position)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	for i := range team.Members {
		member := &team.Members[i]
		member.TeamID = team.ID
		err := r.q.QueryRow(ctx, query,
			team.ID,
			member.Username,
			member.ExternalGameID,
			member.Email,
			member.IsLeader,
			member.Position,
		).Scan(&member.ID)
		if err != nil {
			return fmt.Errorf("failed to add member %s to team %d: %w", member.Username, team.ID, err)
		}
	}
	return nil
}

func (r *TeamRepository) getMembers(ctx context.Context, teamID int64) ([]entities.TeamMember, error) {
	query := `
		SELECT id, team_id, member_username, external_game_id, email, is_leader, position
		FROM team_members
		WHERE team_id = $1
		ORDER BY position
	`

	rows, err := r.q.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members of team %d: %w", teamID, err)
	}
	defer rows.Close()

	var members []entities.TeamMember
	for rows.Next() {
		var m entities.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.Username, &m.ExternalGameID, &m.Email, &m.IsLeader, &m.Position); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team members: %w", err)
	}
	return members, nil
}
