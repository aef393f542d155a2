package repository

import (
	"context"
	"errors"
	"fmt"

	"tourney/database"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// EnrollmentRepository implements the EnrollmentRepository interface
type EnrollmentRepository struct {
	q Queryable
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *database.DB) *EnrollmentRepository {
	return &EnrollmentRepository{q: db.Pool}
}

func newEnrollmentRepository(tx Queryable) *EnrollmentRepository {
	return &EnrollmentRepository{q: tx}
}

const enrollmentColumns = `
	id, room_id, user_id, team_id, kind, slot_count, total_entry_fee,
	payment_status, is_active, balance_history_id, enrolled_at`

func scanEnrollment(row pgx.Row) (*entities.RoomEnrollment, error) {
	var e entities.RoomEnrollment
	err := row.Scan(
		&e.ID,
		&e.RoomID,
		&e.UserID,
		&e.TeamID,
		&e.Kind,
		&e.SlotCount,
		&e.TotalEntryFee,
		&e.PaymentStatus,
		&e.IsActive,
		&e.BalanceHistoryID,
		&e.EnrolledAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts the enrollment and one active link row per gaming ID.
// The partial unique index on the link rows backs up the in-room
// duplicate check.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *entities.RoomEnrollment) error {
	query := `
		INSERT INTO room_enrollments
		(room_id, user_id, team_id, kind, slot_count, total_entry_fee, payment_status, is_active, balance_history_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, enrolled_at
	`

	err := r.q.QueryRow(ctx, query,
		enrollment.RoomID,
		enrollment.UserID,
		enrollment.TeamID,
		enrollment.Kind,
		enrollment.SlotCount,
		enrollment.TotalEntryFee,
		enrollment.PaymentStatus,
		enrollment.IsActive,
		enrollment.BalanceHistoryID,
	).Scan(&enrollment.ID, &enrollment.EnrolledAt)
	if err != nil {
		return fmt.Errorf("failed to create enrollment in room %d: %w", enrollment.RoomID, translateError(err))
	}

	linkQuery := `
		INSERT INTO room_enrollment_gaming_ids (enrollment_id, room_id, gaming_id_id, is_active)
		VALUES ($1, $2, $3, $4)
	`
	for _, gamingID := range enrollment.GamingIDs {
		if _, err := r.q.Exec(ctx, linkQuery, enrollment.ID, enrollment.RoomID, gamingID, enrollment.IsActive); err != nil {
			return fmt.Errorf("failed to link gaming ID %d to enrollment %d: %w", gamingID, enrollment.ID, translateError(err))
		}
	}
	return nil
}

// GetActiveByUser returns the user's active gaming-ID enrollment in the room
func (r *EnrollmentRepository) GetActiveByUser(ctx context.Context, roomID, userID int64) (*entities.RoomEnrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM room_enrollments
		WHERE room_id = $1 AND user_id = $2 AND is_active AND kind = 'gaming_ids'
	`

	enrollment, err := scanEnrollment(r.q.QueryRow(ctx, query, roomID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment of user %d in room %d: %w", userID, roomID, err)
	}

	ids, err := r.linkedGamingIDs(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	enrollment.GamingIDs = ids
	return enrollment, nil
}

// GetActiveByTeam returns the team's active enrollment in the room
func (r *EnrollmentRepository) GetActiveByTeam(ctx context.Context, roomID, teamID int64) (*entities.RoomEnrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM room_enrollments
		WHERE room_id = $1 AND team_id = $2 AND is_active AND kind = 'team'
	`

	enrollment, err := scanEnrollment(r.q.QueryRow(ctx, query, roomID, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment of team %d in room %d: %w", teamID, roomID, err)
	}
	return enrollment, nil
}

// CountActiveSlots recomputes the room's used slots from paid, active enrollments
func (r *EnrollmentRepository) CountActiveSlots(ctx context.Context, roomID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(slot_count), 0)
		FROM room_enrollments
		WHERE room_id = $1 AND is_active AND payment_status = 'paid'
	`

	var used int
	if err := r.q.QueryRow(ctx, query, roomID).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to count slots in room %d: %w", roomID, err)
	}
	return used, nil
}

const claimSelect = `
	SELECT l.gaming_id_id, g.gaming_platform, g.gaming_username, e.user_id, u.username
	FROM room_enrollment_gaming_ids l
	JOIN room_enrollments e ON e.id = l.enrollment_id
	JOIN gaming_ids g ON g.id = l.gaming_id_id
	JOIN users u ON u.id = e.user_id
	WHERE l.room_id = $1 AND l.is_active AND e.is_active`

// FindGamingIDClaims returns active claims in the room on any of ids
func (r *EnrollmentRepository) FindGamingIDClaims(ctx context.Context, roomID int64, ids []int64) ([]entities.GamingIDClaim, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := claimSelect + ` AND l.gaming_id_id = ANY($2) ORDER BY l.gaming_id_id`

	rows, err := r.q.Query(ctx, query, roomID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find gaming ID claims in room %d: %w", roomID, err)
	}
	return collectClaims(rows)
}

// FindHandleClaims returns active claims by other users on any of the
// (platform, username) handles
func (r *EnrollmentRepository) FindHandleClaims(ctx context.Context, roomID int64, handles []entities.GamingHandle, excludeUserID int64) ([]entities.GamingIDClaim, error) {
	if len(handles) == 0 {
		return nil, nil
	}
	platforms := make([]string, len(handles))
	usernames := make([]string, len(handles))
	for i, h := range handles {
		platforms[i] = h.Platform
		usernames[i] = h.Username
	}

	query := claimSelect + `
		AND e.user_id <> $2
		AND (g.gaming_platform, g.gaming_username) IN (
			SELECT p, n FROM unnest($3::text[], $4::text[]) AS h(p, n)
		)
		ORDER BY g.gaming_username`

	rows, err := r.q.Query(ctx, query, roomID, excludeUserID, platforms, usernames)
	if err != nil {
		return nil, fmt.Errorf("failed to find handle claims in room %d: %w", roomID, err)
	}
	return collectClaims(rows)
}

// IsGamingIDEnrolled reports whether the gaming ID holds an active claim in the room
func (r *EnrollmentRepository) IsGamingIDEnrolled(ctx context.Context, roomID, gamingIDID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM room_enrollment_gaming_ids
			WHERE room_id = $1 AND gaming_id_id = $2 AND is_active
		)
	`

	var enrolled bool
	if err := r.q.QueryRow(ctx, query, roomID, gamingIDID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("failed to check gaming ID %d in room %d: %w", gamingIDID, roomID, err)
	}
	return enrolled, nil
}

// CountActiveRooms returns how many rooms the gaming ID is actively enrolled in
func (r *EnrollmentRepository) CountActiveRooms(ctx context.Context, gamingIDID int64) (int, error) {
	query := `SELECT COUNT(*) FROM room_enrollment_gaming_ids WHERE gaming_id_id = $1 AND is_active`

	var rooms int
	if err := r.q.QueryRow(ctx, query, gamingIDID).Scan(&rooms); err != nil {
		return 0, fmt.Errorf("failed to count rooms for gaming ID %d: %w", gamingIDID, translateError(err))
	}
	return rooms, nil
}

// IsUserEnrolled reports whether the user has any active enrollment in the room
func (r *EnrollmentRepository) IsUserEnrolled(ctx context.Context, roomID, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM room_enrollments WHERE room_id = $1 AND user_id = $2 AND is_active)`

	var enrolled bool
	if err := r.q.QueryRow(ctx, query, roomID, userID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("failed to check enrollment of user %d in room %d: %w", userID, roomID, err)
	}
	return enrolled, nil
}

// ListStandings returns the room's enrolled gaming IDs with their kills and
// placements, placed winners first
func (r *EnrollmentRepository) ListStandings(ctx context.Context, roomID int64) ([]*entities.RoomStanding, error) {
	query := `
		SELECT g.id, g.user_id, u.username, g.gaming_username, g.display_name,
		       COALESCE(k.kills_count, 0), COALESCE(k.reward_earned, 0),
		       w.position, w.reward_amount
		FROM room_enrollment_gaming_ids l
		JOIN room_enrollments e ON e.id = l.enrollment_id AND e.is_active
		JOIN gaming_ids g ON g.id = l.gaming_id_id
		JOIN users u ON u.id = g.user_id
		LEFT JOIN kill_records k ON k.room_id = l.room_id AND k.gaming_id_id = l.gaming_id_id
		LEFT JOIN room_winners w ON w.room_id = l.room_id AND w.gaming_id_id = l.gaming_id_id
		WHERE l.room_id = $1 AND l.is_active
		ORDER BY w.position NULLS LAST, COALESCE(k.kills_count, 0) DESC, g.gaming_username
	`

	rows, err := r.q.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for room %d: %w", roomID, err)
	}
	defer rows.Close()

	var standings []*entities.RoomStanding
	for rows.Next() {
		var s entities.RoomStanding
		err := rows.Scan(
			&s.GamingIDID,
			&s.UserID,
			&s.OwnerUsername,
			&s.GamingUsername,
			&s.DisplayName,
			&s.KillsCount,
			&s.KillReward,
			&s.WinnerPosition,
			&s.WinnerReward,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing: %w", err)
		}
		standings = append(standings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standings: %w", err)
	}
	return standings, nil
}

func (r *EnrollmentRepository) linkedGamingIDs(ctx context.Context, enrollmentID int64) ([]int64, error) {
	query := `
		SELECT gaming_id_id FROM room_enrollment_gaming_ids
		WHERE enrollment_id = $1 AND is_active
		ORDER BY gaming_id_id
	`

	rows, err := r.q.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get gaming IDs of enrollment %d: %w", enrollmentID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan gaming IDs of enrollment %d: %w", enrollmentID, err)
	}
	return ids, nil
}

func collectClaims(rows pgx.Rows) ([]entities.GamingIDClaim, error) {
	defer rows.Close()

	var claims []entities.GamingIDClaim
	for rows.Next() {
		var c entities.GamingIDClaim
		if err := rows.Scan(&c.GamingIDID, &c.Platform, &c.Username, &c.UserID, &c.OwnerUsername); err != nil {
			return nil, fmt.Errorf("failed to scan gaming ID claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gaming ID claims: %w", err)
	}
	return claims, nil
}
