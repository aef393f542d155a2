package repository

import (
	"errors"

	"tourney/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate
const (
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// uniqueViolations maps unique constraint and index names to domain errors
var uniqueViolations = map[string]*domain.Error{
	"users_username_key":                    domain.ErrUsernameTaken,
	"users_email_key":                       domain.ErrUsernameTaken,
	"gaming_ids_user_platform_username_key": domain.ErrDuplicateGamingID,
	"room_enrollment_gaming_ids_active_key": domain.ErrGamingIDAlreadyEnrolled,
	"room_enrollments_active_user_key":      domain.ErrAlreadyEnrolled,
	"room_enrollments_active_team_key":      domain.ErrAlreadyEnrolled,
	"room_winners_room_gaming_id_key":       domain.ErrWinnerDuplicateGamingID,
}

// translateError converts driver errors with a domain meaning into domain
// errors. Anything else is returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected:
		return domain.ErrLockTimeout.Wrap(err)
	case pgUniqueViolation:
		if de, ok := uniqueViolations[pgErr.ConstraintName]; ok {
			return de.Wrap(err)
		}
	}
	return err
}
