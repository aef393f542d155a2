package repository

import (
	"errors"
	"fmt"
	"testing"

	"tourney/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		wantIs   error
		wantKind domain.Kind
	}{
		{
			name:     "lock timeout",
			err:      &pgconn.PgError{Code: "55P03"},
			wantIs:   domain.ErrLockTimeout,
			wantKind: domain.KindRetryable,
		},
		{
			name:     "serialization failure",
			err:      fmt.Errorf("query: %w", &pgconn.PgError{Code: "40001"}),
			wantIs:   domain.ErrLockTimeout,
			wantKind: domain.KindRetryable,
		},
		{
			name:     "deadlock",
			err:      &pgconn.PgError{Code: "40P01"},
			wantIs:   domain.ErrLockTimeout,
			wantKind: domain.KindRetryable,
		},
		{
			name:     "gaming id link",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "room_enrollment_gaming_ids_active_key"},
			wantIs:   domain.ErrGamingIDAlreadyEnrolled,
			wantKind: domain.KindConflict,
		},
		{
			name:     "duplicate handle for user",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "gaming_ids_user_platform_username_key"},
			wantIs:   domain.ErrDuplicateGamingID,
			wantKind: domain.KindConflict,
		},
		{
			name:     "unknown unique constraint",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "something_else"},
			wantKind: domain.KindStorageUnavailable,
		},
		{
			name:     "not a postgres error",
			err:      plain,
			wantIs:   plain,
			wantKind: domain.KindStorageUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := translateError(tt.err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, got, tt.wantIs)
			}
			assert.Equal(t, tt.wantKind, domain.KindOf(got))
		})
	}
}
