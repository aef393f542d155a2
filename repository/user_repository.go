package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourney/database"
	"tourney/domain"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepository creates a new user repository bound to a transaction
func newUserRepository(tx Queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, username, email, password_hash, balance, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Balance,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user with a zero balance
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, balance, is_admin)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id, balance, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		user.Username,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.IsAdmin,
	).Scan(&user.ID, &user.Balance, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Username, translateError(err))
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", username, err)
	}
	return user, nil
}

// AddBalance increments the balance atomically and returns the new balance
func (r *UserRepository) AddBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", id, translateError(err))
	}
	return balance, nil
}

// DeductBalance decrements the balance only when it covers amount. The
// guard and the update are one statement, so concurrent debits cannot
// overdraw the account.
func (r *UserRepository) DeductBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	query := `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return 0, getErr
		}
		if current == nil {
			return 0, domain.ErrUserNotFound
		}
		return 0, domain.ErrInsufficientFunds.WithMessage("Insufficient coins. Required: %d, available: %d", amount, current.Balance)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", id, translateError(err))
	}
	return balance, nil
}
