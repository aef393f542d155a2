package repository

import (
	"context"
	"errors"
	"fmt"

	"tourney/database"
	"tourney/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PaymentRequestRepository implements the PaymentRequestRepository interface
type PaymentRequestRepository struct {
	q Queryable
}

// NewPaymentRequestRepository creates a new payment request repository
func NewPaymentRequestRepository(db *database.DB) *PaymentRequestRepository {
	return &PaymentRequestRepository{q: db.Pool}
}

func newPaymentRequestRepository(tx Queryable) *PaymentRequestRepository {
	return &PaymentRequestRepository{q: tx}
}

const paymentRequestColumns = `
	id, user_id, kind, amount, status, proof_ref, payout_handle, admin_proof_ref,
	note, balance_history_id, processed_by, processed_at, created_at`

func scanPaymentRequest(row pgx.Row) (*entities.PaymentRequest, error) {
	var p entities.PaymentRequest
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Kind,
		&p.Amount,
		&p.Status,
		&p.ProofRef,
		&p.PayoutHandle,
		&p.AdminProofRef,
		&p.Note,
		&p.BalanceHistoryID,
		&p.ProcessedBy,
		&p.ProcessedAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new pending request
func (r *PaymentRequestRepository) Create(ctx context.Context, request *entities.PaymentRequest) error {
	query := `
		INSERT INTO payment_requests (user_id, kind, amount, status, proof_ref, payout_handle, note, balance_history_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		request.UserID,
		request.Kind,
		request.Amount,
		request.Status,
		request.ProofRef,
		request.PayoutHandle,
		request.Note,
		request.BalanceHistoryID,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s request for user %d: %w", request.Kind, request.UserID, err)
	}
	return nil
}

// GetByIDForUpdate returns the locked request
func (r *PaymentRequestRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.PaymentRequest, error) {
	query := `SELECT ` + paymentRequestColumns + ` FROM payment_requests WHERE id = $1 FOR UPDATE`

	request, err := scanPaymentRequest(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request %d: %w", id, translateError(err))
	}
	return request, nil
}

// Finalize moves a pending request to its terminal status. The status guard
// makes a second approval or rejection a no-op that reports false.
func (r *PaymentRequestRepository) Finalize(ctx context.Context, request *entities.PaymentRequest) (bool, error) {
	query := `
		UPDATE payment_requests
		SET status = $2, admin_proof_ref = $3, note = $4, balance_history_id = COALESCE($5, balance_history_id),
		    processed_by = $6, processed_at = $7
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.q.Exec(ctx, query,
		request.ID,
		request.Status,
		request.AdminProofRef,
		request.Note,
		request.BalanceHistoryID,
		request.ProcessedBy,
		request.ProcessedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to finalize payment request %d: %w", request.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPending returns pending requests of kind, oldest first. An empty
// kind lists both kinds.
func (r *PaymentRequestRepository) ListPending(ctx context.Context, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error) {
	query := `
		SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE status = 'pending' AND ($1::text = '' OR kind = $1::text)
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending %s requests: %w", kind, err)
	}
	return collectPaymentRequests(rows)
}

// ListByUser returns the user's requests, newest first
func (r *PaymentRequestRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.PaymentRequest, error) {
	query := `
		SELECT ` + paymentRequestColumns + `
		FROM payment_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests for user %d: %w", userID, err)
	}
	return collectPaymentRequests(rows)
}

func collectPaymentRequests(rows pgx.Rows) ([]*entities.PaymentRequest, error) {
	defer rows.Close()

	var requests []*entities.PaymentRequest
	for rows.Next() {
		request, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment requests: %w", err)
	}
	return requests, nil
}
