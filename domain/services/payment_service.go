package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/events"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// paymentService implements the top-up and withdrawal request flow
type paymentService struct {
	paymentRepo    interfaces.PaymentRequestRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewPaymentService creates a new payment request service
func NewPaymentService(
	paymentRepo interfaces.PaymentRequestRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
	}
}

// RequestTopUp files a top-up. Nothing is credited until an admin approves.
func (s *paymentService) RequestTopUp(ctx context.Context, actor entities.Actor, amount int64, proofRef string) (*entities.PaymentRequest, error) {
	if amount < entities.MinTopUpAmount {
		return nil, domain.ErrInvalidAmount.WithMessage("Minimum top-up amount is %d coins", entities.MinTopUpAmount)
	}
	if strings.TrimSpace(proofRef) == "" {
		return nil, domain.ErrInvalidProof.WithMessage("Payment screenshot is required")
	}

	request := &entities.PaymentRequest{
		UserID:   actor.UserID,
		Kind:     entities.PaymentRequestKindTopUp,
		Amount:   amount,
		Status:   entities.PaymentRequestStatusPending,
		ProofRef: &proofRef,
	}
	if err := s.paymentRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create top-up request: %w", err)
	}

	s.publishCreated(request)
	return request, nil
}

// RequestWithdrawal debits the amount immediately and files a withdrawal.
// The amount is refunded if the request is rejected.
func (s *paymentService) RequestWithdrawal(ctx context.Context, actor entities.Actor, amount int64, payoutHandle string) (*entities.PaymentRequest, error) {
	if amount < entities.MinWithdrawalAmount {
		return nil, domain.ErrInvalidAmount.WithMessage("Minimum withdrawal amount is %d coins", entities.MinWithdrawalAmount)
	}

	history, err := s.ledger.Debit(ctx, actor.UserID, amount, entities.LedgerEntry{
		Type:        entities.TransactionTypeDebit,
		Description: "Withdrawal request",
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return nil, domain.ErrInsufficientFunds.WithMessage("Insufficient coins for a withdrawal of %d", amount)
		}
		return nil, err
	}

	request := &entities.PaymentRequest{
		UserID:           actor.UserID,
		Kind:             entities.PaymentRequestKindWithdrawal,
		Amount:           amount,
		Status:           entities.PaymentRequestStatusPending,
		BalanceHistoryID: &history.ID,
	}
	if handle := strings.TrimSpace(payoutHandle); handle != "" {
		request.PayoutHandle = &handle
	}
	if err := s.paymentRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	s.publishCreated(request)
	return request, nil
}

// Approve finalizes a pending request. Top-ups are credited; withdrawals
// were debited at request time and need the admin's payout screenshot.
func (s *paymentService) Approve(ctx context.Context, actor entities.Actor, requestID int64, adminProofRef string) (*entities.PaymentRequest, error) {
	request, err := s.pendingRequest(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if request.Kind == entities.PaymentRequestKindWithdrawal {
		if strings.TrimSpace(adminProofRef) == "" {
			return nil, domain.ErrInvalidProof.WithMessage("Payout screenshot is required to approve a withdrawal")
		}
		request.AdminProofRef = &adminProofRef
	}

	if err := s.finalize(ctx, actor, request, entities.PaymentRequestStatusApproved); err != nil {
		return nil, err
	}

	if request.Kind == entities.PaymentRequestKindTopUp {
		entry := entities.LedgerEntry{
			Type:        entities.TransactionTypeCredit,
			Description: fmt.Sprintf("Top-up approved - ID: %d", request.ID),
		}
		if _, err := s.ledger.Credit(ctx, request.UserID, request.Amount, entry.RelatedTo(entities.RelatedTypePaymentRequest, request.ID)); err != nil {
			return nil, err
		}
	}

	s.publishProcessed(request)
	return request, nil
}

// Reject finalizes a pending request. A rejected withdrawal is refunded in full.
func (s *paymentService) Reject(ctx context.Context, actor entities.Actor, requestID int64, note string) (*entities.PaymentRequest, error) {
	request, err := s.pendingRequest(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	request.Note = strings.TrimSpace(note)

	if err := s.finalize(ctx, actor, request, entities.PaymentRequestStatusRejected); err != nil {
		return nil, err
	}

	if request.Kind == entities.PaymentRequestKindWithdrawal {
		entry := entities.LedgerEntry{
			Type:        entities.TransactionTypeCredit,
			Description: fmt.Sprintf("Withdrawal rejection refund - ID: %d", request.ID),
		}
		if _, err := s.ledger.Credit(ctx, request.UserID, request.Amount, entry.RelatedTo(entities.RelatedTypePaymentRequest, request.ID)); err != nil {
			return nil, err
		}
	}

	s.publishProcessed(request)
	return request, nil
}

// ListPending returns pending requests of kind for admin review
func (s *paymentService) ListPending(ctx context.Context, actor entities.Actor, kind entities.PaymentRequestKind) ([]*entities.PaymentRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	requests, err := s.paymentRepo.ListPending(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requests, nil
}

// ListByUser returns the actor's own requests, newest first
func (s *paymentService) ListByUser(ctx context.Context, actor entities.Actor, limit int) ([]*entities.PaymentRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	requests, err := s.paymentRepo.ListByUser(ctx, actor.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *paymentService) pendingRequest(ctx context.Context, actor entities.Actor, requestID int64) (*entities.PaymentRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	request, err := s.paymentRepo.GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment request: %w", err)
	}
	if request == nil {
		return nil, domain.ErrPaymentNotFound
	}
	if !request.IsPending() {
		return nil, domain.ErrAlreadyProcessed.WithMessage("Request has already been %s", request.Status)
	}
	return request, nil
}

func (s *paymentService) finalize(ctx context.Context, actor entities.Actor, request *entities.PaymentRequest, status entities.PaymentRequestStatus) error {
	now := time.Now()
	processedBy := actor.UserID
	request.Status = status
	request.ProcessedAt = &now
	request.ProcessedBy = &processedBy

	updated, err := s.paymentRepo.Finalize(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to update payment request: %w", err)
	}
	if !updated {
		return domain.ErrAlreadyProcessed
	}

	log.WithFields(log.Fields{
		"requestID": request.ID,
		"userID":    request.UserID,
		"kind":      request.Kind,
		"amount":    request.Amount,
		"status":    status,
		"adminID":   actor.UserID,
	}).Info("Payment request processed")
	return nil
}

func (s *paymentService) publishCreated(request *entities.PaymentRequest) {
	if err := s.eventPublisher.Publish(events.PaymentRequestCreatedEvent{
		RequestID: request.ID,
		UserID:    request.UserID,
		Kind:      request.Kind,
		Amount:    request.Amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish payment request created event")
	}
}

func (s *paymentService) publishProcessed(request *entities.PaymentRequest) {
	var processedBy int64
	if request.ProcessedBy != nil {
		processedBy = *request.ProcessedBy
	}
	if err := s.eventPublisher.Publish(events.PaymentRequestProcessedEvent{
		RequestID:   request.ID,
		UserID:      request.UserID,
		Kind:        request.Kind,
		Amount:      request.Amount,
		Status:      request.Status,
		ProcessedBy: processedBy,
	}); err != nil {
		log.WithError(err).Error("Failed to publish payment request processed event")
	}
}
