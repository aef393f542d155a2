package services

import (
	"context"
	"errors"
	"fmt"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/interfaces"
	"tourney/domain/utils"
)

// ledgerService mutates balances with guarded updates and writes one
// balance history entry per mutation
type ledgerService struct {
	userRepo           interfaces.UserRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	userRepo interfaces.UserRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		userRepo:           userRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// Credit adds amount to the user's balance
func (s *ledgerService) Credit(ctx context.Context, userID int64, amount int64, entry entities.LedgerEntry) (*entities.BalanceHistory, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount.WithMessage("Credit amount must be positive")
	}
	if entry.Type == "" {
		entry.Type = entities.TransactionTypeCredit
	}
	if !entry.Type.IsCredit() {
		return nil, fmt.Errorf("transaction type %s cannot credit a balance", entry.Type)
	}

	newBalance, err := s.userRepo.AddBalance(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to credit user %d: %w", userID, err)
	}

	return s.record(ctx, userID, newBalance-amount, newBalance, amount, entry)
}

// Debit removes amount from the user's balance when it is covered
func (s *ledgerService) Debit(ctx context.Context, userID int64, amount int64, entry entities.LedgerEntry) (*entities.BalanceHistory, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount.WithMessage("Debit amount must be positive")
	}
	if entry.Type == "" {
		entry.Type = entities.TransactionTypeDebit
	}
	if entry.Type.IsCredit() {
		return nil, fmt.Errorf("transaction type %s cannot debit a balance", entry.Type)
	}

	newBalance, err := s.userRepo.DeductBalance(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to debit user %d: %w", userID, err)
	}

	return s.record(ctx, userID, newBalance+amount, newBalance, -amount, entry)
}

// GetBalance returns the user's current balance
func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, domain.ErrUserNotFound
	}
	return user.Balance, nil
}

func (s *ledgerService) record(ctx context.Context, userID, before, after, change int64, entry entities.LedgerEntry) (*entities.BalanceHistory, error) {
	history := &entities.BalanceHistory{
		UserID:              userID,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        change,
		TransactionType:     entry.Type,
		Description:         entry.Description,
		TransactionMetadata: entry.Metadata,
		RelatedID:           entry.RelatedID,
		RelatedType:         entry.RelatedType,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}
	return history, nil
}
