package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourney/domain"
	"tourney/domain/entities"
	"tourney/domain/events"
	"tourney/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 6
)

// accountService implements signup, login and wallet history
type accountService struct {
	userRepo           interfaces.UserRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	adminUsernames     map[string]bool
}

// NewAccountService creates a new account service. Usernames listed in
// adminUsernames are created with the admin flag.
func NewAccountService(
	userRepo interfaces.UserRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	adminUsernames []string,
) interfaces.AccountService {
	admins := make(map[string]bool, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return &accountService{
		userRepo:           userRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		adminUsernames:     admins,
	}
}

// Signup registers a new account with a zero balance
func (s *accountService) Signup(ctx context.Context, input interfaces.SignupInput) (*entities.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return nil, domain.ErrInvalidInput.WithMessage("Username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrInvalidInput.WithMessage("Password must be at least %d characters", minPasswordLength)
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput.WithMessage("Email address is invalid")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      s.adminUsernames[strings.ToLower(username)],
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.eventPublisher.Publish(events.UserCreatedEvent{UserID: user.ID, Username: user.Username}); err != nil {
		log.WithError(err).Error("Failed to publish user created event")
	}

	log.WithFields(log.Fields{
		"userID":   user.ID,
		"username": user.Username,
		"isAdmin":  user.IsAdmin,
	}).Info("User signed up")

	return user, nil
}

// Authenticate checks the credentials and returns the matching user
func (s *accountService) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns the user or NotFound
func (s *accountService) GetUser(ctx context.Context, userID int64) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// GetHistory returns the user's most recent ledger entries
func (s *accountService) GetHistory(ctx context.Context, userID int64, limit int) ([]*entities.BalanceHistory, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	history, err := s.balanceHistoryRepo.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}
