package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide how to surface it
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindConflict              Kind = "conflict"
	KindInvalidInput          Kind = "invalid_input"
	KindInsufficientResources Kind = "insufficient_resources"
	KindForbidden             Kind = "forbidden"
	KindAlreadyProcessed      Kind = "already_processed"
	KindRetryable             Kind = "retryable"
	KindStorageUnavailable    Kind = "storage_unavailable"
)

// Error is a domain failure with a stable code and a user-facing message.
// Two errors match under errors.Is when their codes are equal, so detailed
// copies produced by WithMessage still match the sentinel they came from.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of the error with a more specific message
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

// Wrap returns a copy of the error carrying cause
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: cause}
}

// KindOf classifies err. Errors that are not domain errors come from the
// store or the network and are reported as StorageUnavailable.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorageUnavailable
}

// MessageOf returns the user-facing message for err
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ErrStorageUnavailable.Message
}

// CodeOf returns the stable code for err
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrStorageUnavailable.Code
}

// Not found
var (
	ErrUserNotFound       = newError(KindNotFound, "user_not_found", "User not found")
	ErrRoomNotFound       = newError(KindNotFound, "room_not_found", "Room not found")
	ErrTeamNotFound       = newError(KindNotFound, "team_not_found", "Team not found")
	ErrGamingIDNotFound   = newError(KindNotFound, "gaming_id_not_found", "Gaming ID not found")
	ErrRewardTierNotFound = newError(KindNotFound, "reward_tier_not_found", "Reward settings not found for this position")
	ErrPaymentNotFound    = newError(KindNotFound, "payment_request_not_found", "Payment request not found")
	ErrWinnerNotFound     = newError(KindNotFound, "winner_not_found", "Winner not found")
	ErrGamingIDNotInRoom  = newError(KindNotFound, "gaming_id_not_enrolled", "Gaming ID is not enrolled in this room")
)

// Conflict
var (
	ErrAlreadyEnrolled          = newError(KindConflict, "already_enrolled", "You are already enrolled in this room")
	ErrDuplicateGamingID        = newError(KindConflict, "duplicate_gaming_id", "Gaming username already exists in your account")
	ErrGamingIDAlreadyEnrolled  = newError(KindConflict, "gaming_id_already_enrolled", "Gaming ID already enrolled in this room")
	ErrGamingUsernameConflict   = newError(KindConflict, "gaming_username_conflict", "Gaming username is already used by another user in this room")
	ErrWinnerAlreadyDistributed = newError(KindConflict, "winner_already_distributed", "Reward for this position was already distributed")
	ErrWinnerDuplicateGamingID  = newError(KindConflict, "winner_duplicate_gaming_id", "Gaming ID already holds another position in this room")
	ErrUsernameTaken            = newError(KindConflict, "username_taken", "Username or email already registered")
	ErrGamingIDInUse            = newError(KindConflict, "gaming_id_in_use", "Gaming ID is enrolled in an active room")
)

// Invalid input
var (
	ErrInvalidRoomConfig  = newError(KindInvalidInput, "invalid_room_config", "Invalid room configuration")
	ErrTeamSizeOutOfRange = newError(KindInvalidInput, "team_size_out_of_range", "Selected count is outside the room's team size limits")
	ErrInvalidAmount      = newError(KindInvalidInput, "invalid_amount", "Invalid amount")
	ErrInvalidInput       = newError(KindInvalidInput, "invalid_input", "Invalid input")
	ErrInvalidProof       = newError(KindInvalidInput, "invalid_proof", "Proof must be a png, jpg, jpeg or gif image")
	ErrInvalidPosition    = newError(KindInvalidInput, "invalid_position", "Position must be 1, 2 or 3")
)

// Insufficient resources
var (
	ErrInsufficientFunds = newError(KindInsufficientResources, "insufficient_funds", "Insufficient coins")
	ErrRoomFull          = newError(KindInsufficientResources, "room_full", "Room is full")
	ErrInsufficientSlots = newError(KindInsufficientResources, "insufficient_slots", "Not enough slots available")
)

// Forbidden
var (
	ErrRoomDisabled       = newError(KindForbidden, "room_disabled", "This room is currently disabled by admin")
	ErrActorBlocked       = newError(KindForbidden, "actor_blocked", "You have been blocked from joining this room")
	ErrNotOwner           = newError(KindForbidden, "not_owner", "Not found or access denied")
	ErrNotAdmin           = newError(KindForbidden, "not_admin", "Admin access required")
	ErrInactive           = newError(KindForbidden, "inactive", "Inactive records cannot be used")
	ErrInvalidCredentials = newError(KindForbidden, "invalid_credentials", "Invalid username or password")
)

// Processing state
var (
	ErrAlreadyProcessed = newError(KindAlreadyProcessed, "already_processed", "Request has already been processed")
)

// Store
var (
	ErrLockTimeout        = newError(KindRetryable, "lock_timeout", "The room is busy, please retry")
	ErrStorageUnavailable = newError(KindStorageUnavailable, "storage_unavailable", "Storage is unavailable, please try again later")
)
