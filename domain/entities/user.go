package entities

import (
	"time"
)

// User is a registered account holding a coin balance
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Balance      int64     `db:"balance"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// HasSufficientBalance checks if the user can cover amount
func (u *User) HasSufficientBalance(amount int64) bool {
	return u.Balance >= amount
}

// Actor returns the actor context for this user
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}
