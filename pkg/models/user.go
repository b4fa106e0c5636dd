package models

import (
	"time"
)

// User represents an app account.
// IsAdmin is recomputed from the allow-list at every login and is never
// read back from storage as a trusted claim.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
