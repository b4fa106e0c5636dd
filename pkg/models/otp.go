package models

import (
	"time"
)

// OTPRecord is the live one-time password for an email address.
// At most one record exists per email; a new send overwrites the old one.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
}

// Expired reports whether the record is past its deadline at the given instant
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
