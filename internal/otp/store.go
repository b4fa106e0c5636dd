package otp

import (
	"context"
	"time"

	"github.com/apaaranddhruv/satsang/pkg/models"
)

// Store persists the live OTP record per email. Implementations must be
// safe for concurrent use. Put overwrites any existing record for the
// same email, which is how a re-send invalidates the old code.
type Store interface {
	// Get returns the record for an email, or nil if none exists
	Get(ctx context.Context, email string) (*models.OTPRecord, error)

	// Put stores the record, replacing any prior one. The ttl lets
	// TTL-capable backends expire the record on their own.
	Put(ctx context.Context, rec *models.OTPRecord, ttl time.Duration) error

	// Delete removes the record for an email, if any
	Delete(ctx context.Context, email string) error

	// All returns every stored record, expired ones included
	All(ctx context.Context) ([]*models.OTPRecord, error)
}
