package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/mailer"
	"github.com/apaaranddhruv/satsang/internal/metrics"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

var (
	// ErrNoCode indicates no code was ever issued, or the prior code
	// was consumed or purged
	ErrNoCode = errors.New("no code issued for this email")

	// ErrCodeExpired indicates the code's deadline has passed; the
	// record is purged when this is returned
	ErrCodeExpired = errors.New("code has expired")

	// ErrCodeMismatch indicates the candidate does not match; the
	// record remains and the caller may retry
	ErrCodeMismatch = errors.New("code does not match")
)

const codeLength = 6

// Service gates email-ownership checks with short-lived numeric codes.
// One live record per email: sending again overwrites the old code.
type Service struct {
	store  Store
	sender mailer.Sender
	log    *logging.Logger
	ttl    time.Duration

	// now is swappable for deadline tests
	now func() time.Time
}

// NewService creates the OTP service
func NewService(store Store, sender mailer.Sender, log *logging.Logger, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}

	return &Service{
		store:  store,
		sender: sender,
		log:    log,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Send issues a fresh code for the email, overwriting any prior record,
// and dispatches it by mail. A mail delivery failure does not invalidate
// the code: creation succeeded, delivery is merely uncertain.
func (s *Service) Send(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.New("email is required")
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	rec := &models.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
	}

	if err := s.store.Put(ctx, rec, s.ttl); err != nil {
		return fmt.Errorf("failed to store OTP record: %w", err)
	}

	metrics.RecordOTPSend()

	subject := "Your verification code"
	body := fmt.Sprintf("Your one-time verification code is %s. It expires in %d minutes.",
		code, int(s.ttl.Minutes()))

	if err := s.sender.Send(ctx, email, subject, body); err != nil {
		// The code stays valid; only delivery is uncertain
		s.log.WithEmail(email).ErrorWithErr("OTP mail delivery failed", err)
	}

	return nil
}

// Verify checks a candidate code. A match marks the record verified; a
// mismatch leaves the record so the caller may retry; an expired record
// is purged. Callers should present ErrCodeExpired and ErrCodeMismatch
// identically to the end user.
func (s *Service) Verify(ctx context.Context, email, candidate string) error {
	email = normalizeEmail(email)

	rec, err := s.store.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load OTP record: %w", err)
	}
	if rec == nil {
		metrics.RecordOTPVerification("no_code")
		return ErrNoCode
	}

	if rec.Expired(s.now()) {
		if err := s.store.Delete(ctx, email); err != nil {
			s.log.WithEmail(email).ErrorWithErr("failed to purge expired OTP", err)
		}
		metrics.RecordOTPVerification("expired")
		metrics.RecordOTPPurged(1)
		return ErrCodeExpired
	}

	if strings.TrimSpace(candidate) != rec.Code {
		metrics.RecordOTPVerification("invalid")
		return ErrCodeMismatch
	}

	rec.Verified = true
	if err := s.store.Put(ctx, rec, time.Until(rec.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to store verified OTP record: %w", err)
	}

	metrics.RecordOTPVerification("verified")
	return nil
}

// IsVerified reports whether the email holds a verified, unexpired
// record. Expiry applies to verified records the same as pending ones:
// verification must be acted on within the code window.
func (s *Service) IsVerified(ctx context.Context, email string) bool {
	rec, err := s.store.Get(ctx, normalizeEmail(email))
	if err != nil {
		s.log.WithEmail(email).ErrorWithErr("failed to load OTP record", err)
		return false
	}
	return rec != nil && rec.Verified && !rec.Expired(s.now())
}

// RemainingTime returns the whole seconds until the live code expires,
// or 0 when there is no record or it has already expired.
func (s *Service) RemainingTime(ctx context.Context, email string) int {
	rec, err := s.store.Get(ctx, normalizeEmail(email))
	if err != nil || rec == nil {
		return 0
	}

	remaining := rec.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return 0
	}

	secs := int(remaining / time.Second)
	if remaining%time.Second > 0 {
		secs++
	}
	return secs
}

// CleanupExpired removes every record past its deadline, verified or
// not, and returns how many were purged.
func (s *Service) CleanupExpired(ctx context.Context) int {
	recs, err := s.store.All(ctx)
	if err != nil {
		s.log.ErrorWithErr("OTP sweep failed to list records", err)
		return 0
	}

	now := s.now()
	purged := 0
	for _, rec := range recs {
		if !rec.Expired(now) {
			continue
		}
		if err := s.store.Delete(ctx, rec.Email); err != nil {
			s.log.WithEmail(rec.Email).ErrorWithErr("failed to purge expired OTP", err)
			continue
		}
		purged++
	}

	if purged > 0 {
		metrics.RecordOTPPurged(purged)
		s.log.Infof("purged %d expired OTP records", purged)
	}
	return purged
}

// StartSweeper runs CleanupExpired on a fixed interval until the
// context is cancelled
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// generateCode draws a uniform 6-digit code from [100000, 999999]
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
