package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/otp"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

type noopSender struct{}

func (noopSender) Send(ctx context.Context, to, subject, body string) error { return nil }

func newTestAuth(t *testing.T) (*Service, *otp.Service, otp.Store, store.Adapter) {
	t.Helper()
	log, err := logging.NewLogger(logging.Config{Level: "error", Format: "json", Output: "stdout"})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	adapter := store.NewMemory()
	otpStore := otp.NewMemoryStore()
	otps := otp.NewService(otpStore, noopSender{}, log, 10*time.Minute)
	policy := NewPolicy([]string{"apaaranddhruv@gmail.com"})
	return NewService(adapter, policy, otps, log), otps, otpStore, adapter
}

func markVerified(t *testing.T, otpStore otp.Store, email string) {
	t.Helper()
	rec := &models.OTPRecord{
		Email:     email,
		Code:      "123456",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		Verified:  true,
	}
	if err := otpStore.Put(context.Background(), rec, 10*time.Minute); err != nil {
		t.Fatalf("failed to seed verified record: %v", err)
	}
}

func TestRegisterRequiresVerifiedEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)

	_, err := svc.Register(context.Background(), "Dhruv", "dhruv@example.com", "secret123")
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, otpStore, _ := newTestAuth(t)
	markVerified(t, otpStore, "dhruv@example.com")

	user, err := svc.Register(context.Background(), "Dhruv", "dhruv@example.com", "secret123")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a user id")
	}
	if user.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}

	logged, err := svc.Login(context.Background(), "dhruv@example.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, logged.ID)
	}
	if logged.IsAdmin {
		t.Error("regular user should not be admin")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, otpStore, _ := newTestAuth(t)
	markVerified(t, otpStore, "dhruv@example.com")

	if _, err := svc.Register(context.Background(), "Dhruv", "dhruv@example.com", "secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	markVerified(t, otpStore, "dhruv@example.com")
	_, err := svc.Register(context.Background(), "Dhruv Again", "Dhruv@Example.com", "other456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, otpStore, _ := newTestAuth(t)
	markVerified(t, otpStore, "dhruv@example.com")

	if _, err := svc.Register(context.Background(), "Dhruv", "dhruv@example.com", "secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), "dhruv@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestAuth(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginComputesAdminFromAllowList(t *testing.T) {
	svc, _, otpStore, _ := newTestAuth(t)
	markVerified(t, otpStore, "apaaranddhruv@gmail.com")

	if _, err := svc.Register(context.Background(), "Apaar", "apaaranddhruv@gmail.com", "secret123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Login(context.Background(), "Apaaranddhruv@Gmail.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !user.IsAdmin {
		t.Error("allow-listed email should be admin")
	}
}
