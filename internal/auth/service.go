package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/apaaranddhruv/satsang/internal/logging"
	"github.com/apaaranddhruv/satsang/internal/otp"
	"github.com/apaaranddhruv/satsang/internal/store"
	"github.com/apaaranddhruv/satsang/pkg/models"
)

var (
	// ErrEmailNotVerified is returned when registration is attempted
	// before the email passed OTP verification
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrEmailTaken is returned when the email already has an account
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login failure. The same
	// error covers unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles user registration and login. Accounts live in the
// shared store under the users tab; admin rights come from Policy.
type Service struct {
	adapter store.Adapter
	policy  *Policy
	otps    *otp.Service
	log     *logging.Logger
}

// NewService creates the auth service
func NewService(adapter store.Adapter, policy *Policy, otps *otp.Service, log *logging.Logger) *Service {
	return &Service{
		adapter: adapter,
		policy:  policy,
		otps:    otps,
		log:     log.WithField("component", "auth"),
	}
}

// Register creates an account for an email that completed OTP
// verification. The password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password are required")
	}

	if !s.otps.IsVerified(ctx, email) {
		return nil, ErrEmailNotVerified
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	row := store.Row{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt.Format(time.RFC3339),
	}
	if err := s.adapter.AppendRow(ctx, store.KindUsers, row); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	user.IsAdmin = s.policy.IsAdmin(email)
	s.log.WithEmail(email).Info("User registered")
	return user, nil
}

// Login checks the credentials and returns the user with the admin
// flag recomputed from the allow-list
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.IsAdmin = s.policy.IsAdmin(email)
	s.log.WithEmail(email).WithField("is_admin", user.IsAdmin).Info("User logged in")
	return user, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, err := s.adapter.GetRows(ctx, store.KindUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, row := range rows {
		if normalizeEmail(row["email"]) != email {
			continue
		}
		created, _ := time.Parse(time.RFC3339, row["created_at"])
		return &models.User{
			ID:           row["id"],
			Name:         row["name"],
			Email:        row["email"],
			PasswordHash: row["password_hash"],
			CreatedAt:    created,
		}, nil
	}
	return nil, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
