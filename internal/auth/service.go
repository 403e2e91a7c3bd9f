// Package auth holds the local account logic: password rules, bcrypt credentials and API tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingFields      = errors.New("username and password are required")
	ErrUserExists         = errors.New("username already exists")
	ErrWeakPassword       = errors.New("password is not strong enough")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Service registers and authenticates local users.
type Service struct {
	db         database.DB
	adminUsers []string
	now        func() time.Time
}

// NewService creates a new credential service.
func NewService(db database.DB, adminUsers []string) *Service {
	return &Service{
		db:         db,
		adminUsers: adminUsers,
		now:        time.Now,
	}
}

// Register stores a new user with a bcrypt hash of the password.
// Only passwords rated strong are accepted.
func (s *Service) Register(ctx context.Context, username, password string) (*database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	_, err := s.db.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !database.IsNotFound(err) {
		return nil, err
	}

	if PasswordStrength(password).Level != StrengthStrong {
		return nil, ErrWeakPassword
	}
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		Username:     username,
		Name:         username,
		PasswordHash: string(hash),
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Info("registered user", "username", username)
	return user, nil
}

// Login verifies the credentials and records the login time.
func (s *Service) Login(ctx context.Context, username, password string) (*database.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		// OIDC-only account
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.db.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		log.Warn("failed to record last login", "username", username, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	return user, nil
}

// EnsureUser returns the stored user with the given username, creating a passwordless one if needed.
// It backs single sign-on logins.
func (s *Service) EnsureUser(ctx context.Context, username, name, email string) (*database.User, error) {
	user, err := s.db.GetUserByUsername(ctx, username)
	if err == nil {
		if email != "" && user.Email == "" {
			if err := s.db.UpdateUserEmail(ctx, user.ID, email); err == nil {
				user.Email = email
			}
		}
		return user, nil
	}
	if !database.IsNotFound(err) {
		return nil, err
	}

	user = &database.User{
		Username: username,
		Name:     name,
		Email:    email,
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsAdmin reports whether the username is listed in admin_users.
func (s *Service) IsAdmin(username string) bool {
	return lo.Contains(s.adminUsers, username)
}
