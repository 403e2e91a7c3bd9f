package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ridewise/ridewise/internal/database/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		level    StrengthLevel
		score    int
	}{
		{"", StrengthVeryWeak, 0},
		{"abc", StrengthVeryWeak, 1},
		{"abcdefgh", StrengthWeak, 2},
		{"abcdefg1", StrengthMedium, 3},
		{"Abcdefg1", StrengthStrong, 4},
		{"Abcdef1!", StrengthStrong, 5},
		{"Ab1!", StrengthStrong, 4},
		{"pässwörd", StrengthMedium, 3},
		{"中中中中中中a1", StrengthStrong, 4},
		{"ÀÉÎÕÜ١٢٣", StrengthWeak, 2},
		{"😀😀😀😀", StrengthWeak, 2},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			s := PasswordStrength(tt.password)
			assert.Equal(t, tt.level, s.Level)
			assert.Equal(t, tt.score, s.Score)
		})
	}
}

type ServiceTestSuite struct {
	suite.Suite
	db      *mock.MockDB
	service *Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.db = mock.NewMockDB()
	s.service = NewService(s.db, []string{"admin"})
	s.ctx = context.Background()
}

func (s *ServiceTestSuite) TestRegister() {
	user, err := s.service.Register(s.ctx, " rider ", "Str0ngPass!")
	s.Require().NoError(err)
	s.Equal("rider", user.Username)
	s.NotEqual("Str0ngPass!", user.PasswordHash)
	s.NotEmpty(user.PasswordHash)
}

func (s *ServiceTestSuite) TestRegister_Errors() {
	_, err := s.service.Register(s.ctx, "", "Str0ngPass!")
	s.ErrorIs(err, ErrMissingFields)

	_, err = s.service.Register(s.ctx, "rider", "weakpass")
	s.ErrorIs(err, ErrWeakPassword)

	_, err = s.service.Register(s.ctx, "rider", "Aa1!"+strings.Repeat("x", 80))
	s.ErrorIs(err, ErrPasswordTooLong)

	user, err := s.service.Register(s.ctx, "longest", "Aa1!"+strings.Repeat("x", MaxPasswordBytes-4))
	s.Require().NoError(err)
	s.NotEmpty(user.PasswordHash)

	_, err = s.service.Register(s.ctx, "rider", "Str0ngPass!")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, "rider", "Str0ngPass!")
	s.ErrorIs(err, ErrUserExists)

	s.db.GetUserByUsernameError = errors.New("db down")
	_, err = s.service.Register(s.ctx, "other", "Str0ngPass!")
	s.EqualError(err, "db down")
}

func (s *ServiceTestSuite) TestLogin() {
	_, err := s.service.Register(s.ctx, "rider", "Str0ngPass!")
	s.Require().NoError(err)

	fixed := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	s.service.now = func() time.Time { return fixed }

	user, err := s.service.Login(s.ctx, "rider", "Str0ngPass!")
	s.Require().NoError(err)
	s.Require().NotNil(user.LastLoginAt)
	s.Equal(fixed, *user.LastLoginAt)

	stored, err := s.db.GetUserByUsername(s.ctx, "rider")
	s.Require().NoError(err)
	s.Equal(fixed, *stored.LastLoginAt)
}

func (s *ServiceTestSuite) TestLogin_Errors() {
	_, err := s.service.Register(s.ctx, "rider", "Str0ngPass!")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "rider", "")
	s.ErrorIs(err, ErrMissingFields)

	_, err = s.service.Login(s.ctx, "rider", "WrongPass1!")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Login(s.ctx, "ghost", "Str0ngPass!")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestLogin_SSOUserHasNoPassword() {
	_, err := s.service.EnsureUser(s.ctx, "sso", "SSO User", "sso@example.com")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "sso", "anything")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestEnsureUser() {
	first, err := s.service.EnsureUser(s.ctx, "sso", "SSO User", "")
	s.Require().NoError(err)
	s.Empty(first.Email)

	second, err := s.service.EnsureUser(s.ctx, "sso", "SSO User", "sso@example.com")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal("sso@example.com", second.Email)
}

func (s *ServiceTestSuite) TestIsAdmin() {
	s.True(s.service.IsAdmin("admin"))
	s.False(s.service.IsAdmin("rider"))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, expiresAt, err := issuer.Issue("rider")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	username, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "rider", username)
}

func TestTokenIssuer_Invalid(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue("rider")
	require.NoError(t, err)

	other := NewTokenIssuer("other-secret", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired tokens are rejected")
}
