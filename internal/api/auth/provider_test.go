package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/models"
	authsvc "github.com/ridewise/ridewise/internal/auth"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/database/mock"
	"github.com/ridewise/ridewise/internal/gravatar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const strongPassword = "Str0ng!Pass"

type ProviderTestSuite struct {
	suite.Suite
	db       *mock.MockDB
	provider *MultiProvider
	router   *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		SessionKey: "test-secret",
		JWTSecret:  "jwt-secret",
		JWTTTL:     time.Hour,
		AdminUsers: []string{"admin"},
		Auth: &config.AuthConfig{
			Local: &config.LocalAuthConfig{Enabled: true},
			OIDC:  &config.OIDCConfig{Enabled: false},
		},
	}
}

func (s *ProviderTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = mock.NewMockDB()

	resolver := gravatar.New(&config.GravatarConfig{Enabled: true, DefaultImage: "robohash"})
	p, err := NewProvider(context.Background(), testConfig(), s.db, resolver)
	s.Require().NoError(err)
	s.provider = p

	s.router = gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	s.router.Use(sessions.Sessions("ridewise_session", store))

	s.router.GET("/api/auth/methods", p.GetMethods)
	s.router.POST("/api/auth/register", p.Local().Register)
	s.router.POST("/api/auth/login", p.Local().Login)
	s.router.POST("/api/auth/logout", Logout)
	s.router.POST("/api/auth/token", p.OptionalAuth(), p.Local().IssueToken)
	s.router.POST("/api/auth/password-strength", p.Local().PasswordStrength)

	protected := s.router.Group("/api", p.RequireAuth())
	protected.GET("/me", func(c *gin.Context) {
		user, _ := models.CurrentUser(c)
		c.JSON(http.StatusOK, user)
	})
	protected.GET("/admin", p.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func (s *ProviderTestSuite) do(method, path string, body any, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ProviderTestSuite) register(username string) {
	w := s.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Username: username, Password: strongPassword, Email: username + "@example.com"}, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *ProviderTestSuite) login(username string) []*http.Cookie {
	w := s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: username, Password: strongPassword}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func (s *ProviderTestSuite) TestMethods() {
	w := s.do(http.MethodGet, "/api/auth/methods", nil, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"local":true,"oidc":false}`, w.Body.String())
}

func (s *ProviderTestSuite) TestRegister() {
	s.register("rider")

	user, err := s.db.GetUserByUsername(context.Background(), "rider")
	s.Require().NoError(err)
	s.Equal("rider@example.com", user.Email)
	s.NotEqual(strongPassword, user.PasswordHash)

	w := s.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Username: "rider", Password: strongPassword}, nil)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *ProviderTestSuite) TestRegister_Validation() {
	w := s.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Username: "weak", Password: "abc"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	var body struct {
		Success  bool             `json:"success"`
		Strength authsvc.Strength `json:"strength"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.False(body.Success)
	s.Equal(authsvc.StrengthVeryWeak, body.Strength.Level)

	w = s.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Username: "", Password: ""}, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Username: "long", Password: "Aa1!" + strings.Repeat("x", 80)}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), authsvc.ErrPasswordTooLong.Error())

	w = s.do(http.MethodPost, "/api/auth/register", models.RegisterRequest{Username: "x", Password: strongPassword, Email: "not-an-email"}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "Invalid email address")
}

func (s *ProviderTestSuite) TestLoginSessionAndLogout() {
	s.register("rider")
	cookies := s.login("rider")
	s.Require().NotEmpty(cookies)

	w := s.do(http.MethodGet, "/api/me", nil, nil, cookies...)
	s.Require().Equal(http.StatusOK, w.Code)
	var user models.User
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	s.Equal("rider", user.Username)
	s.Equal(MethodLocal, user.AuthMethod)
	s.False(user.IsAdmin)
	s.Contains(user.GravatarURL, "https://www.gravatar.com/avatar/")

	w = s.do(http.MethodGet, "/api/admin", nil, nil, cookies...)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/auth/logout", nil, nil, cookies...)
	s.Require().Equal(http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/me", nil, nil, w.Result().Cookies()...)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ProviderTestSuite) TestLogin_Invalid() {
	s.register("rider")

	w := s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "rider", Password: "Wr0ng!Pass"}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "Invalid username or password")

	w = s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "ghost", Password: strongPassword}, nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/auth/login", models.LoginRequest{}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ProviderTestSuite) TestAdminSession() {
	s.register("admin")
	cookies := s.login("admin")

	w := s.do(http.MethodGet, "/api/admin", nil, nil, cookies...)
	s.Equal(http.StatusOK, w.Code)
}

func (s *ProviderTestSuite) TestTokenFlow() {
	s.register("admin")

	w := s.do(http.MethodPost, "/api/auth/token", models.LoginRequest{Username: "admin", Password: strongPassword}, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var token models.TokenResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &token))
	s.Equal("Bearer", token.TokenType)
	s.NotEmpty(token.Token)

	header := http.Header{"Authorization": {"Bearer " + token.Token}}
	w = s.do(http.MethodGet, "/api/me", nil, header)
	s.Require().Equal(http.StatusOK, w.Code)
	var user models.User
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &user))
	s.Equal("admin", user.Username)
	s.Equal(MethodToken, user.AuthMethod)
	s.True(user.IsAdmin)

	w = s.do(http.MethodGet, "/api/admin", nil, header)
	s.Equal(http.StatusOK, w.Code)
}

func (s *ProviderTestSuite) TestTokenForSession() {
	s.register("rider")
	cookies := s.login("rider")

	w := s.do(http.MethodPost, "/api/auth/token", nil, nil, cookies...)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"token"`)
}

func (s *ProviderTestSuite) TestRejectsBadTokens() {
	w := s.do(http.MethodGet, "/api/me", nil, http.Header{"Authorization": {"Bearer nope"}})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "invalid token")

	w = s.do(http.MethodGet, "/api/me", nil, http.Header{"Authorization": {"Basic dTpw"}})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/me", nil, nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"success":false,"error":"authentication required"}`, w.Body.String())
}

func (s *ProviderTestSuite) TestTokenForDeletedUser() {
	issuer := authsvc.NewTokenIssuer("jwt-secret", time.Hour)
	token, _, err := issuer.Issue("ghost")
	s.Require().NoError(err)

	w := s.do(http.MethodGet, "/api/me", nil, http.Header{"Authorization": {"Bearer " + token}})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ProviderTestSuite) TestPasswordStrength() {
	w := s.do(http.MethodPost, "/api/auth/password-strength", models.PasswordRequest{Password: strongPassword}, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"level":"strong","score":5}`, w.Body.String())
}

func (s *ProviderTestSuite) TestOIDCDisabled() {
	s.router.GET("/auth/oidc/login", s.provider.OIDCLogin)
	s.router.GET("/auth/oidc/callback", s.provider.OIDCCallback)

	w := s.do(http.MethodGet, "/auth/oidc/login", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/auth/oidc/callback", nil, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func TestProviderTestSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(context.Background(), nil, mock.NewMockDB(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Auth.Local.Enabled = false
	_, err = NewProvider(context.Background(), cfg, mock.NewMockDB(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authentication provider is enabled")
}
