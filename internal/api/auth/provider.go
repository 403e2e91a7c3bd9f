package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/models"
	authsvc "github.com/ridewise/ridewise/internal/auth"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/gravatar"
)

// Auth methods recorded on the signed in user.
const (
	MethodLocal = "local"
	MethodOIDC  = "oidc"
	MethodToken = "token"
)

// MultiProvider combines local credentials, OIDC and bearer tokens.
// Sessions are shared: whichever provider signed the user in, the
// middleware reads the same session keys.
type MultiProvider struct {
	cfg      *config.AuthConfig
	local    *LocalProvider
	oidc     *OIDCProvider
	token    *TokenProvider
	gravatar *gravatar.Resolver
}

// NewProvider creates a multi provider with every enabled method.
func NewProvider(ctx context.Context, cfg *config.Config, db database.DB, gravatarResolver *gravatar.Resolver) (*MultiProvider, error) {
	if cfg == nil || cfg.Auth == nil {
		return nil, fmt.Errorf("auth config is required")
	}

	service := authsvc.NewService(db, cfg.AdminUsers)
	tokens := authsvc.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	mp := &MultiProvider{
		cfg:      cfg.Auth,
		token:    NewTokenProvider(tokens, service, db),
		gravatar: gravatarResolver,
	}

	if cfg.Auth.Local != nil && cfg.Auth.Local.Enabled {
		mp.local = NewLocalProvider(service, tokens, db)
	}

	if cfg.Auth.OIDC != nil && cfg.Auth.OIDC.Enabled {
		oidcProvider, err := NewOIDCProvider(ctx, cfg.Auth.OIDC, service)
		if err != nil {
			return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
		}
		mp.oidc = oidcProvider
	}

	if mp.local == nil && mp.oidc == nil {
		return nil, fmt.Errorf("no authentication provider is enabled")
	}

	return mp, nil
}

// Local returns the credentials provider, or nil when disabled.
func (mp *MultiProvider) Local() *LocalProvider {
	return mp.local
}

// OIDC returns the OIDC provider, or nil when disabled.
func (mp *MultiProvider) OIDC() *OIDCProvider {
	return mp.oidc
}

// Token returns the bearer token provider.
func (mp *MultiProvider) Token() *TokenProvider {
	return mp.token
}

// Methods lists the enabled sign in methods.
func (mp *MultiProvider) Methods() models.AuthMethods {
	m := models.AuthMethods{
		Local: mp.local != nil,
		OIDC:  mp.oidc != nil,
	}
	if mp.oidc != nil {
		m.OIDCName = mp.cfg.OIDC.Name
	}
	return m
}

// GetMethods serves the enabled sign in methods.
func (mp *MultiProvider) GetMethods(c *gin.Context) {
	c.JSON(http.StatusOK, mp.Methods())
}

// OIDCLogin starts the OIDC flow.
func (mp *MultiProvider) OIDCLogin(c *gin.Context) {
	if mp.oidc == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "OIDC login is not enabled"})
		return
	}
	mp.oidc.Login(c)
}

// OIDCCallback completes the OIDC flow.
func (mp *MultiProvider) OIDCCallback(c *gin.Context) {
	if mp.oidc == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "OAuth callback not supported"})
		return
	}
	mp.oidc.Callback(c)
}

// RequireAuth returns middleware that accepts a bearer token or a session.
func (mp *MultiProvider) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := mp.authenticate(c)
		if err != nil {
			log.Debug("Rejected request", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}

		if user.Email != "" {
			user.GravatarURL = mp.gravatar.URL(user.Email)
		}
		c.Set("user_id", user.ID)
		c.Set(models.ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth sets the user when the request is authenticated but never rejects it.
func (mp *MultiProvider) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := mp.authenticate(c); err == nil && user != nil {
			c.Set("user_id", user.ID)
			c.Set(models.ContextUserKey, user)
		}
		c.Next()
	}
}

// RequireAdmin returns middleware that checks for admin privileges.
func (mp *MultiProvider) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := models.CurrentUser(c)
		if !ok || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}

// authenticate returns the user of the request, nil if anonymous.
// An invalid bearer token is an error, a missing one is not.
func (mp *MultiProvider) authenticate(c *gin.Context) (*models.User, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return nil, fmt.Errorf("unsupported authorization scheme")
		}
		return mp.token.Authenticate(c.Request.Context(), strings.TrimSpace(token))
	}

	session := sessions.Default(c)
	id, ok := getSessionUint(session, sessionUserID)
	if !ok {
		return nil, nil
	}
	return &models.User{
		ID:         id,
		Username:   getSessionString(session, sessionUsername),
		Name:       getSessionString(session, sessionName),
		Email:      getSessionString(session, sessionEmail),
		IsAdmin:    getSessionBool(session, sessionIsAdmin),
		AuthMethod: getSessionString(session, sessionAuthMethod),
	}, nil
}
