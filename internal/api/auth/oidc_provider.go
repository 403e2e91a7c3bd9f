package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	authsvc "github.com/ridewise/ridewise/internal/auth"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/samber/lo"
	"golang.org/x/oauth2"
)

// OIDCProvider signs users in through an OpenID Connect identity provider.
type OIDCProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	config   *oauth2.Config
	cfg      *config.OIDCConfig
	service  *authsvc.Service
}

type oidcClaims struct {
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	PreferredUsername string   `json:"preferred_username"`
	Sub               string   `json:"sub"`
	Groups            []string `json:"groups"`
}

// NewOIDCProvider discovers the issuer and creates the provider.
func NewOIDCProvider(ctx context.Context, cfg *config.OIDCConfig, service *authsvc.Service) (*OIDCProvider, error) {
	p := OIDCProvider{
		cfg:     cfg,
		service: service,
	}
	var err error
	p.provider, err = oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     p.provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "groups"},
	}

	p.verifier = p.provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})
	return &p, nil
}

// Login redirects to the identity provider.
func (p *OIDCProvider) Login(c *gin.Context) {
	state := uuid.New().String()

	session := sessions.Default(c)
	session.Set(sessionOIDCState, state)
	if err := session.Save(); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	c.Redirect(http.StatusFound, p.config.AuthCodeURL(state))
}

// Callback exchanges the code, verifies the id token and starts a session.
func (p *OIDCProvider) Callback(c *gin.Context) {
	session := sessions.Default(c)
	expected := getSessionString(session, sessionOIDCState)
	session.Delete(sessionOIDCState)
	state := c.Query("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid OAuth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing code parameter"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := p.config.Exchange(ctx, code)
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.AbortWithError(http.StatusInternalServerError, errors.New("id_token missing from token response")) //nolint:errcheck
		return
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.AbortWithError(http.StatusUnauthorized, err) //nolint:errcheck
		return
	}

	var claims oidcClaims
	if err := idToken.Claims(&claims); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	username := lo.CoalesceOrEmpty(claims.PreferredUsername, claims.Email, claims.Sub)
	user, err := p.service.EnsureUser(ctx, username, claims.Name, claims.Email)
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	isAdmin := p.isAdmin(username, claims.Groups)
	if err := saveSessionUser(c, user, isAdmin, MethodOIDC); err != nil {
		c.AbortWithError(http.StatusInternalServerError, err) //nolint:errcheck
		return
	}

	log.Info("User logged in via OIDC", "username", username, "admin", isAdmin)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (p *OIDCProvider) isAdmin(username string, groups []string) bool {
	if p.cfg.AdminGroup != "" && lo.Contains(groups, p.cfg.AdminGroup) {
		return true
	}
	return p.service.IsAdmin(username)
}
