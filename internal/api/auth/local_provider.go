package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/models"
	authsvc "github.com/ridewise/ridewise/internal/auth"
	"github.com/ridewise/ridewise/internal/database"
)

// LocalProvider signs users in with the credentials stored in the database.
type LocalProvider struct {
	service *authsvc.Service
	tokens  *authsvc.TokenIssuer
	db      database.UserDB
}

// NewLocalProvider creates a new credentials provider.
func NewLocalProvider(service *authsvc.Service, tokens *authsvc.TokenIssuer, db database.UserDB) *LocalProvider {
	return &LocalProvider{
		service: service,
		tokens:  tokens,
		db:      db,
	}
}

// Register creates a new account.
func (p *LocalProvider) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid email address"})
			return
		}
	}

	user, err := p.service.Register(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, authsvc.ErrMissingFields), errors.Is(err, authsvc.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	case errors.Is(err, authsvc.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		return
	case errors.Is(err, authsvc.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"error":    err.Error(),
			"strength": authsvc.PasswordStrength(req.Password),
		})
		return
	case err != nil:
		log.Error("Failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create account"})
		return
	}

	if email != "" {
		if err := p.db.UpdateUserEmail(c.Request.Context(), user.ID, email); err != nil {
			log.Warn("Failed to store email of new user", "username", user.Username, "error", err)
		} else {
			user.Email = email
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created! Please login.",
		"user":    toModel(user, p.service.IsAdmin(user.Username), MethodLocal),
	})
}

// Login verifies the credentials and starts a session.
func (p *LocalProvider) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, ok := p.verify(c, req)
	if !ok {
		return
	}

	isAdmin := p.service.IsAdmin(user.Username)
	if err := saveSessionUser(c, user, isAdmin, MethodLocal); err != nil {
		log.Error("Failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to start session"})
		return
	}

	log.Info("User logged in", "username", user.Username, "admin", isAdmin)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome to RideWise!",
		"user":    toModel(user, isAdmin, MethodLocal),
	})
}

// IssueToken exchanges credentials for a bearer token.
// A request that already carries a session gets a token for the session user.
func (p *LocalProvider) IssueToken(c *gin.Context) {
	username := ""
	if user, ok := models.CurrentUser(c); ok {
		username = user.Username
	} else {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}
		user, ok := p.verify(c, req)
		if !ok {
			return
		}
		username = user.Username
	}

	token, expiresAt, err := p.tokens.Issue(username)
	if err != nil {
		log.Error("Failed to issue token", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		Success:   true,
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	})
}

// PasswordStrength rates a password the way registration does.
func (p *LocalProvider) PasswordStrength(c *gin.Context) {
	var req models.PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	c.JSON(http.StatusOK, authsvc.PasswordStrength(req.Password))
}

// Logout clears the session.
func Logout(c *gin.Context) {
	if err := ClearSession(c); err != nil {
		log.Error("Failed to clear session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to logout"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (p *LocalProvider) verify(c *gin.Context, req models.LoginRequest) (*database.User, bool) {
	user, err := p.service.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, authsvc.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Please fill in all fields"})
		return nil, false
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		log.Warn("Failed login attempt", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid username or password"})
		return nil, false
	case err != nil:
		log.Error("Failed to verify credentials", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to verify credentials"})
		return nil, false
	}
	return user, true
}

func toModel(user *database.User, isAdmin bool, method string) *models.User {
	return &models.User{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Email:      user.Email,
		IsAdmin:    isAdmin,
		AuthMethod: method,
	}
}
