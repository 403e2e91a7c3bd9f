package models

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the signed in *User.
const ContextUserKey = "user"

// User represents a signed in user, including their admin status.
type User struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
	GravatarURL string `json:"gravatarUrl,omitempty"` // empty if not available
	// AuthMethod is how the current request was authenticated: local, oidc or token.
	AuthMethod string `json:"authMethod"`
}

// CurrentUser returns the user set by the auth middleware, if any.
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok && user != nil
}

// LoginRequest holds local credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest creates a local account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// PasswordRequest carries a password to rate.
type PasswordRequest struct {
	Password string `json:"password"`
}

// EmailRequest updates the email of the current user.
type EmailRequest struct {
	Email string `json:"email"`
}

// TokenResponse is an issued API token.
type TokenResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthMethods lists the sign in methods the login page can offer.
type AuthMethods struct {
	Local    bool   `json:"local"`
	OIDC     bool   `json:"oidc"`
	OIDCName string `json:"oidcName,omitempty"`
}

// UploadSummary is a stored CSV upload as shown in the history list.
type UploadSummary struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	Size         string    `json:"size"`
	RowsReceived int       `json:"rowsReceived"`
	RowsUsed     int       `json:"rowsUsed"`
	InvalidRows  int       `json:"invalidRows"`
	TotalDemand  int       `json:"totalDemand"`
	PeakHour     *int      `json:"peakHour"`
	PeakDay      string    `json:"peakDay,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UploadedAgo  string    `json:"uploadedAgo"`
}
