package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/database"
)

// Session keys.
const (
	sessionUserID     = "user_id"
	sessionUsername   = "user_username"
	sessionName       = "user_name"
	sessionEmail      = "user_email"
	sessionIsAdmin    = "user_is_admin"
	sessionAuthMethod = "user_auth_method"
	sessionOIDCState  = "oidc_state"
)

// saveSessionUser stores the signed in user in the session cookie.
func saveSessionUser(c *gin.Context, user *database.User, isAdmin bool, method string) error {
	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUsername, user.Username)
	session.Set(sessionName, user.Name)
	session.Set(sessionEmail, user.Email)
	session.Set(sessionIsAdmin, isAdmin)
	session.Set(sessionAuthMethod, method)
	return session.Save()
}

// SetSessionEmail updates the email stored in the session after the user changed it.
func SetSessionEmail(c *gin.Context, email string) error {
	session := sessions.Default(c)
	if session.Get(sessionUserID) == nil {
		return nil
	}
	session.Set(sessionEmail, email)
	return session.Save()
}

// ClearSession signs the user out.
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// Helper functions to safely get session values.
func getSessionString(session sessions.Session, key string) string {
	if val := session.Get(key); val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getSessionBool(session sessions.Session, key string) bool {
	if val := session.Get(key); val != nil {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getSessionUint(session sessions.Session, key string) (uint, bool) {
	if val := session.Get(key); val != nil {
		if id, ok := val.(uint); ok {
			return id, true
		}
	}
	return 0, false
}
