package handler

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/auth"
	"github.com/ridewise/ridewise/internal/api/models"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/engine"
	"github.com/ridewise/ridewise/internal/fleet"
	"github.com/ridewise/ridewise/internal/rental"
	"github.com/ridewise/ridewise/internal/reviews"
	"github.com/ridewise/ridewise/internal/version"
)

type Handler struct {
	engine  *engine.Engine
	db      database.DB
	config  *config.Config
	rental  *rental.Service
	reviews *reviews.Service
}

func New(eng *engine.Engine, db database.DB, cfg *config.Config) *Handler {
	return &Handler{
		engine: eng,
		db:     db,
		config: cfg,
		rental: rental.New(db, eng.GetEmail(), rental.Options{
			Currency:         cfg.Rental.Currency,
			MaxDurationHours: cfg.Rental.MaxDurationHours,
			ServerURL:        cfg.ServerURL,
		}),
		reviews: reviews.New(db),
	}
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// currentDBUser loads the database record of the signed in user.
// It returns nil for anonymous requests.
func (h *Handler) currentDBUser(c *gin.Context) *database.User {
	user, ok := models.CurrentUser(c)
	if !ok {
		return nil
	}
	dbUser, err := h.db.GetUserByUsername(c.Request.Context(), user.Username)
	if err != nil {
		log.Warn("Failed to load signed in user", "username", user.Username, "error", err)
		return nil
	}
	return dbUser
}

// requireDBUser is currentDBUser for protected routes. It writes the error response itself.
func (h *Handler) requireDBUser(c *gin.Context) (*database.User, bool) {
	user := h.currentDBUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "user not found",
		})
		return nil, false
	}
	return user, true
}

// Healthz reports that the server is up.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

// Me returns the current user's information.
func (h *Handler) Me(c *gin.Context) {
	user := c.MustGet(models.ContextUserKey).(*models.User)
	c.JSON(http.StatusOK, user)
}

// UpdateEmail changes the email address receipts are sent to.
func (h *Handler) UpdateEmail(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid email address"})
		return
	}

	user, ok := h.requireDBUser(c)
	if !ok {
		return
	}
	if err := h.db.UpdateUserEmail(c.Request.Context(), user.ID, email); err != nil {
		log.Error("Failed to update email", "username", user.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update email"})
		return
	}
	if err := auth.SetSessionEmail(c, email); err != nil {
		log.Warn("Failed to update session email", "username", user.Username, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"email":   email,
	})
}

// Dashboard returns the fleet cards, alerts and shortcuts.
func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetDashboard(c.Request.Context()))
}

// FleetStats returns the latest simulator snapshot.
func (h *Handler) FleetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.FleetStats(c.Request.Context()))
}

// FleetStations returns the stations shown on the map.
func (h *Handler) FleetStations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"stations": fleet.Stations(),
	})
}

// FleetBikes returns the bikes shown on the map.
func (h *Handler) FleetBikes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bikes":   fleet.Bikes(),
	})
}
