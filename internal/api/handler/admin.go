package handler

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/engine"
	"github.com/samber/lo"
)

type AdminHandler struct {
	engine *engine.Engine
	db     database.DB
}

func NewAdmin(eng *engine.Engine, db database.DB) *AdminHandler {
	return &AdminHandler{
		engine: eng,
		db:     db,
	}
}

// AdminUser is a user as listed for admins. It never includes the password hash.
type AdminUser struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	LocalLogin  bool       `json:"localLogin"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// GetSchedulerJobs returns all scheduler jobs.
func (h *AdminHandler) GetSchedulerJobs(c *gin.Context) {
	jobs := h.engine.GetScheduler().GetJobs()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobs":    jobs,
	})
}

// RunSchedulerJob manually triggers a scheduler job.
func (h *AdminHandler) RunSchedulerJob(c *gin.Context) {
	jobID := c.Param("id")

	err := h.engine.GetScheduler().RunJobNow(jobID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job triggered successfully",
	})
}

// EnableSchedulerJob enables a scheduler job.
func (h *AdminHandler) EnableSchedulerJob(c *gin.Context) {
	jobID := c.Param("id")

	err := h.engine.GetScheduler().EnableJob(jobID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job enabled successfully",
	})
}

// DisableSchedulerJob disables a scheduler job.
func (h *AdminHandler) DisableSchedulerJob(c *gin.Context) {
	jobID := c.Param("id")

	err := h.engine.GetScheduler().DisableJob(jobID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job disabled successfully",
	})
}

// GetCacheStats returns cache statistics.
func (h *AdminHandler) GetCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.engine.GetCache().GetStats(),
	})
}

// ClearCache empties the fleet and upload caches.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.engine.GetCache().ClearAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to clear one or more caches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cache cleared successfully",
	})
}

// GetUsers lists all registered users.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.db.GetAllUsers(c.Request.Context())
	if err != nil {
		log.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to get users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users": lo.Map(users, func(u database.User, _ int) AdminUser {
			return AdminUser{
				ID:          u.ID,
				Username:    u.Username,
				Name:        u.Name,
				Email:       u.Email,
				LocalLogin:  u.PasswordHash != "",
				LastLoginAt: u.LastLoginAt,
			}
		}),
	})
}
