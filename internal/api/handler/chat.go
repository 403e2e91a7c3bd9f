package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/chat"
)

// ChatRequest is a message typed into the assistant.
type ChatRequest struct {
	Message  string        `json:"message"`
	Language string        `json:"language"`
	Context  *chat.Context `json:"context,omitempty"`
}

// ChatGreeting returns the welcome message and the localized widget texts.
func (h *Handler) ChatGreeting(c *gin.Context) {
	lang := chat.ParseLanguage(c.Query("lang"))
	c.JSON(http.StatusOK, gin.H{
		"greeting":         chat.Greeting(),
		"language":         lang,
		"languages":        chat.Languages,
		"texts":            chat.TextsFor(lang),
		"voiceUnsupported": chat.VoiceUnsupported(lang),
	})
}

// Chat answers a message.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	reply, err := chat.Respond(chat.Language(req.Language), req.Message, req.Context)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reply":   reply,
	})
}
