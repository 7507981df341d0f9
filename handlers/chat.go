package handlers

import (
	"net/http"
	"strings"

	"lexcitas/services/conversation"

	"github.com/gin-gonic/gin"
)

// maxMessageLen bounds a single inbound chat message.
const maxMessageLen = 2000

// ChatHandler handles one conversational turn.
func ChatHandler(convSvc conversation.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			UserID  string `json:"userId"`
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
		if strings.TrimSpace(input.UserID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}
		if len(input.Message) > maxMessageLen {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message too long"})
			return
		}

		reply, err := convSvc.ProcessTurn(c.Request.Context(), input.UserID, input.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}
