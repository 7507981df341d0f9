package handlers

import (
	"errors"
	"net/http"

	"lexcitas/services/documents"

	"github.com/gin-gonic/gin"
)

// ValidateUploadTokenHandler checks an upload token and returns the
// appointment it is bound to. The upload frontend calls this before showing
// the file picker.
func ValidateUploadTokenHandler(tokenSvc documents.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}

		appointmentID, err := tokenSvc.Validate(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, documents.ErrTokenUsed) {
				status = http.StatusGone
			} else if !errors.Is(err, documents.ErrTokenInvalid) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"appointmentId": appointmentID})
	}
}

// ConsumeUploadTokenHandler burns a token after the upload completed.
func ConsumeUploadTokenHandler(tokenSvc documents.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
			return
		}

		if _, err := tokenSvc.Validate(c.Request.Context(), input.Token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if err := tokenSvc.MarkUsed(c.Request.Context(), input.Token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to consume token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "consumed"})
	}
}
