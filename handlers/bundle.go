package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoints
	ChatHandler gin.HandlerFunc

	// Availability endpoints
	AvailableSlotsHandler gin.HandlerFunc
	NextAvailableHandler  gin.HandlerFunc

	// Document upload token endpoints
	ValidateUploadTokenHandler gin.HandlerFunc
	ConsumeUploadTokenHandler  gin.HandlerFunc

	// Admin endpoints
	ReconcileHandler gin.HandlerFunc
}
