package handlers

import (
	"net/http"

	"lexcitas/models"
	"lexcitas/services/availability"

	"github.com/gin-gonic/gin"
)

// AvailableSlotsHandler returns the open slots for a date and meeting type.
func AvailableSlotsHandler(availSvc availability.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		meetingType := models.MeetingType(c.Query("type"))
		if date == "" || !meetingType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date and a valid type are required"})
			return
		}

		result := availSvc.GetAvailableSlots(c.Request.Context(), date, meetingType)
		c.JSON(http.StatusOK, result)
	}
}

// NextAvailableHandler returns the first open slot within the scan horizon.
func NextAvailableHandler(availSvc availability.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		meetingType := models.MeetingType(c.Query("type"))
		if !meetingType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a valid type is required"})
			return
		}

		date, slot := availSvc.FindNextAvailable(c.Request.Context(), meetingType)
		if date == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "no availability within the scan horizon"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "time": slot})
	}
}
