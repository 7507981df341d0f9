package handlers

import (
	"net/http"

	"lexcitas/services/availability"
	"lexcitas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReconcileHandler triggers a two-way synchronization between the local
// appointment store and the external calendar.
func ReconcileHandler(availSvc availability.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := availSvc.Reconcile(c.Request.Context())
		if err != nil {
			utils.GetLogger().Error("reconciliation failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "reconciliation aborted", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
