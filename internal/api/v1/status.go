package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse describes the running service.
type StatusResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Ready     bool   `json:"ready"`
	TotalRuns int    `json:"totalRuns"`
}

// Version of the audit service API.
const Version = "1.0.0"

// GetStatus reports service identity and readiness.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	totalRuns, err := h.store.CountAuditRuns()
	if err != nil {
		totalRuns = 0
	}

	c.JSON(http.StatusOK, StatusResponse{
		Service:   "prepost",
		Version:   Version,
		Ready:     true,
		TotalRuns: totalRuns,
	})
}
