package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"prepost/internal/store"
)

// Handler bundles the audit API endpoints.
type Handler struct {
	store       *store.Store
	downloads   *reportDownloadStore
	downloadTTL time.Duration
}

// NewHandler creates the API handler.
func NewHandler(store *store.Store, downloadTTL time.Duration) *Handler {
	return &Handler{
		store:       store,
		downloads:   newReportDownloadStore(),
		downloadTTL: downloadTTL,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// service status
	router.GET("/status", h.GetStatus)

	// audit execution and report download
	router.POST("/audit", h.RunAudit)
	router.GET("/audit/download/:token", h.DownloadReport)

	// run history
	router.GET("/runs", h.ListRuns)
}
