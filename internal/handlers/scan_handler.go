package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type ScanHandler struct {
	scanService       services.IScanService
	validationService services.IValidationService
	middleware        *Middleware
}

func NewScanHandler(scanService services.IScanService, validationService services.IValidationService, middleware *Middleware) *ScanHandler {
	return &ScanHandler{
		scanService:       scanService,
		validationService: validationService,
		middleware:        middleware,
	}
}

func (h *ScanHandler) RegisterRoutes(router *gin.Engine) {
	scansGr := router.Group("/api/scans")
	scansGr.Use(h.middleware.RequireAuth(), h.middleware.RequireRole(models.RoleExpert, models.RoleAdmin))
	scansGr.GET("", h.GetScans)
	scansGr.GET("/:scanUUID/history", h.GetScanHistory)
	scansGr.POST("/:scanUUID/validate", h.ValidateScan)
}

// GetScans returns the merged, newest-first scan list with validation
// history.
func (h *ScanHandler) GetScans(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=30")

	feed, err := h.scanService.GetScanFeed(c.Request.Context())
	if err != nil {
		log.Printf("Failed to build scan feed: %v", err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to fetch scans",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(feed))
}

// GetScanHistory returns every expert decision recorded for one scan,
// newest first.
func (h *ScanHandler) GetScanHistory(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=30")

	scanUUID := c.Param("scanUUID")
	if !utils.IsValidUUID(scanUUID) {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_SCAN_ID",
			"Invalid scan id format. Expected UUID.",
		))
		return
	}

	records, err := h.validationService.ScanHistory(c.Request.Context(), scanUUID)
	if err != nil {
		if strings.Contains(err.Error(), "scan not found") {
			c.JSON(http.StatusNotFound, utils.CreateErrorResponse(
				"SCAN_NOT_FOUND",
				"scan not found",
			))
			return
		}
		log.Printf("Failed to fetch history for scan %s: %v", scanUUID, err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to fetch validation history",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]any{
		"history": records,
	}))
}

func (h *ScanHandler) ValidateScan(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	scanUUID := c.Param("scanUUID")
	if !utils.IsValidUUID(scanUUID) {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_SCAN_ID",
			"Invalid scan id format. Expected UUID.",
		))
		return
	}

	var req models.ValidateScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_REQUEST_FORMAT",
			"Invalid request format",
		))
		return
	}

	expert := ProfileFromContext(c)
	record, err := h.validationService.ValidateScan(c.Request.Context(), expert.ID, scanUUID, &req)
	if err != nil {
		statusCode, errorCode := h.mapValidationError(err)
		if statusCode == http.StatusInternalServerError {
			log.Printf("Failed to validate scan %s: %v", scanUUID, err)
		}
		c.JSON(statusCode, utils.CreateErrorResponse(errorCode, err.Error()))
		return
	}

	log.Printf("Scan %s %sd by expert %s", scanUUID, req.Action, expert.ID)
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(map[string]any{
		"validation": record,
	}))
}

func (h *ScanHandler) mapValidationError(err error) (int, string) {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "scan not found"):
		return http.StatusNotFound, "SCAN_NOT_FOUND"
	case strings.Contains(errorMsg, "unknown action"),
		strings.Contains(errorMsg, "unknown scan type"),
		strings.Contains(errorMsg, "label is required"):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
