package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type DashboardHandler struct {
	analyticsService services.IAnalyticsService
	middleware       *Middleware
}

func NewDashboardHandler(analyticsService services.IAnalyticsService, middleware *Middleware) *DashboardHandler {
	return &DashboardHandler{
		analyticsService: analyticsService,
		middleware:       middleware,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/analytics",
		h.middleware.RequireAuth(),
		h.middleware.RequireRole(models.RoleExpert, models.RoleAdmin),
		h.GetAnalytics,
	)
	router.GET("/api/health", h.Health)
}

func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=60")

	analytics, err := h.analyticsService.GetDashboardAnalytics()
	if err != nil {
		log.Printf("Failed to build analytics: %v", err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to fetch analytics",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(analytics))
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
