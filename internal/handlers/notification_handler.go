package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type NotificationHandler struct {
	readStateService services.IReadStateService
	middleware       *Middleware
}

func NewNotificationHandler(readStateService services.IReadStateService, middleware *Middleware) *NotificationHandler {
	return &NotificationHandler{
		readStateService: readStateService,
		middleware:       middleware,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.Engine) {
	notifGr := router.Group("/api/notifications")
	notifGr.Use(h.middleware.RequireAuth(), h.middleware.RequireRole(models.RoleExpert, models.RoleAdmin))
	notifGr.GET("/read-state", h.GetReadState)
	notifGr.POST("/read-state", h.MarkRead)
}

func (h *NotificationHandler) GetReadState(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=10")

	user := ProfileFromContext(c)
	state, err := h.readStateService.GetReadState(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Failed to get read state for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to fetch read state",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(state))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	var req models.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_REQUEST_FORMAT",
			"Invalid request format",
		))
		return
	}

	user := ProfileFromContext(c)
	state, err := h.readStateService.MarkRead(c.Request.Context(), user.ID, req.ScanIDs, req.UserIDs)
	if err != nil {
		log.Printf("Failed to mark read for %s: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to update read state",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(state))
}
