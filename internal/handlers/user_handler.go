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

type UserHandler struct {
	userService services.IUserService
	middleware  *Middleware
}

func NewUserHandler(userService services.IUserService, middleware *Middleware) *UserHandler {
	return &UserHandler{
		userService: userService,
		middleware:  middleware,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.Engine) {
	usersGr := router.Group("/api/users")
	usersGr.Use(h.middleware.RequireAuth(), h.middleware.RequireRole(models.RoleAdmin))
	usersGr.GET("", h.ListUsers)
	usersGr.POST("/approve", h.ApproveUser)
	usersGr.POST("/reject", h.RejectUser)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=30")

	profiles, err := h.userService.GetAllProfiles()
	if err != nil {
		log.Printf("Failed to list profiles: %v", err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to fetch users",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]any{
		"users": profiles,
	}))
}

func (h *UserHandler) ApproveUser(c *gin.Context) {
	h.transitionUser(c, "approve")
}

func (h *UserHandler) RejectUser(c *gin.Context) {
	h.transitionUser(c, "reject")
}

func (h *UserHandler) transitionUser(c *gin.Context, action string) {
	c.Header("Cache-Control", "no-store")

	var req models.UserActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_REQUEST_FORMAT",
			"Invalid request format",
		))
		return
	}

	if !utils.IsValidUUID(req.UserID) {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_USER_ID",
			"Invalid userId format. Expected UUID.",
		))
		return
	}

	var err error
	if action == "approve" {
		err = h.userService.ApproveUser(req.UserID)
	} else {
		err = h.userService.RejectUser(req.UserID)
	}
	if err != nil {
		// The pending guard means a repeat call lands here, not on a
		// second state change.
		if strings.Contains(err.Error(), "not found or not pending") {
			message := "User not found or already approved"
			if action == "reject" {
				message = "User not found or already rejected"
			}
			c.JSON(http.StatusNotFound, utils.CreateErrorResponse("NOT_FOUND", message))
			return
		}
		log.Printf("Failed to %s user %s: %v", action, req.UserID, err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to update user status",
		))
		return
	}

	log.Printf("User %s %sd", req.UserID, action)
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]any{
		"userId": req.UserID,
		"action": action,
	}))
}
