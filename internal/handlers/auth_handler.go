package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type AuthHandler struct {
	userService services.IUserService
}

func NewAuthHandler(userService services.IUserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (a *AuthHandler) RegisterRoutes(router *gin.Engine) {
	authGr := router.Group("/api/auth")
	authGr.POST("/register", a.Register)
	authGr.POST("/login", a.Login)
}

// Register handles expert self-registration
func (a *AuthHandler) Register(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Invalid register request format: %v", err)
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_REQUEST_FORMAT",
			"Invalid request format",
		))
		return
	}

	if err := a.validateRegisterRequest(&req); err != nil {
		log.Printf("Register validation failed: %v", err)
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"VALIDATION_ERROR",
			err.Error(),
		))
		return
	}

	profile, err := a.userService.Register(req.Email, req.Password, req.Username, req.FullName)
	if err != nil {
		log.Printf("Registration failed for %s: %v", req.Email, err)
		statusCode, errorCode, message := a.mapRegisterError(err)
		c.JSON(statusCode, utils.CreateErrorResponse(errorCode, message))
		return
	}

	log.Printf("Successful registration for user %s", profile.ID)
	c.JSON(http.StatusCreated, utils.CreateSuccessResponse(map[string]any{
		"profile": profile,
	}))
}

// Login handles user authentication
func (a *AuthHandler) Login(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Invalid login request format: %v", err)
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_REQUEST_FORMAT",
			"Invalid request format",
		))
		return
	}

	if err := a.validateLoginRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"VALIDATION_ERROR",
			err.Error(),
		))
		return
	}

	profile, token, err := a.userService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Email, err)
		statusCode, errorCode := a.mapLoginError(err)
		c.JSON(statusCode, utils.CreateErrorResponse(errorCode, "Login failed"))
		return
	}

	log.Printf("Successful login for user %s", profile.ID)
	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]any{
		"profile":      profile,
		"access_token": token,
	}))
}

func (a *AuthHandler) validateRegisterRequest(req *models.RegisterRequest) error {
	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(req.Email, "@") || len(req.Email) < 5 {
		return fmt.Errorf("invalid email format")
	}
	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return fmt.Errorf("full name is required")
	}
	return nil
}

func (a *AuthHandler) validateLoginRequest(req *models.LoginRequest) error {
	if req.Email == "" {
		return fmt.Errorf("email is required")
	}
	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

func (a *AuthHandler) mapRegisterError(err error) (int, string, string) {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "already exists"):
		return http.StatusConflict, "EMAIL_EXISTS", "An account with this email already exists"
	case strings.Contains(errorMsg, "email"):
		return http.StatusBadRequest, "INVALID_EMAIL", "Registration failed"
	case strings.Contains(errorMsg, "password"):
		return http.StatusBadRequest, "INVALID_PASSWORD_FORMAT", "Registration failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Registration failed"
	}
}

func (a *AuthHandler) mapLoginError(err error) (int, string) {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "email or password incorrect"):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case strings.Contains(errorMsg, "profile missing"):
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	case strings.Contains(errorMsg, "secret not configured"):
		return http.StatusInternalServerError, "MISCONFIGURED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
