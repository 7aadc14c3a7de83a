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

const profileContextKey = "profile"

type Middleware struct {
	jwtService  *services.JWTService
	userService services.IUserService
}

func NewMiddleware(jwtService *services.JWTService, userService services.IUserService) *Middleware {
	return &Middleware{
		jwtService:  jwtService,
		userService: userService,
	}
}

// RequireAuth validates the bearer token and loads the profile row, which
// is the only source of role and status. Tokens with no matching profile
// are treated as invalid.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.jwtService.JWTSecret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, utils.CreateErrorResponse(
				"MISCONFIGURED",
				"server is missing JWT_SECRET; set it in the environment and restart",
			))
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse(
				"MISSING_TOKEN",
				"authorization header required",
			))
			return
		}

		tokenString := authHeader
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = authHeader[7:]
		}

		claims, err := m.jwtService.VerifyToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse(
				"INVALID_TOKEN",
				"token validation failed",
			))
			return
		}

		profile, err := m.userService.GetProfile(claims.UserID)
		if err != nil {
			log.Printf("No profile for authenticated user %s: %v", claims.UserID, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse(
				"INVALID_TOKEN",
				"no profile for this identity",
			))
			return
		}

		c.Set(profileContextKey, profile)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Farmers are always denied;
// experts additionally need an approved status, with pending and rejected
// yielding distinct messages.
func (m *Middleware) RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		profile := ProfileFromContext(c)
		if profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse(
				"MISSING_TOKEN",
				"authentication required",
			))
			return
		}

		if profile.Role == models.RoleFarmer {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.CreateErrorResponse(
				"FORBIDDEN",
				"farmer accounts do not have dashboard access",
			))
			return
		}

		if profile.Role == models.RoleExpert {
			switch profile.Status {
			case models.ProfileApproved:
			case models.ProfileRejected:
				c.AbortWithStatusJSON(http.StatusForbidden, utils.CreateErrorResponse(
					"ACCOUNT_REJECTED",
					"account registration rejected",
				))
				return
			default:
				c.AbortWithStatusJSON(http.StatusForbidden, utils.CreateErrorResponse(
					"ACCOUNT_PENDING",
					"account pending approval",
				))
				return
			}
		}

		if !allowed[profile.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.CreateErrorResponse(
				"FORBIDDEN",
				"insufficient role for this resource",
			))
			return
		}

		c.Next()
	}
}

// ProfileFromContext returns the profile RequireAuth stored, or nil.
func ProfileFromContext(c *gin.Context) *models.Profile {
	v, ok := c.Get(profileContextKey)
	if !ok {
		return nil
	}
	profile, ok := v.(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}
