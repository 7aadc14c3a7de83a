package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/session"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

// SessionHandler runs the readiness coordinator for dashboard page loads.
// Bootstrap resolves identity and warms the first data fetch under the
// configured budgets and always answers, even when upstream stalls; the
// foreground endpoint relays tab-visibility signals into silent refreshes
// and change-feed revalidation.
type SessionHandler struct {
	jwtService  *services.JWTService
	userService services.IUserService
	scanService services.IScanService
	feed        session.Revalidator
	cfg         session.Config

	mu           sync.Mutex
	coordinators map[string]*session.Coordinator
}

func NewSessionHandler(jwtService *services.JWTService, userService services.IUserService, scanService services.IScanService, feed session.Revalidator, cfg session.Config) *SessionHandler {
	return &SessionHandler{
		jwtService:   jwtService,
		userService:  userService,
		scanService:  scanService,
		feed:         feed,
		cfg:          cfg,
		coordinators: make(map[string]*session.Coordinator),
	}
}

func (h *SessionHandler) RegisterRoutes(router *gin.Engine) {
	sessionGr := router.Group("/api/session")
	sessionGr.GET("/bootstrap", h.Bootstrap)
	sessionGr.POST("/foreground", h.Foreground)
}

type readinessSnapshot struct {
	HasSession   bool                 `json:"has_session"`
	SessionReady bool                 `json:"session_ready"`
	DataReady    bool                 `json:"data_ready"`
	RejectReason session.RejectReason `json:"reject_reason,omitempty"`
	Profile      *models.Profile      `json:"profile,omitempty"`
}

// Bootstrap never requires auth: an absent or bad token resolves to an
// unauthenticated-but-ready state rather than an error.
func (h *SessionHandler) Bootstrap(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	tokenString := h.bearerToken(c)

	coord := session.NewCoordinator(h.cfg,
		func(ctx context.Context) (*models.Profile, error) {
			if tokenString == "" {
				return nil, nil
			}
			claims, err := h.jwtService.VerifyToken(tokenString)
			if err != nil {
				return nil, nil
			}
			return h.userService.GetProfile(claims.UserID)
		},
		func(ctx context.Context) error {
			_, err := h.scanService.GetScanFeed(ctx)
			return err
		},
		h.feed,
	)

	coord.Start(c.Request.Context())
	<-coord.Done()

	h.remember(coord)

	snapshot := readinessSnapshot{
		HasSession:   coord.HasSession(),
		SessionReady: coord.SessionReady(),
		DataReady:    coord.DataReady(),
		RejectReason: coord.RejectReason(),
		Profile:      coord.Profile(),
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(snapshot))
}

// Foreground relays a tab-foreground signal for the caller's session.
// Unknown sessions just revalidate the feed; the next bootstrap rebuilds
// their coordinator.
func (h *SessionHandler) Foreground(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if coord := h.lookup(c); coord != nil {
		coord.Foreground(context.Background())
	} else if h.feed != nil {
		h.feed.Revalidate()
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(gin.H{"refreshed": true}))
}

func (h *SessionHandler) bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func (h *SessionHandler) remember(coord *session.Coordinator) {
	profile := coord.Profile()
	if profile == nil {
		return
	}
	h.mu.Lock()
	h.coordinators[profile.ID] = coord
	h.mu.Unlock()
}

func (h *SessionHandler) lookup(c *gin.Context) *session.Coordinator {
	tokenString := h.bearerToken(c)
	if tokenString == "" {
		return nil
	}
	claims, err := h.jwtService.VerifyToken(tokenString)
	if err != nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.coordinators[claims.UserID]
}
