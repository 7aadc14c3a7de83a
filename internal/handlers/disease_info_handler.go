package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/models"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/internal/services"
	"github.com/mikeangelocasono/BitterScan-Dashboard-sub000/utils"
)

type DiseaseInfoHandler struct {
	diseaseService services.IDiseaseInfoService
	middleware     *Middleware
}

func NewDiseaseInfoHandler(diseaseService services.IDiseaseInfoService, middleware *Middleware) *DiseaseInfoHandler {
	return &DiseaseInfoHandler{
		diseaseService: diseaseService,
		middleware:     middleware,
	}
}

func (h *DiseaseInfoHandler) RegisterRoutes(router *gin.Engine) {
	diseasesGr := router.Group("/api/diseases")
	diseasesGr.Use(h.middleware.RequireAuth(), h.middleware.RequireRole(models.RoleExpert, models.RoleAdmin))
	diseasesGr.GET("", h.ListDiseases)
	diseasesGr.PUT("/:diseaseID", h.UpdateDisease)
}

func (h *DiseaseInfoHandler) ListDiseases(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=60")

	infos, err := h.diseaseService.ListDiseaseInfo()
	if err != nil {
		log.Printf("Failed to list disease info: %v", err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to fetch disease info",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]any{
		"diseases": infos,
	}))
}

// UpdateDisease applies a bilingual knowledge-base edit. A stale edit
// returns 409 with the current row so the client can show the
// confirm-overwrite dialog and retry with force.
func (h *DiseaseInfoHandler) UpdateDisease(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	var req models.DiseaseInfoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.CreateErrorResponse(
			"INVALID_REQUEST_FORMAT",
			"Invalid request format",
		))
		return
	}

	editor := ProfileFromContext(c)
	diseaseID := c.Param("diseaseID")

	info, err := h.diseaseService.UpdateDiseaseInfo(c.Request.Context(), editor.ID, diseaseID, &req)
	if err != nil {
		var conflict *services.ErrEditConflict
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": utils.APIError{
					Code:    "EDIT_CONFLICT",
					Message: "This entry was modified by someone else. Review the current version before overwriting.",
				},
				"current": conflict.Current,
			})
			return
		}
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, utils.CreateErrorResponse(
				"DISEASE_NOT_FOUND",
				"Disease entry not found",
			))
			return
		}
		log.Printf("Failed to update disease info %s: %v", diseaseID, err)
		c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(
			"INTERNAL_ERROR",
			"failed to update disease info",
		))
		return
	}

	c.JSON(http.StatusOK, utils.CreateSuccessResponse(map[string]any{
		"disease": info,
	}))
}
