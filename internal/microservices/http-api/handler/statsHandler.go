package handler

import (
	"errors"
	"net/http"
	"strconv"

	"leafhub/internal/microservices/http-api/service"
	"leafhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// RegisterRoutes registers reporting routes (authenticated by parent middleware)
func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/stats")
	{
		stats.GET("/top-diseases", h.TopDiseases)
	}
}

// TopDiseases returns the most frequent diseases in the caller's scans,
// optionally narrowed to one category
// GET /api/stats/top-diseases?category_id=3&limit=5
func (h *StatsHandler) TopDiseases(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var categoryID *int64
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
			return
		}
		categoryID = &parsed
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	result, err := h.statsService.TopDiseases(c.Request.Context(), userID.(string), categoryID, limit)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
