package handler

import (
	"errors"
	"net/http"
	"strconv"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/service"
	"leafhub/internal/shared"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	scanService service.ScanService
}

func NewScanHandler(scanService service.ScanService) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

// RegisterRoutes registers scan-related routes (authenticated by parent middleware)
func (h *ScanHandler) RegisterRoutes(router *gin.RouterGroup) {
	scans := router.Group("/scans")
	{
		scans.POST("", h.Record)              // Record an already-classified diagnosis
		scans.POST("/diagnose", h.Diagnose)   // Classify an image, then record the result
	}

	// Scans listed under their category
	router.GET("/categories/:id/scans", h.ListByCategory)
}

// Record persists a diagnosis into the scan ledger
// POST /api/scans
func (h *ScanHandler) Record(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.RecordScanDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.scanService.RecordScan(c.Request.Context(), userID.(string), &req)
	if err != nil {
		if shared.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Diagnose submits an image to the external classifier and records the result
// POST /api/scans/diagnose
func (h *ScanHandler) Diagnose(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.DiagnoseScanDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.scanService.DiagnoseAndRecord(c.Request.Context(), userID.(string), &req)
	if err != nil {
		if shared.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListByCategory retrieves a category's scans with pagination
// GET /api/categories/:id/scans?page=1&page_size=20
func (h *ScanHandler) ListByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	scans, err := h.scanService.GetCategoryScans(c.Request.Context(), userID.(string), categoryID, page, pageSize)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scans)
}
