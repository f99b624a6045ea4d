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

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// RegisterRoutes registers category-related routes (authenticated by parent middleware)
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.GetOrCreate)              // Get-or-create a category by name
		categories.GET("", h.List)                      // List the caller's categories
		categories.GET("/:id", h.Get)                   // Get one category's aggregate snapshot
		categories.POST("/:id/recompute", h.Recompute)  // Reconcile aggregates from the scan ledger
	}
}

// GetOrCreate returns the existing category for (owner, name) or creates it
// POST /api/categories
func (h *CategoryHandler) GetOrCreate(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.GetOrCreateCategoryDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, created, err := h.categoryService.GetOrCreate(c.Request.Context(), userID.(string), req.CategoryName, req.PlantType)
	if err != nil {
		if shared.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, shared.ErrConflict) {
			// A concurrent creation won the race; the client should retry
			c.JSON(http.StatusConflict, gin.H{"error": "category was created concurrently, retry the request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, category)
}

// List returns all of the caller's categories
// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// Get returns one category's aggregate snapshot
// GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
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

	category, err := h.categoryService.GetCategory(c.Request.Context(), userID.(string), categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}

// Recompute recounts the category's aggregates from the scan ledger
// POST /api/categories/:id/recompute
func (h *CategoryHandler) Recompute(c *gin.Context) {
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

	category, err := h.categoryService.RecomputeAggregate(c.Request.Context(), userID.(string), categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, category)
}
