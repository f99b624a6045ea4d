package dto

import (
	"time"

	"leafhub/internal/microservices/http-api/models"
)

// GetOrCreateCategoryDTO for the get-or-create category flow
type GetOrCreateCategoryDTO struct {
	CategoryName string `json:"category_name" binding:"required"`
	PlantType    string `json:"plant_type,omitempty"`
}

// CategoryResponse is the category aggregate snapshot returned to clients
type CategoryResponse struct {
	ID             int64     `json:"id"`
	CategoryName   string    `json:"category_name"`
	PlantType      string    `json:"plant_type"`
	DiagnosisCount int64     `json:"diagnosis_count"`
	LastSaved      time.Time `json:"last_saved"`
	CreatedAt      time.Time `json:"created_at"`
}

// FromModelToCategoryResponse converts a Category model to CategoryResponse DTO
func FromModelToCategoryResponse(category *models.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:             category.ID,
		CategoryName:   category.CategoryName,
		PlantType:      category.PlantType,
		DiagnosisCount: category.DiagnosisCount,
		LastSaved:      category.LastSaved,
		CreatedAt:      category.CreatedAt,
	}
}

// CategoryListResponse for returning all of an owner's categories
type CategoryListResponse struct {
	Data  []CategoryResponse `json:"data"`
	Total int                `json:"total"`
}

// NewCategoryListResponse builds a list response from category models
func NewCategoryListResponse(categories []models.Category) *CategoryListResponse {
	data := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		data = append(data, *FromModelToCategoryResponse(&category))
	}
	return &CategoryListResponse{Data: data, Total: len(data)}
}
