package dto

import (
	"time"

	"leafhub/internal/microservices/http-api/models"
)

// RecordScanDTO for recording an already-classified diagnosis
type RecordScanDTO struct {
	CategoryID           int64      `json:"category_id" binding:"required"`
	DiseaseName          string     `json:"disease_name" binding:"required"`
	PlantName            string     `json:"plant_name" binding:"required"`
	ConfidencePercentage float64    `json:"confidence_percentage" binding:"min=0,max=100"`
	SeverityPercentage   float64    `json:"severity_percentage" binding:"min=0,max=100"`
	ImageURL             string     `json:"image_url,omitempty"`
	DiagnosedDate        *time.Time `json:"diagnosed_date,omitempty"`
}

// DiagnoseScanDTO for the classifier-backed submission flow: the external
// classifier fills in disease, confidence and severity from the image
type DiagnoseScanDTO struct {
	CategoryID int64  `json:"category_id" binding:"required"`
	ImageURL   string `json:"image_url" binding:"required,url"`
}

// ScanResponse for returning scan information
type ScanResponse struct {
	ID                   int64     `json:"id"`
	CategoryID           int64     `json:"category_id"`
	DiseaseName          string    `json:"disease_name"`
	PlantName            string    `json:"plant_name"`
	ConfidencePercentage float64   `json:"confidence_percentage"`
	SeverityPercentage   float64   `json:"severity_percentage"`
	ImageURL             string    `json:"image_url,omitempty"`
	DiagnosedDate        time.Time `json:"diagnosed_date"`
	CreatedAt            time.Time `json:"created_at"`
}

// FromModelToScanResponse converts a Scan model to ScanResponse DTO
func FromModelToScanResponse(scan *models.Scan) *ScanResponse {
	return &ScanResponse{
		ID:                   scan.ID,
		CategoryID:           scan.CategoryID,
		DiseaseName:          scan.DiseaseName,
		PlantName:            scan.PlantName,
		ConfidencePercentage: scan.ConfidencePercentage,
		SeverityPercentage:   scan.SeverityPercentage,
		ImageURL:             scan.ImageURL,
		DiagnosedDate:        scan.DiagnosedDate,
		CreatedAt:            scan.CreatedAt,
	}
}

// RecordScanResponse pairs the created scan with the owning category's
// aggregate snapshot after the write
type RecordScanResponse struct {
	Scan     ScanResponse     `json:"scan"`
	Category CategoryResponse `json:"category"`
}

// PaginatedScanResponse for returning paginated scans
type PaginatedScanResponse struct {
	Data       []ScanResponse `json:"data"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// NewPaginatedScanResponse creates a paginated scan response
func NewPaginatedScanResponse(data []ScanResponse, total, page, pageSize int) *PaginatedScanResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedScanResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
