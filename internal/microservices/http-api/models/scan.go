package models

import "time"

// Scan is one diagnosis event. Rows are append-only ledger entries: no
// updated_at column, and nothing in the codebase updates or deletes them.
type Scan struct {
	ID                   int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CategoryID           int64     `json:"category_id" gorm:"not null;index"`
	UserID               string    `json:"user_id" gorm:"type:uuid;not null;index"`
	DiseaseName          string    `json:"disease_name" gorm:"not null;index"`
	PlantName            string    `json:"plant_name" gorm:"not null"`
	ConfidencePercentage float64   `json:"confidence_percentage" gorm:"not null;check:confidence_percentage >= 0 AND confidence_percentage <= 100"`
	SeverityPercentage   float64   `json:"severity_percentage" gorm:"not null;check:severity_percentage >= 0 AND severity_percentage <= 100"`
	ImageURL             string    `json:"image_url"`
	DiagnosedDate        time.Time `json:"diagnosed_date"`
	CreatedAt            time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;"`
	User     User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Scan) TableName() string {
	return "scans"
}
