package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups Scan records for one user. DiagnosisCount and LastSaved
// are denormalized aggregates derived from the scans table: the ledger is
// the source of truth and the columns here are a reconcilable cache.
type Category struct {
	ID           int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_categories_owner_name"`
	CategoryName string `json:"category_name" gorm:"size:50;not null;uniqueIndex:idx_categories_owner_name"`
	PlantType    string `json:"plant_type" gorm:"not null;default:'Unknown Plant'"`

	// Aggregates over the scan ledger. Mutated only by atomic in-place
	// updates or by RecomputeAggregate, never by whole-row saves.
	DiagnosisCount int64     `json:"diagnosis_count" gorm:"not null;default:0"`
	LastSaved      time.Time `json:"last_saved" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Associations
	User  User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Scans []Scan `json:"scans,omitempty" gorm:"foreignKey:CategoryID"`
}

// BeforeCreate seeds LastSaved with the creation time so a category with no
// scans still has a meaningful last-activity timestamp.
func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.LastSaved.IsZero() {
		c.LastSaved = time.Now().UTC()
	}
	return
}

func (Category) TableName() string {
	return "categories"
}
