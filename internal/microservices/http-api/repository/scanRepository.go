package repository

import (
	"errors"

	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/shared"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DiseaseCount is one GROUP BY bucket from the scan ledger.
type DiseaseCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type ScanRepository interface {
	Create(scan *models.Scan) error
	GetByID(scanID int64) (*models.Scan, error)
	GetByCategory(categoryID int64, page, pageSize int) ([]models.Scan, int64, error)
	CountInScope(userID string, categoryID *int64) (int64, error)
	DiseaseCounts(userID string, categoryID *int64, limit int) ([]DiseaseCount, error)
}

type scanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

// foreignKeyViolation is the postgres error code for a missing referenced row
const foreignKeyViolation = "23503"

// Create appends a scan to the ledger. Scans are never updated or deleted.
func (r *scanRepository) Create(scan *models.Scan) error {
	err := r.db.Create(scan).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *scanRepository) GetByID(scanID int64) (*models.Scan, error) {
	var scan models.Scan
	if err := r.db.First(&scan, "id = ?", scanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &scan, nil
}

// GetByCategory retrieves scans for a category with pagination, newest first
func (r *scanRepository) GetByCategory(categoryID int64, page, pageSize int) ([]models.Scan, int64, error) {
	var scans []models.Scan
	var total int64

	// Count total scans
	if err := r.db.Model(&models.Scan{}).Where("category_id = ?", categoryID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated scans
	offset := (page - 1) * pageSize
	err := r.db.Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&scans).Error

	if err != nil {
		return nil, 0, err
	}

	return scans, total, nil
}

// CountInScope counts all scans for an owner, optionally narrowed to one
// category. This is the denominator for distribution percentages.
func (r *scanRepository) CountInScope(userID string, categoryID *int64) (int64, error) {
	var count int64
	query := r.db.Model(&models.Scan{}).Where("user_id = ?", userID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	err := query.Count(&count).Error
	return count, err
}

// DiseaseCounts groups scans in scope by disease name, most frequent first,
// ties broken by name ascending so the ranking is deterministic.
func (r *scanRepository) DiseaseCounts(userID string, categoryID *int64, limit int) ([]DiseaseCount, error) {
	var counts []DiseaseCount
	query := r.db.Model(&models.Scan{}).
		Select("disease_name AS name, COUNT(*) AS value").
		Where("user_id = ?", userID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	err := query.Group("disease_name").
		Order("value DESC, disease_name ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
