package repository

import (
	"errors"
	"time"

	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/shared"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(categoryID int64) (*models.Category, error)
	GetByOwnerAndName(userID, name string) (*models.Category, error)
	ListByOwner(userID string) ([]models.Category, error)
	IncrementDiagnosis(categoryID int64, scannedAt time.Time) error
	RecomputeAggregate(categoryID int64) (*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// uniqueViolation is the postgres error code for a unique constraint failure
const uniqueViolation = "23505"

// Create inserts a new category. A duplicate (user_id, category_name) pair
// is reported as shared.ErrConflict so the caller can retry the lookup: the
// uniqueness constraint, not a check-then-insert, is the source of truth.
func (r *categoryRepository) Create(category *models.Category) error {
	err := r.db.Create(category).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return shared.ErrConflict
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrConflict
		}
		return err
	}
	return nil
}

func (r *categoryRepository) GetByID(categoryID int64) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByOwnerAndName does a case-sensitive lookup on the trimmed name.
func (r *categoryRepository) GetByOwnerAndName(userID, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("user_id = ? AND category_name = ?", userID, name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByOwner(userID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("user_id = ?", userID).
		Order("last_saved DESC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// IncrementDiagnosis bumps the diagnosis counter and advances last_saved in
// a single conditional UPDATE. Never read-modify-write the row: concurrent
// scans against the same category would lose increments.
func (r *categoryRepository) IncrementDiagnosis(categoryID int64, scannedAt time.Time) error {
	result := r.db.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Updates(map[string]interface{}{
			"diagnosis_count": gorm.Expr("diagnosis_count + 1"),
			"last_saved":      gorm.Expr("GREATEST(last_saved, ?)", scannedAt),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecomputeAggregate resets diagnosis_count and last_saved from the scan
// ledger in one statement. Idempotent, and safe to race with live inserts:
// whatever interleaving occurs, re-running converges on the true counts.
func (r *categoryRepository) RecomputeAggregate(categoryID int64) (*models.Category, error) {
	result := r.db.Exec(`
		UPDATE categories c SET
			diagnosis_count = agg.cnt,
			last_saved      = COALESCE(agg.latest, c.created_at)
		FROM (
			SELECT COUNT(*) AS cnt, MAX(created_at) AS latest
			FROM scans
			WHERE category_id = ?
		) agg
		WHERE c.id = ?`, categoryID, categoryID)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return r.GetByID(categoryID)
}
