package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/microservices/http-api/repository"
	"leafhub/internal/shared"
)

const maxCategoryNameLen = 50

// defaultPlantType is used when the caller doesn't name the plant
const defaultPlantType = "Unknown Plant"

type CategoryService interface {
	GetOrCreate(ctx context.Context, userID, name, plantType string) (*dto.CategoryResponse, bool, error)
	GetCategory(ctx context.Context, userID string, categoryID int64) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context, userID string) (*dto.CategoryListResponse, error)
	RecomputeAggregate(ctx context.Context, userID string, categoryID int64) (*dto.CategoryResponse, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        *repository.CategoryCache
	logger       *slog.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cache *repository.CategoryCache, logger *slog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetOrCreate returns the category matching (owner, trimmed name), creating
// it if absent. The create relies on the unique (user_id, category_name)
// constraint rather than check-then-insert: if a concurrent creation wins
// the race, the insert comes back shared.ErrConflict and the caller retries
// the lookup. The second return value reports whether a row was created.
func (s *categoryService) GetOrCreate(ctx context.Context, userID, name, plantType string) (*dto.CategoryResponse, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, shared.NewValidationError("category_name", "must not be empty")
	}
	if len(name) > maxCategoryNameLen {
		return nil, false, shared.NewValidationError("category_name", "must be at most 50 characters")
	}

	// Fast path: already exists
	existing, err := s.categoryRepo.GetByOwnerAndName(userID, name)
	if err == nil {
		return dto.FromModelToCategoryResponse(existing), false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	if plantType == "" {
		plantType = defaultPlantType
	}

	category := &models.Category{
		UserID:       userID,
		CategoryName: name,
		PlantType:    plantType,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		// shared.ErrConflict surfaces to the caller; the winning row exists
		// now and a retried lookup will find it
		return nil, false, err
	}

	return dto.FromModelToCategoryResponse(category), true, nil
}

// GetCategory returns the aggregate snapshot for one of the owner's
// categories, trying the Redis cache before postgres.
func (s *categoryService) GetCategory(ctx context.Context, userID string, categoryID int64) (*dto.CategoryResponse, error) {
	if cached, err := s.cache.Get(ctx, categoryID); err == nil && cached != nil {
		if cached.UserID != userID {
			return nil, shared.ErrNotFound
		}
		return dto.FromModelToCategoryResponse(cached), nil
	} else if err != nil {
		s.logger.Debug("category_cache_read_failed", "category_id", categoryID, "error", err)
	}

	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, shared.ErrNotFound
	}

	if err := s.cache.Set(ctx, category); err != nil {
		s.logger.Debug("category_cache_write_failed", "category_id", categoryID, "error", err)
	}

	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) ListCategories(ctx context.Context, userID string) (*dto.CategoryListResponse, error) {
	categories, err := s.categoryRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryListResponse(categories), nil
}

// RecomputeAggregate recounts the scan ledger and resets the category's
// diagnosis_count and last_saved. This is the authoritative recovery path
// for aggregate drift; it is idempotent, so racing with live scan inserts
// is harmless.
func (s *categoryService) RecomputeAggregate(ctx context.Context, userID string, categoryID int64) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, shared.ErrNotFound
	}

	recomputed, err := s.categoryRepo.RecomputeAggregate(categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, categoryID); err != nil {
		s.logger.Debug("category_cache_invalidate_failed", "category_id", categoryID, "error", err)
	}

	return dto.FromModelToCategoryResponse(recomputed), nil
}
