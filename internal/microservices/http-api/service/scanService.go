package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"leafhub/internal/ingestion/classifier"
	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/microservices/http-api/repository"
	"leafhub/internal/shared"
)

// Diagnoser is the external disease classifier. It is an opaque
// collaborator: this service only persists and aggregates what it returns.
type Diagnoser interface {
	Diagnose(ctx context.Context, imageURL string) (*classifier.Result, error)
}

type ScanService interface {
	RecordScan(ctx context.Context, userID string, req *dto.RecordScanDTO) (*dto.RecordScanResponse, error)
	DiagnoseAndRecord(ctx context.Context, userID string, req *dto.DiagnoseScanDTO) (*dto.RecordScanResponse, error)
	GetCategoryScans(ctx context.Context, userID string, categoryID int64, page, pageSize int) (*dto.PaginatedScanResponse, error)
}

type scanService struct {
	scanRepo     repository.ScanRepository
	categoryRepo repository.CategoryRepository
	cache        *repository.CategoryCache
	diagnoser    Diagnoser
	logger       *slog.Logger
}

func NewScanService(
	scanRepo repository.ScanRepository,
	categoryRepo repository.CategoryRepository,
	cache *repository.CategoryCache,
	diagnoser Diagnoser,
	logger *slog.Logger,
) ScanService {
	return &scanService{
		scanRepo:     scanRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		diagnoser:    diagnoser,
		logger:       logger,
	}
}

// RecordScan appends a scan to the ledger, then bumps the owning category's
// aggregates. The two writes share no transaction on purpose: the scan
// insert is the durable fact, and the aggregate bump is best-effort. If the
// bump fails the request still succeeds, the drift is logged, and
// RecomputeAggregate repairs it from the ledger later.
func (s *scanService) RecordScan(ctx context.Context, userID string, req *dto.RecordScanDTO) (*dto.RecordScanResponse, error) {
	if strings.TrimSpace(req.DiseaseName) == "" {
		return nil, shared.NewValidationError("disease_name", "must not be empty")
	}
	if req.ConfidencePercentage < 0 || req.ConfidencePercentage > 100 {
		return nil, shared.NewValidationError("confidence_percentage", "must be between 0 and 100")
	}
	if req.SeverityPercentage < 0 || req.SeverityPercentage > 100 {
		return nil, shared.NewValidationError("severity_percentage", "must be between 0 and 100")
	}

	// The category must exist and belong to the caller
	category, err := s.categoryRepo.GetByID(req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, shared.ErrNotFound
	}

	diagnosedDate := time.Now().UTC()
	if req.DiagnosedDate != nil {
		diagnosedDate = *req.DiagnosedDate
	}

	scan := &models.Scan{
		CategoryID:           req.CategoryID,
		UserID:               userID,
		DiseaseName:          strings.TrimSpace(req.DiseaseName),
		PlantName:            req.PlantName,
		ConfidencePercentage: req.ConfidencePercentage,
		SeverityPercentage:   req.SeverityPercentage,
		ImageURL:             req.ImageURL,
		DiagnosedDate:        diagnosedDate,
	}
	if err := s.scanRepo.Create(scan); err != nil {
		return nil, err
	}

	// Best-effort aggregate bump. An atomic in-place increment, never a
	// read-modify-write of the category row.
	if err := s.categoryRepo.IncrementDiagnosis(req.CategoryID, scan.CreatedAt); err != nil {
		s.logger.Warn("category_aggregate_update_failed",
			"category_id", req.CategoryID,
			"scan_id", scan.ID,
			"error", err,
		)
		// The scan is durable; reconciliation will repair the counters.
	} else if err := s.cache.Invalidate(ctx, req.CategoryID); err != nil {
		s.logger.Debug("category_cache_invalidate_failed", "category_id", req.CategoryID, "error", err)
	}

	// Snapshot after the write. If the bump failed this may lag the ledger,
	// which the policy allows.
	snapshot, err := s.categoryRepo.GetByID(req.CategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		snapshot = category
	}

	return &dto.RecordScanResponse{
		Scan:     *dto.FromModelToScanResponse(scan),
		Category: *dto.FromModelToCategoryResponse(snapshot),
	}, nil
}

// DiagnoseAndRecord runs the external classifier over the submitted image
// and records the resulting diagnosis as a scan.
func (s *scanService) DiagnoseAndRecord(ctx context.Context, userID string, req *dto.DiagnoseScanDTO) (*dto.RecordScanResponse, error) {
	if s.diagnoser == nil {
		return nil, errors.New("no classifier configured")
	}

	result, err := s.diagnoser.Diagnose(ctx, req.ImageURL)
	if err != nil {
		return nil, err
	}

	return s.RecordScan(ctx, userID, &dto.RecordScanDTO{
		CategoryID:           req.CategoryID,
		DiseaseName:          result.DiseaseName,
		PlantName:            result.PlantName,
		ConfidencePercentage: result.ConfidencePercentage,
		SeverityPercentage:   result.SeverityPercentage,
		ImageURL:             req.ImageURL,
	})
}

// GetCategoryScans retrieves the category's ledger entries with pagination
func (s *scanService) GetCategoryScans(ctx context.Context, userID string, categoryID int64, page, pageSize int) (*dto.PaginatedScanResponse, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, shared.ErrNotFound
	}

	scans, total, err := s.scanRepo.GetByCategory(categoryID, page, pageSize)
	if err != nil {
		return nil, err
	}

	scanResponses := make([]dto.ScanResponse, 0, len(scans))
	for _, scan := range scans {
		scanResponses = append(scanResponses, *dto.FromModelToScanResponse(&scan))
	}

	return dto.NewPaginatedScanResponse(scanResponses, int(total), page, pageSize), nil
}
