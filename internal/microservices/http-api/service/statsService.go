package service

import (
	"context"
	"math"

	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/repository"
	"leafhub/internal/shared"
)

const defaultTopDiseases = 5

type StatsService interface {
	TopDiseases(ctx context.Context, userID string, categoryID *int64, k int) (*dto.TopDiseasesResponse, error)
}

type statsService struct {
	scanRepo     repository.ScanRepository
	categoryRepo repository.CategoryRepository
}

func NewStatsService(scanRepo repository.ScanRepository, categoryRepo repository.CategoryRepository) StatsService {
	return &statsService{
		scanRepo:     scanRepo,
		categoryRepo: categoryRepo,
	}
}

// TopDiseases summarizes the scan ledger in scope into the k most frequent
// diseases. Percentages are taken against every scan in scope, not just the
// returned buckets, and an empty scope yields an empty result, not an error.
// No "other" bucket is synthesized; that is a presentation choice.
func (s *statsService) TopDiseases(ctx context.Context, userID string, categoryID *int64, k int) (*dto.TopDiseasesResponse, error) {
	if k <= 0 {
		k = defaultTopDiseases
	}

	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(*categoryID)
		if err != nil {
			return nil, err
		}
		if category.UserID != userID {
			return nil, shared.ErrNotFound
		}
	}

	total, err := s.scanRepo.CountInScope(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return &dto.TopDiseasesResponse{Data: []dto.DiseaseStat{}, TotalScans: 0}, nil
	}

	counts, err := s.scanRepo.DiseaseCounts(userID, categoryID, k)
	if err != nil {
		return nil, err
	}

	stats := make([]dto.DiseaseStat, 0, len(counts))
	for _, c := range counts {
		stats = append(stats, dto.DiseaseStat{
			Name:       c.Name,
			Value:      c.Value,
			Percentage: roundToOneDecimal(float64(c.Value) / float64(total) * 100),
		})
	}

	return &dto.TopDiseasesResponse{Data: stats, TotalScans: total}, nil
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
