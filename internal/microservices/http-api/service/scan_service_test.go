package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"leafhub/internal/ingestion/classifier"
	"leafhub/internal/microservices/http-api/dto"
	"leafhub/internal/microservices/http-api/models"
	"leafhub/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockDiagnoser mocks the Diagnoser interface
type MockDiagnoser struct {
	mock.Mock
}

func (m *MockDiagnoser) Diagnose(ctx context.Context, imageURL string) (*classifier.Result, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Result), args.Error(1)
}

func newTestScanService(scans *MockScanRepository, categories *MockCategoryRepository, diagnoser *MockDiagnoser) ScanService {
	return NewScanService(scans, categories, nil, diagnoser, slog.New(slog.DiscardHandler))
}

func TestRecordScan_Success(t *testing.T) {
	mockScans := new(MockScanRepository)
	mockCategories := new(MockCategoryRepository)
	svc := newTestScanService(mockScans, mockCategories, nil)

	owned := &models.Category{ID: 1, UserID: "user-1", CategoryName: "Tomato Blight"}
	bumped := &models.Category{ID: 1, UserID: "user-1", CategoryName: "Tomato Blight", DiagnosisCount: 1}

	mockCategories.On("GetByID", int64(1)).Return(owned, nil).Once()
	mockScans.On("Create", mock.MatchedBy(func(s *models.Scan) bool {
		return s.CategoryID == 1 && s.UserID == "user-1" && s.DiseaseName == "Late Blight"
	})).Return(nil).Once()
	mockCategories.On("IncrementDiagnosis", int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockCategories.On("GetByID", int64(1)).Return(bumped, nil).Once()

	resp, err := svc.RecordScan(context.Background(), "user-1", &dto.RecordScanDTO{
		CategoryID:           1,
		DiseaseName:          " Late Blight ",
		PlantName:            "Tomato",
		ConfidencePercentage: 91.5,
		SeverityPercentage:   40,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Late Blight", resp.Scan.DiseaseName)
	assert.Equal(t, int64(1), resp.Category.DiagnosisCount)
	mockScans.AssertExpectations(t)
	mockCategories.AssertExpectations(t)
}

func TestRecordScan_AggregateBumpFailureDoesNotFailRequest(t *testing.T) {
	mockScans := new(MockScanRepository)
	mockCategories := new(MockCategoryRepository)
	svc := newTestScanService(mockScans, mockCategories, nil)

	owned := &models.Category{ID: 1, UserID: "user-1", DiagnosisCount: 5}

	mockCategories.On("GetByID", int64(1)).Return(owned, nil).Twice()
	mockScans.On("Create", mock.Anything).Return(nil).Once()
	mockCategories.On("IncrementDiagnosis", int64(1), mock.AnythingOfType("time.Time")).
		Return(errors.New("deadlock detected")).Once()

	resp, err := svc.RecordScan(context.Background(), "user-1", &dto.RecordScanDTO{
		CategoryID:  1,
		DiseaseName: "Rust",
		PlantName:   "Rose",
	})

	// The scan is the durable fact; a failed counter bump is drift, not an error
	assert.NoError(t, err)
	assert.Equal(t, int64(5), resp.Category.DiagnosisCount)
	mockCategories.AssertExpectations(t)
}

func TestRecordScan_Validation(t *testing.T) {
	svc := newTestScanService(new(MockScanRepository), new(MockCategoryRepository), nil)

	cases := []struct {
		name string
		req  dto.RecordScanDTO
	}{
		{"EmptyDisease", dto.RecordScanDTO{CategoryID: 1, DiseaseName: "  ", PlantName: "Tomato"}},
		{"ConfidenceAbove100", dto.RecordScanDTO{CategoryID: 1, DiseaseName: "Rust", PlantName: "Rose", ConfidencePercentage: 100.1}},
		{"NegativeSeverity", dto.RecordScanDTO{CategoryID: 1, DiseaseName: "Rust", PlantName: "Rose", SeverityPercentage: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordScan(context.Background(), "user-1", &tc.req)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestRecordScan_ForeignCategory(t *testing.T) {
	mockScans := new(MockScanRepository)
	mockCategories := new(MockCategoryRepository)
	svc := newTestScanService(mockScans, mockCategories, nil)

	mockCategories.On("GetByID", int64(2)).Return(&models.Category{ID: 2, UserID: "other"}, nil).Once()

	_, err := svc.RecordScan(context.Background(), "user-1", &dto.RecordScanDTO{
		CategoryID:  2,
		DiseaseName: "Rust",
		PlantName:   "Rose",
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	mockScans.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRecordScan_KeepsCallerDiagnosedDate(t *testing.T) {
	mockScans := new(MockScanRepository)
	mockCategories := new(MockCategoryRepository)
	svc := newTestScanService(mockScans, mockCategories, nil)

	diagnosed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	owned := &models.Category{ID: 1, UserID: "user-1"}

	mockCategories.On("GetByID", int64(1)).Return(owned, nil).Twice()
	mockScans.On("Create", mock.MatchedBy(func(s *models.Scan) bool {
		return s.DiagnosedDate.Equal(diagnosed)
	})).Return(nil).Once()
	mockCategories.On("IncrementDiagnosis", int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := svc.RecordScan(context.Background(), "user-1", &dto.RecordScanDTO{
		CategoryID:    1,
		DiseaseName:   "Rust",
		PlantName:     "Rose",
		DiagnosedDate: &diagnosed,
	})

	assert.NoError(t, err)
	mockScans.AssertExpectations(t)
}

func TestDiagnoseAndRecord(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockScans := new(MockScanRepository)
		mockCategories := new(MockCategoryRepository)
		mockDiagnoser := new(MockDiagnoser)
		svc := newTestScanService(mockScans, mockCategories, mockDiagnoser)

		owned := &models.Category{ID: 1, UserID: "user-1"}
		mockDiagnoser.On("Diagnose", mock.Anything, "https://img.example.com/leaf.jpg").Return(&classifier.Result{
			DiseaseName:          "Powdery Mildew",
			PlantName:            "Cucumber",
			ConfidencePercentage: 88,
			SeverityPercentage:   25,
		}, nil).Once()
		mockCategories.On("GetByID", int64(1)).Return(owned, nil).Twice()
		mockScans.On("Create", mock.MatchedBy(func(s *models.Scan) bool {
			return s.DiseaseName == "Powdery Mildew" && s.ImageURL == "https://img.example.com/leaf.jpg"
		})).Return(nil).Once()
		mockCategories.On("IncrementDiagnosis", int64(1), mock.AnythingOfType("time.Time")).Return(nil).Once()

		resp, err := svc.DiagnoseAndRecord(context.Background(), "user-1", &dto.DiagnoseScanDTO{
			CategoryID: 1,
			ImageURL:   "https://img.example.com/leaf.jpg",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Powdery Mildew", resp.Scan.DiseaseName)
		mockDiagnoser.AssertExpectations(t)
	})

	t.Run("ClassifierError", func(t *testing.T) {
		mockDiagnoser := new(MockDiagnoser)
		svc := newTestScanService(new(MockScanRepository), new(MockCategoryRepository), mockDiagnoser)

		mockDiagnoser.On("Diagnose", mock.Anything, mock.Anything).Return(nil, errors.New("classifier unavailable")).Once()

		_, err := svc.DiagnoseAndRecord(context.Background(), "user-1", &dto.DiagnoseScanDTO{
			CategoryID: 1,
			ImageURL:   "https://img.example.com/leaf.jpg",
		})

		assert.Error(t, err)
	})
}

func TestGetCategoryScans(t *testing.T) {
	mockScans := new(MockScanRepository)
	mockCategories := new(MockCategoryRepository)
	svc := newTestScanService(mockScans, mockCategories, nil)

	mockCategories.On("GetByID", int64(1)).Return(&models.Category{ID: 1, UserID: "user-1"}, nil).Once()
	mockScans.On("GetByCategory", int64(1), 1, 20).Return([]models.Scan{
		{ID: 1, CategoryID: 1, DiseaseName: "Rust"},
		{ID: 2, CategoryID: 1, DiseaseName: "Blight"},
	}, int64(2), nil).Once()

	resp, err := svc.GetCategoryScans(context.Background(), "user-1", 1, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	mockScans.AssertExpectations(t)
}
