package repository

import (
	"context"

	"github.com/orientame/onboarding-api/internal/models"
)

// CounselorRepositoryInterface defines counselor data access operations
type CounselorRepositoryInterface interface {
	Create(ctx context.Context, counselor *models.Counselor) error
	ListByExecutive(ctx context.Context, executiveID string) ([]*models.Counselor, error)
}

// CounselorRepository handles counselor data access
type CounselorRepository struct {
	dataSource CounselorDataSource
}

// NewCounselorRepository creates a new counselor repository
func NewCounselorRepository(dataSource CounselorDataSource) *CounselorRepository {
	return &CounselorRepository{dataSource: dataSource}
}

// Create stores a submitted counselor
func (r *CounselorRepository) Create(ctx context.Context, counselor *models.Counselor) error {
	return r.dataSource.CreateCounselor(ctx, counselor)
}

// ListByExecutive returns the counselors an executive registered
func (r *CounselorRepository) ListByExecutive(ctx context.Context, executiveID string) ([]*models.Counselor, error) {
	return r.dataSource.ListCounselorsByExecutive(ctx, executiveID)
}
