package repository

import (
	"context"

	"github.com/orientame/onboarding-api/internal/models"
)

// ExecutiveRepositoryInterface defines executive data access operations
type ExecutiveRepositoryInterface interface {
	Create(ctx context.Context, executive *models.Executive) error
	GetByID(ctx context.Context, id string) (*models.Executive, error)
}

// ExecutiveRepository handles executive data access
type ExecutiveRepository struct {
	dataSource ExecutiveDataSource
}

// NewExecutiveRepository creates a new executive repository
func NewExecutiveRepository(dataSource ExecutiveDataSource) *ExecutiveRepository {
	return &ExecutiveRepository{dataSource: dataSource}
}

// Create stores a new executive
func (r *ExecutiveRepository) Create(ctx context.Context, executive *models.Executive) error {
	return r.dataSource.CreateExecutive(ctx, executive)
}

// GetByID fetches an executive
func (r *ExecutiveRepository) GetByID(ctx context.Context, id string) (*models.Executive, error) {
	return r.dataSource.GetExecutive(ctx, id)
}
