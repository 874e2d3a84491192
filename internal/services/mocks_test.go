package services_test

import (
	"context"

	"github.com/orientame/onboarding-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockExecutiveRepository is a mock implementation of ExecutiveRepositoryInterface
type MockExecutiveRepository struct {
	mock.Mock
}

func (m *MockExecutiveRepository) Create(ctx context.Context, executive *models.Executive) error {
	args := m.Called(ctx, executive)
	return args.Error(0)
}

func (m *MockExecutiveRepository) GetByID(ctx context.Context, id string) (*models.Executive, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Executive), args.Error(1)
}

// MockCounselorRepository is a mock implementation of CounselorRepositoryInterface
type MockCounselorRepository struct {
	mock.Mock
}

func (m *MockCounselorRepository) Create(ctx context.Context, counselor *models.Counselor) error {
	args := m.Called(ctx, counselor)
	return args.Error(0)
}

func (m *MockCounselorRepository) ListByExecutive(ctx context.Context, executiveID string) ([]*models.Counselor, error) {
	args := m.Called(ctx, executiveID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Counselor), args.Error(1)
}
