package repository

import (
	"context"

	"github.com/orientame/onboarding-api/internal/models"
)

// ExecutiveDataSource defines executive persistence.
// This allows switching between PostgreSQL and the offline in-memory store.
type ExecutiveDataSource interface {
	// CreateExecutive stores a new executive
	CreateExecutive(ctx context.Context, executive *models.Executive) error

	// GetExecutive fetches a single executive by id
	GetExecutive(ctx context.Context, id string) (*models.Executive, error)
}

// CounselorDataSource defines counselor persistence
type CounselorDataSource interface {
	// CreateCounselor stores a submitted counselor
	CreateCounselor(ctx context.Context, counselor *models.Counselor) error

	// ListCounselorsByExecutive returns an executive's counselors, oldest first
	ListCounselorsByExecutive(ctx context.Context, executiveID string) ([]*models.Counselor, error)
}

// DataSource is implemented by every storage backend
type DataSource interface {
	ExecutiveDataSource
	CounselorDataSource
}
