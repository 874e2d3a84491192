package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/orientame/onboarding-api/internal/models"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
)

// MemoryDataSource keeps executives and counselors in process memory.
// Used when DB_WORK_OFFLINE is set; everything is lost on restart.
type MemoryDataSource struct {
	mu         sync.RWMutex
	executives map[string]models.Executive
	counselors map[string][]models.Counselor
}

// NewMemoryDataSource creates an empty in-memory data source
func NewMemoryDataSource() *MemoryDataSource {
	return &MemoryDataSource{
		executives: make(map[string]models.Executive),
		counselors: make(map[string][]models.Counselor),
	}
}

// CreateExecutive stores a new executive
func (ds *MemoryDataSource) CreateExecutive(_ context.Context, executive *models.Executive) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if _, exists := ds.executives[executive.ID]; exists {
		return apperrors.ConflictError(fmt.Sprintf("executive %s already exists", executive.ID))
	}
	ds.executives[executive.ID] = *executive
	return nil
}

// GetExecutive fetches an executive by id
func (ds *MemoryDataSource) GetExecutive(_ context.Context, id string) (*models.Executive, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	executive, ok := ds.executives[id]
	if !ok {
		return nil, apperrors.NotFoundError("executive")
	}
	return &executive, nil
}

// CreateCounselor stores a submitted counselor
func (ds *MemoryDataSource) CreateCounselor(_ context.Context, counselor *models.Counselor) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for _, existing := range ds.counselors[counselor.ExecutiveID] {
		if existing.ID == counselor.ID {
			return apperrors.ConflictError(fmt.Sprintf("counselor %s already exists", counselor.ID))
		}
	}
	ds.counselors[counselor.ExecutiveID] = append(ds.counselors[counselor.ExecutiveID], *counselor)
	return nil
}

// ListCounselorsByExecutive returns an executive's counselors in insertion order
func (ds *MemoryDataSource) ListCounselorsByExecutive(_ context.Context, executiveID string) ([]*models.Counselor, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	stored := ds.counselors[executiveID]
	result := make([]*models.Counselor, 0, len(stored))
	for i := range stored {
		c := stored[i]
		result = append(result, &c)
	}
	return result, nil
}

var _ DataSource = (*MemoryDataSource)(nil)
