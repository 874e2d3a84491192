package services

import (
	"context"

	"github.com/orientame/onboarding-api/internal/models"
)

// ExecutiveServiceInterface defines the wizard's first step
type ExecutiveServiceInterface interface {
	CreateExecutive(ctx context.Context, req *models.CreateExecutiveRequest) (*models.CreateExecutiveResponse, error)
}

// CounselorFormServiceInterface defines the counselor step of the wizard.
// Every form operation is scoped to the session's executive.
type CounselorFormServiceInterface interface {
	Open(ctx context.Context, session *models.WizardSession) (*models.CounselorForm, error)
	Get(ctx context.Context, session *models.WizardSession, formID string) (*models.CounselorForm, error)
	Edit(ctx context.Context, session *models.WizardSession, formID string, req *models.EditFieldRequest) (*models.CounselorForm, error)
	Submit(ctx context.Context, session *models.WizardSession, formID string) (*models.SubmitResult, error)
	Back(ctx context.Context, session *models.WizardSession, formID string) error
	ListCounselors(ctx context.Context, session *models.WizardSession) ([]*models.Counselor, error)
	Catalog() *models.CatalogResponse
}
