package services

import (
	"context"

	"github.com/orientame/onboarding-api/config"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	"github.com/orientame/onboarding-api/internal/repository"
	"github.com/orientame/onboarding-api/pkg/httpclient"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/trigger"
	"go.uber.org/zap"
)

// CounselorFormService is the parent of the counselor step: it scopes forms
// to the session's executive and receives the counselor once a form is
// submitted.
type CounselorFormService struct {
	coordinator   *onboarding.Coordinator
	catalog       *onboarding.Catalog
	counselorRepo repository.CounselorRepositoryInterface
	config        *config.Config
	httpClient    httpclient.Client
}

// NewCounselorFormService creates a new counselor form service instance
func NewCounselorFormService(
	coordinator *onboarding.Coordinator,
	catalog *onboarding.Catalog,
	counselorRepo repository.CounselorRepositoryInterface,
	cfg *config.Config,
	httpClient httpclient.Client,
) *CounselorFormService {
	return &CounselorFormService{
		coordinator:   coordinator,
		catalog:       catalog,
		counselorRepo: counselorRepo,
		config:        cfg,
		httpClient:    httpClient,
	}
}

// Open mounts a new empty form for the session's executive
func (s *CounselorFormService) Open(ctx context.Context, session *models.WizardSession) (*models.CounselorForm, error) {
	form, err := s.coordinator.Open(ctx, session.Executive())
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// Get returns a form owned by the session's executive
func (s *CounselorFormService) Get(ctx context.Context, session *models.WizardSession, formID string) (*models.CounselorForm, error) {
	form, err := s.owned(ctx, session, formID)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// Edit applies one field change
func (s *CounselorFormService) Edit(ctx context.Context, session *models.WizardSession, formID string, req *models.EditFieldRequest) (*models.CounselorForm, error) {
	if _, err := s.owned(ctx, session, formID); err != nil {
		return nil, err
	}
	form, err := s.coordinator.Edit(ctx, formID, req.Field, req.Value)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// Submit validates the form and, when it passes, saves the counselor
func (s *CounselorFormService) Submit(ctx context.Context, session *models.WizardSession, formID string) (*models.SubmitResult, error) {
	if _, err := s.owned(ctx, session, formID); err != nil {
		return nil, err
	}
	return s.coordinator.Submit(ctx, formID, s.saveCounselor)
}

// Back discards the form
func (s *CounselorFormService) Back(ctx context.Context, session *models.WizardSession, formID string) error {
	if _, err := s.owned(ctx, session, formID); err != nil {
		return err
	}
	return s.coordinator.Back(ctx, formID)
}

// ListCounselors returns the counselors saved by the session's executive
func (s *CounselorFormService) ListCounselors(ctx context.Context, session *models.WizardSession) ([]*models.Counselor, error) {
	counselors, err := s.counselorRepo.ListByExecutive(ctx, session.ExecutiveID)
	if err != nil {
		return nil, err
	}
	if counselors == nil {
		counselors = []*models.Counselor{}
	}
	return counselors, nil
}

// Catalog returns the selectable positions and regions
func (s *CounselorFormService) Catalog() *models.CatalogResponse {
	return &models.CatalogResponse{
		Positions: append([]string(nil), s.catalog.Positions...),
		Regions:   append([]string(nil), s.catalog.Regions...),
	}
}

// saveCounselor is the completion callback handed to the coordinator
func (s *CounselorFormService) saveCounselor(ctx context.Context, counselor models.Counselor) error {
	if err := s.counselorRepo.Create(ctx, &counselor); err != nil {
		logger.Error("Failed to save counselor",
			zap.Error(err),
			zap.String("executive_id", counselor.ExecutiveID))
		return err
	}

	trigger.CallAsync(s.config.EventTriggers.CounselorCreatedTriggerURL, counselor.ID, s.httpClient)
	return nil
}

// owned loads a form and hides it from any other executive
func (s *CounselorFormService) owned(ctx context.Context, session *models.WizardSession, formID string) (models.CounselorForm, error) {
	form, err := s.coordinator.Get(ctx, formID)
	if err != nil {
		return models.CounselorForm{}, err
	}
	if form.Executive.ID != session.ExecutiveID {
		logger.Warn("Counselor form requested by another executive",
			zap.String("form_id", formID),
			zap.String("executive_id", session.ExecutiveID))
		return models.CounselorForm{}, onboarding.ErrFormNotFound
	}
	return form, nil
}
