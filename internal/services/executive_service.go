package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/orientame/onboarding-api/config"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/repository"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
	"github.com/orientame/onboarding-api/pkg/httpclient"
	"github.com/orientame/onboarding-api/pkg/jwt"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/orientame/onboarding-api/pkg/trigger"
	"go.uber.org/zap"
)

var (
	namePolicyOnce sync.Once
	namePolicy     *bluemonday.Policy
)

// sanitizeName strips any markup from a display name
func sanitizeName(raw string) string {
	namePolicyOnce.Do(func() {
		namePolicy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(namePolicy.Sanitize(raw))
	return strings.Join(strings.Fields(cleaned), " ")
}

// ExecutiveService creates executives and opens wizard sessions for them
type ExecutiveService struct {
	executiveRepo repository.ExecutiveRepositoryInterface
	tokenManager  *jwt.TokenManager
	config        *config.Config
	httpClient    httpclient.Client
	now           func() time.Time
}

// NewExecutiveService creates a new executive service instance
func NewExecutiveService(
	executiveRepo repository.ExecutiveRepositoryInterface,
	tokenManager *jwt.TokenManager,
	cfg *config.Config,
	httpClient httpclient.Client,
) *ExecutiveService {
	return &ExecutiveService{
		executiveRepo: executiveRepo,
		tokenManager:  tokenManager,
		config:        cfg,
		httpClient:    httpClient,
		now:           time.Now,
	}
}

// CreateExecutive stores the executive and issues the wizard token
func (s *ExecutiveService) CreateExecutive(ctx context.Context, req *models.CreateExecutiveRequest) (*models.CreateExecutiveResponse, error) {
	name := sanitizeName(req.Name)
	if name == "" {
		metrics.ExecutivesCreated.WithLabelValues("invalid").Inc()
		return nil, apperrors.InvalidInputError("name", "name is required")
	}

	executive := &models.Executive{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
	}

	if err := s.executiveRepo.Create(ctx, executive); err != nil {
		metrics.ExecutivesCreated.WithLabelValues("error").Inc()
		logger.Error("Failed to create executive", zap.Error(err))
		return nil, fmt.Errorf("failed to create executive: %w", err)
	}

	token, expiresAt, err := s.tokenManager.GenerateToken(executive.ID, executive.Name)
	if err != nil {
		metrics.ExecutivesCreated.WithLabelValues("error").Inc()
		logger.Error("Failed to issue wizard token", zap.Error(err), zap.String("executive_id", executive.ID))
		return nil, fmt.Errorf("failed to issue wizard token: %w", err)
	}

	trigger.CallAsync(s.config.EventTriggers.ExecutiveCreatedTriggerURL, executive.ID, s.httpClient)

	metrics.ExecutivesCreated.WithLabelValues("success").Inc()
	logger.Info("Executive created", zap.String("executive_id", executive.ID))

	return &models.CreateExecutiveResponse{
		Executive:   executive,
		WizardToken: token,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}
