package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/orientame/onboarding-api/internal/models"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/orientame/onboarding-api/pkg/tracing"
	"go.uber.org/zap"
)

// CreateExecutive inserts a new executive
func (c *Client) CreateExecutive(ctx context.Context, executive *models.Executive) error {
	start := time.Now()
	operation := "createExecutive"

	ctx, span := tracing.StartSpan(ctx, "postgres."+operation)
	defer span.End()

	query := `
		INSERT INTO executives (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := c.pool.Exec(ctx, query, executive.ID, executive.Name, executive.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		tracing.RecordError(span, err)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create executive: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration)

	return nil
}

// GetExecutive fetches an executive by id
func (c *Client) GetExecutive(ctx context.Context, id string) (*models.Executive, error) {
	start := time.Now()
	operation := "getExecutive"

	ctx, span := tracing.StartSpan(ctx, "postgres."+operation)
	defer span.End()

	query := `SELECT id, name, created_at FROM executives WHERE id = $1`

	var executive models.Executive
	err := c.pool.QueryRow(ctx, query, id).Scan(&executive.ID, &executive.Name, &executive.CreatedAt)

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, apperrors.NotFoundError("executive")
	}
	if err != nil {
		tracing.RecordError(span, err)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to get executive: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return &executive, nil
}
