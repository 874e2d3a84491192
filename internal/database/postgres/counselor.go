package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/orientame/onboarding-api/pkg/tracing"
	"go.uber.org/zap"
)

// CreateCounselor inserts a submitted counselor
func (c *Client) CreateCounselor(ctx context.Context, counselor *models.Counselor) error {
	start := time.Now()
	operation := "createCounselor"

	ctx, span := tracing.StartSpan(ctx, "postgres."+operation)
	defer span.End()

	query := `
		INSERT INTO counselors (id, executive_id, full_name, position, email, phone, region, commune, school, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := c.pool.Exec(ctx, query,
		counselor.ID,
		counselor.ExecutiveID,
		nilIfEmpty(counselor.FullName),
		counselor.Position,
		counselor.Email,
		nilIfEmpty(counselor.Phone),
		counselor.Region,
		counselor.Commune,
		counselor.School,
		counselor.Avatar,
		counselor.CreatedAt,
	)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		tracing.RecordError(span, err)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create counselor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration)

	return nil
}

// ListCounselorsByExecutive returns the counselors registered by an
// executive, oldest first
func (c *Client) ListCounselorsByExecutive(ctx context.Context, executiveID string) ([]*models.Counselor, error) {
	start := time.Now()
	operation := "listCounselorsByExecutive"

	ctx, span := tracing.StartSpan(ctx, "postgres."+operation)
	defer span.End()

	query := `
		SELECT id, executive_id, full_name, position, email, phone, region, commune, school, avatar, created_at
		FROM counselors
		WHERE executive_id = $1
		ORDER BY created_at, id
	`

	rows, err := c.pool.Query(ctx, query, executiveID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		tracing.RecordError(span, err)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to list counselors: %w", err)
	}

	counselors, err := pgx.CollectRows(rows, scanCounselor)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		tracing.RecordError(span, err)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to scan counselors: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return counselors, nil
}

func scanCounselor(row pgx.CollectableRow) (*models.Counselor, error) {
	var (
		counselor models.Counselor
		fullName  *string
		phone     *string
	)
	err := row.Scan(
		&counselor.ID,
		&counselor.ExecutiveID,
		&fullName,
		&counselor.Position,
		&counselor.Email,
		&phone,
		&counselor.Region,
		&counselor.Commune,
		&counselor.School,
		&counselor.Avatar,
		&counselor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	counselor.FullName = valueOrEmpty(fullName)
	counselor.Phone = valueOrEmpty(phone)
	return &counselor, nil
}
