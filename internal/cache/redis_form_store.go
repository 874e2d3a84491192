package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/orientame/onboarding-api/config"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisStoreName   = "redis"
	maxUpdateRetries = 5
)

// RedisFormStore keeps counselor forms in Redis so every replica sees the
// same form state. Updates use WATCH/MULTI optimistic transactions.
type RedisFormStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// NewRedisFormStore creates a Redis backed form store
func NewRedisFormStore(client *redis.Client, prefix string, ttl time.Duration) *RedisFormStore {
	return &RedisFormStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisFormStore) key(id string) string {
	return s.prefix + "counselor_form:" + id
}

// Create stores a new form; an existing id is a conflict
func (s *RedisFormStore) Create(ctx context.Context, form models.CounselorForm) error {
	start := time.Now()

	payload, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to encode counselor form: %w", err)
	}

	created, err := s.client.SetNX(ctx, s.key(form.ID), payload, s.ttl).Result()
	s.record("create", start, err)
	if err != nil {
		return fmt.Errorf("failed to store counselor form: %w", err)
	}
	if !created {
		return apperrors.ConflictError(fmt.Sprintf("counselor form %s already exists", form.ID))
	}
	return nil
}

// Get loads a form
func (s *RedisFormStore) Get(ctx context.Context, id string) (models.CounselorForm, error) {
	start := time.Now()

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.record("get", start, nil)
		return models.CounselorForm{}, onboarding.ErrFormNotFound
	}
	s.record("get", start, err)
	if err != nil {
		return models.CounselorForm{}, fmt.Errorf("failed to load counselor form: %w", err)
	}

	return decodeForm(data)
}

// Update applies fn inside a WATCH transaction, retrying when another
// writer changed the form first. fn may therefore run more than once.
func (s *RedisFormStore) Update(ctx context.Context, id string, fn func(models.CounselorForm) (models.CounselorForm, error)) (models.CounselorForm, error) {
	start := time.Now()
	key := s.key(id)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var result models.CounselorForm

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return onboarding.ErrFormNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to load counselor form: %w", err)
			}

			current, err := decodeForm(data)
			if err != nil {
				return err
			}

			next, err := fn(current)
			if err != nil {
				result = current
				return err
			}

			payload, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("failed to encode counselor form: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, s.ttl)
				return nil
			})
			result = next
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			logger.Debug("Counselor form update raced, retrying",
				zap.String("form_id", id),
				zap.Int("attempt", attempt+1))
			continue
		}

		s.record("update", start, storeError(err))
		return result, err
	}

	s.record("update", start, redis.TxFailedErr)
	return models.CounselorForm{}, apperrors.ConflictError("counselor form is being updated concurrently")
}

// Delete removes a form
func (s *RedisFormStore) Delete(ctx context.Context, id string) error {
	start := time.Now()

	removed, err := s.client.Del(ctx, s.key(id)).Result()
	s.record("delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete counselor form: %w", err)
	}
	if removed == 0 {
		return onboarding.ErrFormNotFound
	}
	return nil
}

func (s *RedisFormStore) record(operation string, start time.Time, err error) {
	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
		logger.LogAPICall("redis", operation, status, duration, zap.Error(err))
	}
	metrics.FormStoreOperationDuration.WithLabelValues(redisStoreName, operation, status).Observe(duration)
}

// storeError drops domain errors returned by update callbacks so they are
// not counted as Redis failures
func storeError(err error) error {
	if err == nil ||
		errors.Is(err, onboarding.ErrFormNotFound) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrGone) ||
		errors.Is(err, apperrors.ErrInvalidInput) {
		return nil
	}
	return err
}

func decodeForm(data []byte) (models.CounselorForm, error) {
	var form models.CounselorForm
	if err := json.Unmarshal(data, &form); err != nil {
		return models.CounselorForm{}, fmt.Errorf("failed to decode counselor form: %w", err)
	}
	if form.Errors == nil {
		form.Errors = models.ValidationErrors{}
	}
	return form, nil
}

var _ onboarding.FormStore = (*RedisFormStore)(nil)
