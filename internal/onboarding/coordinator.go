package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	"github.com/orientame/onboarding-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultSubmitDelay is the simulated save latency
const DefaultSubmitDelay = time.Second

// FormStore keeps open counselor forms. Update must apply fn atomically
// with respect to other updates of the same form and must persist nothing
// when fn returns an error.
type FormStore interface {
	Create(ctx context.Context, form models.CounselorForm) error
	Get(ctx context.Context, id string) (models.CounselorForm, error)
	Update(ctx context.Context, id string, fn func(models.CounselorForm) (models.CounselorForm, error)) (models.CounselorForm, error)
	Delete(ctx context.Context, id string) error
}

// CompletionFunc receives the counselor once a submit succeeds
type CompletionFunc func(ctx context.Context, counselor models.Counselor) error

// Coordinator drives counselor forms through idle, submitting and done
type Coordinator struct {
	store     FormStore
	validator *Validator
	avatars   *AvatarGenerator
	delay     time.Duration
	wait      func(time.Duration)
	now       func() time.Time
	newID     func() string
}

// Option customizes a Coordinator
type Option func(*Coordinator)

// WithSubmitDelay sets the simulated save latency
func WithSubmitDelay(d time.Duration) Option {
	return func(c *Coordinator) {
		c.delay = d
	}
}

// WithWaiter replaces time.Sleep for the simulated save
func WithWaiter(wait func(time.Duration)) Option {
	return func(c *Coordinator) {
		c.wait = wait
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithIDGenerator replaces the form id generator
func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) {
		c.newID = newID
	}
}

// NewCoordinator creates a coordinator over store
func NewCoordinator(store FormStore, validator *Validator, avatars *AvatarGenerator, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:     store,
		validator: validator,
		avatars:   avatars,
		delay:     DefaultSubmitDelay,
		wait:      time.Sleep,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open mounts a new empty form for executive
func (c *Coordinator) Open(ctx context.Context, executive models.Executive) (models.CounselorForm, error) {
	form := NewForm(c.newID(), executive, c.now())
	if err := c.store.Create(ctx, form); err != nil {
		return models.CounselorForm{}, fmt.Errorf("failed to open counselor form: %w", err)
	}

	metrics.CounselorFormsOpened.Inc()
	logger.Info("Counselor form opened",
		zap.String("form_id", form.ID),
		zap.String("executive_id", executive.ID))

	return form, nil
}

// Get returns the current state of a form
func (c *Coordinator) Get(ctx context.Context, id string) (models.CounselorForm, error) {
	return c.store.Get(ctx, id)
}

// Edit overwrites one field and clears its pending error
func (c *Coordinator) Edit(ctx context.Context, id, field, value string) (models.CounselorForm, error) {
	form, err := c.store.Update(ctx, id, func(f models.CounselorForm) (models.CounselorForm, error) {
		return ApplyEdit(f, field, value, c.now())
	})
	if err != nil {
		return form, err
	}

	metrics.CounselorFormEdits.WithLabelValues(field).Inc()
	return form, nil
}

// Back discards the form; the wizard returns to the previous step
func (c *Coordinator) Back(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Counselor form discarded", zap.String("form_id", id))
	return nil
}

// Submit validates the form and, when valid, waits out the save delay,
// builds the counselor and passes it to onSaved exactly once. A rejected
// submit returns a result without counselor and a nil error.
func (c *Coordinator) Submit(ctx context.Context, id string, onSaved CompletionFunc) (*models.SubmitResult, error) {
	ctx, span := tracing.StartSpan(ctx, "counselor_form.submit")
	defer span.End()
	span.SetAttributes(attribute.String("form.id", id))

	form, err := c.store.Update(ctx, id, func(f models.CounselorForm) (models.CounselorForm, error) {
		return BeginSubmit(f, c.validator, c.now())
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSubmitInProgress):
			metrics.CounselorFormSubmissions.WithLabelValues("in_progress").Inc()
		case errors.Is(err, ErrFormClosed):
			metrics.CounselorFormSubmissions.WithLabelValues("closed").Inc()
		}
		return nil, err
	}

	if form.Status != models.FormStatusSubmitting {
		metrics.CounselorFormSubmissions.WithLabelValues("validation_failed").Inc()
		for field := range form.Errors {
			metrics.CounselorValidationFailures.WithLabelValues(field).Inc()
		}
		span.SetAttributes(attribute.Int("form.errors", len(form.Errors)))
		logger.Info("Counselor form rejected",
			zap.String("form_id", id),
			zap.Int("errors", len(form.Errors)))

		return &models.SubmitResult{
			Form:         form,
			Notification: ValidationFailedNotification(),
			Errors:       form.Errors,
		}, nil
	}

	// The simulated save is not cancelable, and the hand-off must happen
	// even if the caller went away meanwhile.
	c.wait(c.delay)
	ctx = context.WithoutCancel(ctx)

	counselor := BuildCounselor(form.Fields, form.Executive, c.avatars, c.now())
	notification := CounselorSavedNotification()

	if err := onSaved(ctx, counselor); err != nil {
		tracing.RecordError(span, err)
		metrics.CounselorFormSubmissions.WithLabelValues("handoff_failed").Inc()
		if _, reopenErr := c.store.Update(ctx, id, func(f models.CounselorForm) (models.CounselorForm, error) {
			return Reopen(f, c.now()), nil
		}); reopenErr != nil {
			logger.Error("Failed to reopen counselor form",
				zap.Error(reopenErr),
				zap.String("form_id", id))
		}
		return nil, fmt.Errorf("%w: %w", ErrHandoffFailed, err)
	}

	done, err := c.store.Update(ctx, id, func(f models.CounselorForm) (models.CounselorForm, error) {
		return Complete(f, counselor, c.now()), nil
	})
	if err != nil {
		// The form was discarded during the save; the counselor is already
		// handed off so report success with the local state.
		logger.Warn("Counselor form vanished during submit",
			zap.Error(err),
			zap.String("form_id", id))
		done = Complete(form, counselor, c.now())
	}

	metrics.CounselorFormSubmissions.WithLabelValues("success").Inc()
	logger.Info("Counselor saved",
		zap.String("form_id", id),
		zap.String("counselor_id", counselor.ID),
		zap.String("executive_id", counselor.ExecutiveID))

	return &models.SubmitResult{
		Form:         done,
		Counselor:    &counselor,
		Notification: notification,
	}, nil
}
