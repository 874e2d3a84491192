package onboarding_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orientame/onboarding-api/internal/cache"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coordinatorFixture struct {
	coordinator *onboarding.Coordinator
	store       *cache.FormCache
	waits       []time.Duration
}

func newCoordinatorFixture(t *testing.T, opts ...onboarding.Option) *coordinatorFixture {
	t.Helper()

	catalog := onboarding.DefaultCatalog()
	f := &coordinatorFixture{store: cache.NewFormCache(time.Hour)}

	ids := 0
	base := []onboarding.Option{
		onboarding.WithClock(func() time.Time { return testNow }),
		onboarding.WithIDGenerator(func() string {
			ids++
			return "form-" + strconv.Itoa(ids)
		}),
		onboarding.WithWaiter(func(d time.Duration) { f.waits = append(f.waits, d) }),
	}

	f.coordinator = onboarding.NewCoordinator(
		f.store,
		onboarding.NewValidator(catalog),
		onboarding.NewAvatarGenerator(catalog.AvatarColors, onboarding.ColorRandom,
			onboarding.WithColorPicker(func(int) int { return 0 })),
		append(base, opts...)...,
	)
	return f
}

func (f *coordinatorFixture) fill(t *testing.T, id string, fields models.CounselorFields) {
	t.Helper()
	ctx := context.Background()
	for _, name := range models.CounselorFieldNames {
		value, _ := fields.Get(name)
		_, err := f.coordinator.Edit(ctx, id, name, value)
		require.NoError(t, err)
	}
}

type recorder struct {
	mu    sync.Mutex
	calls []models.Counselor
	err   error
}

func (r *recorder) onSaved(_ context.Context, c models.Counselor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestCoordinator_Open(t *testing.T) {
	f := newCoordinatorFixture(t)

	form, err := f.coordinator.Open(context.Background(), testExecutive)
	require.NoError(t, err)

	assert.Equal(t, "form-1", form.ID)
	assert.Equal(t, models.FormStatusIdle, form.Status)

	stored, err := f.coordinator.Get(context.Background(), form.ID)
	require.NoError(t, err)
	assert.Equal(t, form, stored)
}

func TestCoordinator_Submit_Success(t *testing.T) {
	f := newCoordinatorFixture(t, onboarding.WithSubmitDelay(250*time.Millisecond))
	ctx := context.Background()
	rec := &recorder{}

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	f.fill(t, form.ID, validFields())

	result, err := f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	require.NoError(t, err)
	require.True(t, result.Accepted())

	require.Len(t, rec.calls, 1)
	saved := rec.calls[0]
	assert.Equal(t, *result.Counselor, saved)
	assert.Equal(t, "María González", saved.FullName)
	assert.Equal(t, "Orientador", saved.Position)
	assert.Equal(t, "maria@colegio.cl", saved.Email)
	assert.Equal(t, "Región Metropolitana", saved.Region)
	assert.Equal(t, "bg-blue-500|MG", saved.Avatar)
	assert.Equal(t, "exec-1", saved.ExecutiveID)
	assert.Equal(t, "1710498600000", saved.ID)

	assert.Equal(t, onboarding.CounselorSavedNotification(), result.Notification)
	assert.Equal(t, "¡Orientador guardado con éxito! 🎉", result.Notification.Title)
	assert.Equal(t, models.FormStatusDone, result.Form.Status)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []time.Duration{250 * time.Millisecond}, f.waits)

	stored, err := f.coordinator.Get(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusDone, stored.Status)
	require.NotNil(t, stored.Counselor)
	assert.Equal(t, saved.ID, stored.Counselor.ID)
}

func TestCoordinator_Submit_PlaceholderAcronym(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()
	rec := &recorder{}

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	fields := validFields()
	fields.FullName = ""
	f.fill(t, form.ID, fields)

	result, err := f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	require.NoError(t, err)
	require.True(t, result.Accepted())
	assert.Equal(t, "bg-blue-500|OR", result.Counselor.Avatar)
}

func TestCoordinator_Submit_Invalid(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()
	rec := &recorder{}

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	_, err = f.coordinator.Edit(ctx, form.ID, models.FieldEmail, "maria@colegio")
	require.NoError(t, err)

	result, err := f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	require.NoError(t, err)

	assert.False(t, result.Accepted())
	assert.Nil(t, result.Counselor)
	assert.Equal(t, 0, rec.count())
	assert.Empty(t, f.waits)
	assert.Equal(t, onboarding.ValidationFailedNotification(), result.Notification)
	assert.Equal(t, models.NotificationDestructive, result.Notification.Variant)
	assert.Equal(t, "Ingresa un correo válido", result.Errors[models.FieldEmail])
	assert.Len(t, result.Errors, 5)
	assert.Equal(t, models.FormStatusIdle, result.Form.Status)

	stored, err := f.coordinator.Get(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Errors, stored.Errors)
	assert.Equal(t, "maria@colegio", stored.Fields.Email)
}

func TestCoordinator_Edit_ClearsOnlyThatFieldError(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	_, err = f.coordinator.Submit(ctx, form.ID, (&recorder{}).onSaved)
	require.NoError(t, err)

	edited, err := f.coordinator.Edit(ctx, form.ID, models.FieldCommune, "x")
	require.NoError(t, err)

	assert.NotContains(t, edited.Errors, models.FieldCommune)
	assert.Len(t, edited.Errors, 4)
	assert.Contains(t, edited.Errors, models.FieldSchool)

	// Editing a field without an error keeps the others untouched.
	edited, err = f.coordinator.Edit(ctx, form.ID, models.FieldPhone, "123")
	require.NoError(t, err)
	assert.Len(t, edited.Errors, 4)
}

func TestCoordinator_Submit_RejectsWhileSubmitting(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	f := newCoordinatorFixture(t, onboarding.WithWaiter(func(time.Duration) {
		close(entered)
		<-release
	}))
	ctx := context.Background()
	rec := &recorder{}

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	f.fill(t, form.ID, validFields())

	type outcome struct {
		result *models.SubmitResult
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		result, err := f.coordinator.Submit(ctx, form.ID, rec.onSaved)
		first <- outcome{result, err}
	}()
	<-entered

	stored, err := f.coordinator.Get(ctx, form.ID)
	require.NoError(t, err)
	assert.True(t, stored.Submitting())

	_, err = f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	assert.ErrorIs(t, err, onboarding.ErrSubmitInProgress)

	_, err = f.coordinator.Edit(ctx, form.ID, models.FieldSchool, "Otro colegio")
	require.NoError(t, err)

	close(release)
	got := <-first
	require.NoError(t, got.err)
	assert.True(t, got.result.Accepted())
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "Liceo 1", got.result.Counselor.School)
	assert.Equal(t, got.result.Counselor.Fields(), got.result.Form.Fields)

	_, err = f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	assert.ErrorIs(t, err, onboarding.ErrFormClosed)
	assert.Equal(t, 1, rec.count())
}

func TestCoordinator_Submit_ConcurrentCallsHandOffOnce(t *testing.T) {
	f := newCoordinatorFixture(t, onboarding.WithWaiter(func(time.Duration) {}))
	ctx := context.Background()
	rec := &recorder{}

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	f.fill(t, form.ID, validFields())

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.coordinator.Submit(ctx, form.ID, rec.onSaved)
			if err != nil {
				assert.True(t,
					errors.Is(err, onboarding.ErrSubmitInProgress) || errors.Is(err, onboarding.ErrFormClosed),
					"unexpected error: %v", err)
				return
			}
			if result.Accepted() {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, 1, rec.count())
}

func TestCoordinator_Submit_HandoffFailureReopens(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()
	rec := &recorder{err: errors.New("database unavailable")}

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	f.fill(t, form.ID, validFields())

	result, err := f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, onboarding.ErrHandoffFailed)
	assert.Contains(t, err.Error(), "database unavailable")

	stored, err := f.coordinator.Get(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusIdle, stored.Status)
	assert.Equal(t, validFields(), stored.Fields)

	rec.err = nil
	result, err = f.coordinator.Submit(ctx, form.ID, rec.onSaved)
	require.NoError(t, err)
	assert.True(t, result.Accepted())
	assert.Equal(t, 2, rec.count())
}

func TestCoordinator_Submit_CanceledContextStillHandsOff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newCoordinatorFixture(t, onboarding.WithWaiter(func(time.Duration) { cancel() }))

	var handoffErr error
	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)
	f.fill(t, form.ID, validFields())

	result, err := f.coordinator.Submit(ctx, form.ID, func(ctx context.Context, _ models.Counselor) error {
		handoffErr = ctx.Err()
		return nil
	})
	require.NoError(t, err)
	assert.True(t, result.Accepted())
	assert.NoError(t, handoffErr)
}

func TestCoordinator_Back(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	form, err := f.coordinator.Open(ctx, testExecutive)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.Back(ctx, form.ID))

	_, err = f.coordinator.Get(ctx, form.ID)
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)
	assert.ErrorIs(t, f.coordinator.Back(ctx, form.ID), onboarding.ErrFormNotFound)
}

func TestCoordinator_UnknownForm(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	_, err := f.coordinator.Edit(ctx, "missing", models.FieldEmail, "a@b.c")
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)

	_, err = f.coordinator.Submit(ctx, "missing", (&recorder{}).onSaved)
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)
}
