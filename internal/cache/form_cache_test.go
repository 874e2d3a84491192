package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(id string) models.CounselorForm {
	return onboarding.NewForm(id, models.Executive{ID: "exec-1", Name: "Carla"}, time.Now())
}

func TestFormCache_CreateAndGet(t *testing.T) {
	fc := NewFormCache(time.Hour)
	ctx := context.Background()

	require.NoError(t, fc.Create(ctx, newTestForm("f1")))
	assert.Equal(t, 1, fc.Len())

	form, err := fc.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", form.ID)

	err = fc.Create(ctx, newTestForm("f1"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestFormCache_GetMissing(t *testing.T) {
	fc := NewFormCache(time.Hour)

	_, err := fc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)
}

func TestFormCache_GetReturnsCopy(t *testing.T) {
	fc := NewFormCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, fc.Create(ctx, newTestForm("f1")))

	form, err := fc.Get(ctx, "f1")
	require.NoError(t, err)
	form.Errors["email"] = "changed outside"

	again, err := fc.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Empty(t, again.Errors)
}

func TestFormCache_Update(t *testing.T) {
	fc := NewFormCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, fc.Create(ctx, newTestForm("f1")))

	updated, err := fc.Update(ctx, "f1", func(f models.CounselorForm) (models.CounselorForm, error) {
		f.Fields.Email = "a@b.c"
		return f, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", updated.Fields.Email)

	stored, err := fc.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", stored.Fields.Email)
}

func TestFormCache_UpdateErrorKeepsState(t *testing.T) {
	fc := NewFormCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, fc.Create(ctx, newTestForm("f1")))

	boom := errors.New("boom")
	_, err := fc.Update(ctx, "f1", func(f models.CounselorForm) (models.CounselorForm, error) {
		f.Status = models.FormStatusDone
		return f, boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := fc.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusIdle, stored.Status)
}

func TestFormCache_UpdateMissing(t *testing.T) {
	fc := NewFormCache(time.Hour)

	_, err := fc.Update(context.Background(), "missing", func(f models.CounselorForm) (models.CounselorForm, error) {
		t.Fatal("fn must not run for a missing form")
		return f, nil
	})
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)
}

func TestFormCache_UpdateIsSerialized(t *testing.T) {
	fc := NewFormCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, fc.Create(ctx, newTestForm("f1")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fc.Update(ctx, "f1", func(f models.CounselorForm) (models.CounselorForm, error) {
				f.Version++
				return f, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := fc.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(51), stored.Version)
}

func TestFormCache_Delete(t *testing.T) {
	fc := NewFormCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, fc.Create(ctx, newTestForm("f1")))

	require.NoError(t, fc.Delete(ctx, "f1"))
	assert.Equal(t, 0, fc.Len())
	assert.ErrorIs(t, fc.Delete(ctx, "f1"), onboarding.ErrFormNotFound)
}

func TestFormCache_Expiry(t *testing.T) {
	fc := NewFormCache(20 * time.Millisecond)
	ctx := context.Background()
	require.NoError(t, fc.Create(ctx, newTestForm("f1")))

	time.Sleep(40 * time.Millisecond)

	_, err := fc.Get(ctx, "f1")
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)
}
