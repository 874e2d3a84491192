package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orientame/onboarding-api/config"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedisStore connects to REDIS_TEST_ADDR and skips the test when it
// is not set
func newTestRedisStore(t *testing.T) *RedisFormStore {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisFormStore(client, "test:"+uuid.NewString()+":", time.Minute)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, config.RedisConfig{Addr: "localhost:1"})
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestRedisFormStore_Lifecycle(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	form := newTestForm("f1")
	require.NoError(t, store.Create(ctx, form))
	assert.ErrorIs(t, store.Create(ctx, form), apperrors.ErrConflict)

	got, err := store.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "exec-1", got.Executive.ID)
	assert.NotNil(t, got.Errors)

	updated, err := store.Update(ctx, "f1", func(f models.CounselorForm) (models.CounselorForm, error) {
		return onboarding.ApplyEdit(f, models.FieldSchool, "Liceo 1", time.Now())
	})
	require.NoError(t, err)
	assert.Equal(t, "Liceo 1", updated.Fields.School)

	require.NoError(t, store.Delete(ctx, "f1"))
	_, err = store.Get(ctx, "f1")
	assert.ErrorIs(t, err, onboarding.ErrFormNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "f1"), onboarding.ErrFormNotFound)
}

func TestRedisFormStore_ConcurrentBeginSubmit(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	validator := onboarding.NewValidator(onboarding.DefaultCatalog())

	form := newTestForm("f1")
	form.Fields = models.CounselorFields{
		Position: "Orientador",
		Email:    "a@b.cl",
		Region:   "Región de Atacama",
		Commune:  "Copiapó",
		School:   "Escuela 2",
	}
	require.NoError(t, store.Create(ctx, form))

	var (
		mu       sync.Mutex
		started  int
		rejected int
		wg       sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "f1", func(f models.CounselorForm) (models.CounselorForm, error) {
				return onboarding.BeginSubmit(f, validator, time.Now())
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				started++
			case errors.Is(err, apperrors.ErrConflict):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
	assert.Equal(t, 9, rejected)
}
