package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	apperrors "github.com/orientame/onboarding-api/pkg/errors"
	"github.com/orientame/onboarding-api/pkg/logger"
	"github.com/orientame/onboarding-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const memoryStoreName = "memory"

// FormCache keeps open counselor forms in process memory. Forms expire
// after ttl without updates.
type FormCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

// NewFormCache creates an in-memory form store
func NewFormCache(ttl time.Duration) *FormCache {
	c := gocache.New(ttl, cleanupInterval(ttl))
	c.OnEvicted(func(id string, _ interface{}) {
		logger.Debug("Counselor form evicted", zap.String("form_id", id))
	})

	return &FormCache{
		cache: c,
		ttl:   ttl,
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 2; interval > time.Minute {
		return interval
	}
	return time.Minute
}

// Create stores a new form
func (fc *FormCache) Create(_ context.Context, form models.CounselorForm) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err := fc.cache.Add(form.ID, form.Clone(), fc.ttl); err != nil {
		return apperrors.ConflictError(fmt.Sprintf("counselor form %s already exists", form.ID))
	}
	fc.recordSize()
	return nil
}

// Get returns a copy of the stored form
func (fc *FormCache) Get(_ context.Context, id string) (models.CounselorForm, error) {
	form, ok := fc.load(id)
	if !ok {
		return models.CounselorForm{}, onboarding.ErrFormNotFound
	}
	return form.Clone(), nil
}

// Update replaces the form with fn's result. The store lock is held while
// fn runs so concurrent updates of the same form are serialized.
func (fc *FormCache) Update(_ context.Context, id string, fn func(models.CounselorForm) (models.CounselorForm, error)) (models.CounselorForm, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	current, ok := fc.load(id)
	if !ok {
		return models.CounselorForm{}, onboarding.ErrFormNotFound
	}

	next, err := fn(current.Clone())
	if err != nil {
		return current.Clone(), err
	}

	fc.cache.Set(id, next.Clone(), fc.ttl)
	return next, nil
}

// Delete removes the form
func (fc *FormCache) Delete(_ context.Context, id string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if _, ok := fc.load(id); !ok {
		return onboarding.ErrFormNotFound
	}
	fc.cache.Delete(id)
	fc.recordSize()
	return nil
}

// Len returns the number of open forms
func (fc *FormCache) Len() int {
	return fc.cache.ItemCount()
}

func (fc *FormCache) load(id string) (models.CounselorForm, bool) {
	data, found := fc.cache.Get(id)
	if !found {
		return models.CounselorForm{}, false
	}
	form, ok := data.(models.CounselorForm)
	if !ok {
		logger.Error("Invalid form cache data type", zap.String("form_id", id))
		fc.cache.Delete(id)
		return models.CounselorForm{}, false
	}
	return form, true
}

func (fc *FormCache) recordSize() {
	metrics.FormStoreSize.WithLabelValues(memoryStoreName).Set(float64(fc.cache.ItemCount()))
}

var _ onboarding.FormStore = (*FormCache)(nil)
