package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	config := DefaultConfig()
	config.InitialDelay = time.Millisecond
	config.MaxDelay = 2 * time.Millisecond
	config.Jitter = false
	return config
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(), "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(context.Background(), fastConfig(), "test", func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 4, calls)
}

func TestDo_PermanentErrorStops(t *testing.T) {
	calls := 0
	boom := errors.New("bad request")
	err := Do(context.Background(), fastConfig(), "test", func() error {
		calls++
		return Permanent(boom)
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), "test", func() error {
		t.Fatal("fn must not run with a canceled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateDelay(t *testing.T) {
	config := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}

	assert.Equal(t, 100*time.Millisecond, calculateDelay(0, config))
	assert.Equal(t, 400*time.Millisecond, calculateDelay(2, config))
	assert.Equal(t, time.Second, calculateDelay(10, config))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(errors.New("x")))
	assert.False(t, IsRetryable(Permanent(errors.New("x"))))
	assert.Nil(t, Permanent(nil))
}
