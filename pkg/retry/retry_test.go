package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds first try", func(t *testing.T) {
		attempts := 0
		result := Do(ctx, fastConfig(3), func(ctx context.Context) error {
			attempts++
			return nil
		})
		require.NoError(t, result.Err)
		assert.Equal(t, 1, result.Attempts)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries transient errors", func(t *testing.T) {
		attempts := 0
		result := Do(ctx, fastConfig(3), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, result.Err)
		assert.Equal(t, 3, result.Attempts)
	})

	t.Run("exhausts retries", func(t *testing.T) {
		transient := errors.New("transient")
		attempts := 0
		result := Do(ctx, fastConfig(2), func(ctx context.Context) error {
			attempts++
			return transient
		})
		assert.ErrorIs(t, result.Err, ErrMaxRetriesExceeded)
		assert.ErrorIs(t, result.LastError, transient)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent error stops immediately", func(t *testing.T) {
		declined := errors.New("card_declined")
		attempts := 0
		result := Do(ctx, fastConfig(5), func(ctx context.Context) error {
			attempts++
			return Permanent(declined)
		})
		assert.ErrorIs(t, result.Err, declined)
		assert.Equal(t, 1, attempts)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		result := Do(cancelled, fastConfig(3), func(ctx context.Context) error {
			return errors.New("never reached")
		})
		assert.ErrorIs(t, result.Err, ErrContextCanceled)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		result := Do(ctx, nil, func(ctx context.Context) error { return nil })
		require.NoError(t, result.Err)
	})
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, Permanent(nil))

	inner := errors.New("boom")
	wrapped := Permanent(inner)
	assert.ErrorIs(t, wrapped, inner)
	assert.Equal(t, "boom", wrapped.Error())
}

func TestCalculateInterval(t *testing.T) {
	r := New(&Config{
		MaxRetries:      5,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     300 * time.Millisecond,
		Multiplier:      2.0,
	})

	assert.Equal(t, 100*time.Millisecond, r.calculateInterval(0))
	assert.Equal(t, 200*time.Millisecond, r.calculateInterval(1))
	// Capped at MaxInterval
	assert.Equal(t, 300*time.Millisecond, r.calculateInterval(3))
}
