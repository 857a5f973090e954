package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/fjod/go_cart/cart-store/pkg/logger"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errBoom     = errors.New("boom")
	errNotFound = errors.New("not found")
)

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := New[int](Config{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil, logger.Nop())

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errBoom })
		require.ErrorIs(t, err, errBoom)
	}

	calls := 0
	_, err := cb.Execute(func() (int, error) {
		calls++
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, 0, calls)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestBreaker_AcceptedErrorsDoNotTrip(t *testing.T) {
	accept := func(err error) bool { return errors.Is(err, errNotFound) }
	cb := New[int](Config{Name: "test", ConsecutiveFailures: 1}, accept, logger.Nop())

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(func() (int, error) { return 0, errNotFound })
		require.ErrorIs(t, err, errNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestBreaker_PassesResultThrough(t *testing.T) {
	cb := New[string](Config{}, nil, logger.Nop())

	got, err := cb.Execute(func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}
