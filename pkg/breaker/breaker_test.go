package breaker

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func ok() error   { return nil }
func fail() error { return errUpstream }

func TestBreaker(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := New(Config{Window: 4, FailureRatio: 0.5, Cooldown: time.Minute, Probes: 2})
	b.now = func() time.Time { return now }

	require.NoError(t, b.Call(ok))
	require.ErrorIs(t, b.Call(fail), errUpstream)
	require.Equal(t, Closed, b.State())

	// 2 of 4 failed
	require.ErrorIs(t, b.Call(fail), errUpstream)
	require.Equal(t, Open, b.State())

	called := false
	err := b.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrOpen)
	require.False(t, called)

	now = now.Add(time.Minute)
	require.NoError(t, b.Call(ok))
	require.Equal(t, HalfOpen, b.State())

	// a failed probe trips it again
	require.ErrorIs(t, b.Call(fail), errUpstream)
	require.Equal(t, Open, b.State())

	now = now.Add(time.Minute)
	require.NoError(t, b.Call(ok))
	require.NoError(t, b.Call(ok))
	require.Equal(t, Closed, b.State())
	require.NoError(t, b.Call(ok))
}

func TestBreaker_Disabled(t *testing.T) {
	t.Parallel()
	b := New(Config{})
	for i := 0; i < 10; i++ {
		require.ErrorIs(t, b.Call(fail), errUpstream)
	}
	require.Equal(t, Closed, b.State())
	require.Equal(t, "closed", b.State().String())
}
