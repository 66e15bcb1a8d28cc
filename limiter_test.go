package errorsignal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.10"

	require.True(t, limiter.Allow(ip), "first attempt")
	require.True(t, limiter.Allow(ip), "second attempt")
	require.False(t, limiter.Allow(ip), "third attempt is blocked")
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.20"

	require.True(t, limiter.Allow(ip))
	require.False(t, limiter.Allow(ip))

	time.Sleep(200 * time.Millisecond)
	require.True(t, limiter.Allow(ip), "attempt after window is allowed")
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)
	defer limiter.Close()

	require.True(t, limiter.Allow("203.0.113.30"))
	require.True(t, limiter.Allow("203.0.113.31"), "second ip is independent")
	require.False(t, limiter.Allow("203.0.113.30"))
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	defer limiter.Close()
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Check(ip))
	}
	limiter.Record(ip)
	require.False(t, limiter.Check(ip))
}

func TestLoginLimiterSweepDropsStaleIPs(t *testing.T) {
	limiter := NewLoginLimiter(3, time.Minute)
	defer limiter.Close()

	limiter.Record("203.0.113.50")
	limiter.Record("203.0.113.51")
	require.Equal(t, 2, limiter.tracked())

	limiter.sweep(time.Now().Add(time.Second))
	require.Equal(t, 0, limiter.tracked())
}

func TestLoginLimiterCloseStopsSweeper(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	limiter := NewLoginLimiter(1, 10*time.Millisecond)
	limiter.Close()
	limiter.Close()
}
