package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerRepeatingFiresUntilStopped(t *testing.T) {
	t.Parallel()

	m := NewTimerManager(testLogger(), 2*time.Millisecond)
	defer m.Disable()

	var fires atomic.Int64
	tmr := m.CreateTimer(func() { fires.Add(1) }, 5*time.Millisecond, true)

	require.Eventually(t, func() bool { return fires.Load() >= 3 }, time.Second, 5*time.Millisecond)

	tmr.Stop()
	seen := fires.Load()
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, fires.Load(), seen+1, "timer kept firing after Stop")
}

func TestTimerNonRepeatingFiresOnce(t *testing.T) {
	t.Parallel()

	m := NewTimerManager(testLogger(), 2*time.Millisecond)
	defer m.Disable()

	var fires atomic.Int64
	m.CreateTimer(func() { fires.Add(1) }, 5*time.Millisecond, false)

	require.Eventually(t, func() bool { return fires.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int64(1), fires.Load())
}

func TestTimerCallbackPanicDoesNotKillTheLoop(t *testing.T) {
	t.Parallel()

	m := NewTimerManager(testLogger(), 2*time.Millisecond)
	defer m.Disable()

	var fires atomic.Int64
	m.CreateTimer(func() { panic("boom") }, 5*time.Millisecond, true)
	m.CreateTimer(func() { fires.Add(1) }, 5*time.Millisecond, true)

	require.Eventually(t, func() bool { return fires.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestTimerStopFromItsOwnCallback(t *testing.T) {
	t.Parallel()

	m := NewTimerManager(testLogger(), 2*time.Millisecond)
	defer m.Disable()

	m.Disable()
	var fires atomic.Int64
	var tmr *Timer
	tmr = m.CreateTimer(func() {
		fires.Add(1)
		tmr.Stop()
	}, 5*time.Millisecond, true)
	m.Enable()

	require.Eventually(t, func() bool { return fires.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int64(1), fires.Load())
}

func TestTimerManagerDisableSuspendsFiring(t *testing.T) {
	t.Parallel()

	m := NewTimerManager(testLogger(), 2*time.Millisecond)
	defer m.Disable()

	m.Disable()
	var fires atomic.Int64
	m.CreateTimer(func() { fires.Add(1) }, 5*time.Millisecond, true)

	time.Sleep(40 * time.Millisecond)
	require.Equal(t, int64(0), fires.Load())

	m.Enable()
	require.Eventually(t, func() bool { return fires.Load() >= 1 }, time.Second, 5*time.Millisecond)
}

func TestTimerRestart(t *testing.T) {
	t.Parallel()

	m := NewTimerManager(testLogger(), 2*time.Millisecond)
	defer m.Disable()

	var fires atomic.Int64
	tmr := m.CreateTimer(func() { fires.Add(1) }, 5*time.Millisecond, true)
	require.Eventually(t, func() bool { return fires.Load() >= 1 }, time.Second, 5*time.Millisecond)

	tmr.Stop()
	seen := fires.Load()
	tmr.Start()
	require.Eventually(t, func() bool { return fires.Load() > seen }, time.Second, 5*time.Millisecond)
}
