package engine

import (
	"log/slog"
	"sync"
	"time"
)

const defaultTimerTick = 20 * time.Millisecond

// Timer runs a callback at a fixed interval on its manager's goroutine.
// Callbacks are not run concurrently with each other; a long callback
// delays the rest.
type Timer struct {
	manager   *TimerManager
	callback  func()
	interval  time.Duration
	repeating bool

	// Guarded by manager.mu.
	nextTime time.Time
	active   bool
}

// Start schedules the timer. Starting an active timer is a no-op.
func (t *Timer) Start() {
	t.manager.add(t)
}

// Stop unschedules the timer. The callback may still fire one last time
// if the manager already snapshotted it for the current tick.
func (t *Timer) Stop() {
	t.manager.remove(t)
}

// TimerManager multiplexes timers onto a single goroutine that wakes at
// a fixed tick and fires whichever timers have come due. The goroutine
// runs only while at least one timer is scheduled.
type TimerManager struct {
	logger *slog.Logger
	tick   time.Duration

	mu      sync.Mutex
	timers  []*Timer
	stop    chan struct{}
	enabled bool
}

// NewTimerManager returns a manager waking every tick. A zero tick
// falls back to 20ms.
func NewTimerManager(logger *slog.Logger, tick time.Duration) *TimerManager {
	if logger == nil {
		logger = slog.Default()
	}
	if tick <= 0 {
		tick = defaultTimerTick
	}
	return &TimerManager{logger: logger, tick: tick, enabled: true}
}

// CreateTimer returns a started timer calling callback every interval.
// A non-repeating timer stops itself after firing once.
func (m *TimerManager) CreateTimer(callback func(), interval time.Duration, repeating bool) *Timer {
	t := &Timer{manager: m, callback: callback, interval: interval, repeating: repeating}
	t.Start()
	return t
}

// Disable suspends firing until Enable. Scheduled timers are kept.
func (m *TimerManager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
	m.stopLoopLocked()
}

// Enable resumes firing timers scheduled while disabled.
func (m *TimerManager) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
	if len(m.timers) > 0 {
		m.startLoopLocked()
	}
}

func (m *TimerManager) add(t *Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.active {
		return
	}
	t.active = true
	t.nextTime = time.Now().Add(t.interval)
	m.timers = append(m.timers, t)
	if len(m.timers) == 1 && m.enabled {
		m.startLoopLocked()
	}
}

func (m *TimerManager) remove(t *Timer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !t.active {
		return
	}
	t.active = false
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			break
		}
	}
	if len(m.timers) == 0 {
		m.stopLoopLocked()
	}
}

// startLoopLocked spins up the firing goroutine with a fresh stop
// channel so a previous loop that has not yet observed its own stop
// cannot be confused with the new one.
func (m *TimerManager) startLoopLocked() {
	if m.stop != nil {
		return
	}
	stop := make(chan struct{})
	m.stop = stop
	go m.run(stop)
}

// stopLoopLocked signals the firing goroutine to exit without waiting
// for it. A timer callback stopping the last timer would otherwise
// deadlock joining its own goroutine.
func (m *TimerManager) stopLoopLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
}

func (m *TimerManager) run(stop chan struct{}) {
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			m.fire(now)
		}
	}
}

// fire calls every due timer. Callbacks run outside the manager lock so
// they can start and stop timers, including their own.
func (m *TimerManager) fire(now time.Time) {
	m.mu.Lock()
	var due []*Timer
	for _, t := range m.timers {
		if !t.nextTime.After(now) {
			due = append(due, t)
			t.nextTime = now.Add(t.interval)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("timer callback panicked", "panic", r)
				}
			}()
			t.callback()
		}()
		if !t.repeating {
			t.Stop()
		}
	}
}
