package engine

import (
	"log/slog"
	"sync"
)

// Recognition describes one resolved utterance delivered to observers.
type Recognition struct {
	Words    []string
	Grammar  string
	Rule     string
	TimedOut bool
}

// Observer receives recognition lifecycle notifications. Callbacks run
// on the engine's processing goroutine and should return quickly.
type Observer interface {
	OnBegin()
	OnRecognition(r Recognition)
	OnFailure(words []string)
}

// RuleFailureObserver is an optional extension for observers that want
// to hear about rule handlers that panicked during dispatch.
type RuleFailureObserver interface {
	OnRuleFailure(rule string, err error)
}

// observerManager fans notifications out to registered observers. A
// panicking observer is logged and skipped so it cannot take down the
// recognition loop or starve later observers.
type observerManager struct {
	logger *slog.Logger

	mu        sync.Mutex
	observers []Observer
}

func newObserverManager(logger *slog.Logger) *observerManager {
	return &observerManager{logger: logger}
}

func (m *observerManager) register(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.observers {
		if existing == o {
			return
		}
	}
	m.observers = append(m.observers, o)
}

func (m *observerManager) unregister(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.observers {
		if existing == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

func (m *observerManager) notifyBegin() {
	m.each("begin", func(o Observer) { o.OnBegin() })
}

func (m *observerManager) notifyRecognition(r Recognition) {
	m.each("recognition", func(o Observer) { o.OnRecognition(r) })
}

func (m *observerManager) notifyFailure(words []string) {
	m.each("failure", func(o Observer) { o.OnFailure(words) })
}

func (m *observerManager) notifyRuleFailure(rule string, err error) {
	m.each("rule failure", func(o Observer) {
		if rfo, ok := o.(RuleFailureObserver); ok {
			rfo.OnRuleFailure(rule, err)
		}
	})
}

// each calls fn for a snapshot of the registered observers, outside the
// manager lock so callbacks can register or unregister freely.
func (m *observerManager) each(callback string, fn func(Observer)) {
	m.mu.Lock()
	observers := make([]Observer, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, o := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("recognition observer panicked",
						"callback", callback, "panic", r)
				}
			}()
			fn(o)
		}()
	}
}
