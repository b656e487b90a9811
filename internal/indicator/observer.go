package indicator

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbright/parola/internal/engine"
)

// PauseState reports whether the recognizer is asleep. The engine
// satisfies it.
type PauseState interface {
	Paused() bool
}

// Observer bridges engine recognition callbacks onto a Notifier. It
// tracks sleep transitions so wake and sleep keyphrases surface as
// state changes rather than ordinary recognitions.
type Observer struct {
	notifier *Notifier
	state    PauseState

	mu     sync.Mutex
	asleep bool
}

// NewObserver wires a notifier to engine recognition events.
func NewObserver(notifier *Notifier, state PauseState) *Observer {
	return &Observer{
		notifier: notifier,
		state:    state,
		asleep:   state.Paused(),
	}
}

func (o *Observer) OnBegin() {}

func (o *Observer) OnRecognition(r engine.Recognition) {
	ctx := context.Background()
	asleep := o.state.Paused()

	o.mu.Lock()
	was := o.asleep
	o.asleep = asleep
	o.mu.Unlock()

	switch {
	case asleep && !was:
		o.notifier.ShowAsleep(ctx)
	case !asleep && was:
		o.notifier.ShowListening(ctx)
	case r.Rule != "":
		o.notifier.CueRecognize(ctx)
	}
}

func (o *Observer) OnFailure([]string) {
	o.notifier.ShowError(context.Background(), "")
}

func (o *Observer) OnRuleFailure(rule string, err error) {
	o.notifier.ShowError(context.Background(), fmt.Sprintf("Command %q failed", rule))
}
