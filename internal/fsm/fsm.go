package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle       State = "idle"
	StateCollecting State = "collecting"
	StateMatching   State = "matching"
	StateDispatched State = "dispatched"
	StateWaiting    State = "waiting"
	StateFailed     State = "failed"
)

const (
	EventBegin      Event = "begin"
	EventHypothesis Event = "hypothesis"
	EventCancel     Event = "cancel"
	EventDispatch   Event = "dispatch"
	EventWait       Event = "wait"
	EventFail       Event = "fail"
	EventReset      Event = "reset"
)

func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateFailed, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventBegin:
			return StateCollecting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCollecting:
		switch event {
		case EventHypothesis:
			return StateMatching, nil
		case EventCancel:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateMatching:
		switch event {
		case EventDispatch:
			return StateDispatched, nil
		case EventWait:
			return StateWaiting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateDispatched:
		switch event {
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateWaiting:
		switch event {
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateFailed:
		switch event {
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
