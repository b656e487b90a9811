package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	s := StateIdle

	next, err := Transition(s, EventBegin)
	require.NoError(t, err)
	require.Equal(t, StateCollecting, next)

	next, err = Transition(next, EventHypothesis)
	require.NoError(t, err)
	require.Equal(t, StateMatching, next)

	next, err = Transition(next, EventDispatch)
	require.NoError(t, err)
	require.Equal(t, StateDispatched, next)

	next, err = Transition(next, EventReset)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionWaitingPath(t *testing.T) {
	next, err := Transition(StateMatching, EventWait)
	require.NoError(t, err)
	require.Equal(t, StateWaiting, next)

	next, err = Transition(next, EventReset)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionCancelPath(t *testing.T) {
	next, err := Transition(StateCollecting, EventCancel)
	require.NoError(t, err)
	require.Equal(t, StateIdle, next)
}

func TestTransitionFailFromAnyStateGoesFailed(t *testing.T) {
	states := []State{StateIdle, StateCollecting, StateMatching, StateDispatched, StateWaiting, StateFailed}
	for _, state := range states {
		next, err := Transition(state, EventFail)
		require.NoError(t, err)
		require.Equal(t, StateFailed, next)
	}
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "idle hypothesis invalid", state: StateIdle, event: EventHypothesis, want: StateIdle, wantErr: true},
		{name: "idle cancel invalid", state: StateIdle, event: EventCancel, want: StateIdle, wantErr: true},
		{name: "idle dispatch invalid", state: StateIdle, event: EventDispatch, want: StateIdle, wantErr: true},
		{name: "idle reset invalid", state: StateIdle, event: EventReset, want: StateIdle, wantErr: true},
		{name: "collecting begin invalid", state: StateCollecting, event: EventBegin, want: StateCollecting, wantErr: true},
		{name: "collecting dispatch invalid", state: StateCollecting, event: EventDispatch, want: StateCollecting, wantErr: true},
		{name: "matching begin invalid", state: StateMatching, event: EventBegin, want: StateMatching, wantErr: true},
		{name: "matching cancel invalid", state: StateMatching, event: EventCancel, want: StateMatching, wantErr: true},
		{name: "matching reset invalid", state: StateMatching, event: EventReset, want: StateMatching, wantErr: true},
		{name: "dispatched begin invalid", state: StateDispatched, event: EventBegin, want: StateDispatched, wantErr: true},
		{name: "dispatched reset valid", state: StateDispatched, event: EventReset, want: StateIdle, wantErr: false},
		{name: "waiting hypothesis invalid", state: StateWaiting, event: EventHypothesis, want: StateWaiting, wantErr: true},
		{name: "waiting reset valid", state: StateWaiting, event: EventReset, want: StateIdle, wantErr: false},
		{name: "failed begin invalid", state: StateFailed, event: EventBegin, want: StateFailed, wantErr: true},
		{name: "failed reset valid", state: StateFailed, event: EventReset, want: StateIdle, wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownState(t *testing.T) {
	next, err := Transition(State("mystery"), EventBegin)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, State("mystery"), next)
}
