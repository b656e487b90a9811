package engine

import (
	"sort"

	"github.com/rbright/parola/internal/grammar"
)

// stateKind classifies what one rule made of an utterance.
type stateKind int

const (
	// stateInProgress marks a partial match that more dictation could
	// still complete.
	stateInProgress stateKind = iota
	// stateCompleteNormal marks a finished match of a rule without
	// dictation in its winning parse.
	stateCompleteNormal
	// stateCompleteSequence marks a finished match whose parse consumed
	// dictation, possibly merged across utterances.
	stateCompleteSequence
)

// processingState is one candidate outcome of matching an utterance
// against a single rule: a finished decode ready to dispatch, or a
// partial match parked in the in-progress set awaiting more words.
type processingState struct {
	wrapper *grammarWrapper
	rule    *grammar.Rule
	kind    stateKind

	// words is the full sequence the state covers. For in-progress
	// states it excludes the synthetic probe word.
	words []grammar.Word

	// node is the parse tree of a complete decode, nil for in-progress
	// states.
	node *grammar.Node

	// priority is the number of words matched by command elements
	// rather than dictation. More specific matches outrank ones that
	// shoveled words into dictation.
	priority int
}

// selectStates applies the candidate pooling policy for one utterance.
// inProgress reports whether the persistent in-progress set was
// non-empty when the utterance arrived. pool is the ranked candidate
// pool; register holds the states that become the new in-progress set
// when the winner is not dispatched.
func selectStates(candidates []*processingState, inProgress bool) (pool, register []*processingState) {
	var completeSequence, completeNormal, partial []*processingState
	for _, ps := range candidates {
		switch ps.kind {
		case stateCompleteSequence:
			completeSequence = append(completeSequence, ps)
		case stateCompleteNormal:
			completeNormal = append(completeNormal, ps)
		case stateInProgress:
			partial = append(partial, ps)
		}
	}

	switch {
	case len(completeSequence) > 0 && inProgress:
		// A pending sequence completed; nothing else competes with it.
		pool = completeSequence
	case len(completeSequence) > 0:
		pool = append(completeSequence, completeNormal...)
	case len(partial) > 0 && !inProgress:
		// New sequences start. Complete-normal states ride along in the
		// set so the timeout handler can still commit one of them.
		pool = append(append([]*processingState{}, partial...), completeNormal...)
		register = append(append([]*processingState{}, partial...), completeNormal...)
	case inProgress:
		// Mid-sequence with no completion: the most recent utterance's
		// partials replace the set, which may leave it empty.
		pool = partial
		register = partial
	default:
		pool = completeNormal
	}

	sortStates(pool)
	return pool, register
}

// sortStates ranks candidates by priority. The sort is stable so that
// rule registration order breaks ties.
func sortStates(states []*processingState) {
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].priority > states[j].priority
	})
}

// completeStates filters the given states down to dispatchable ones,
// preserving order.
func completeStates(states []*processingState) []*processingState {
	var complete []*processingState
	for _, ps := range states {
		if ps.kind != stateInProgress {
			complete = append(complete, ps)
		}
	}
	return complete
}

// nodeHasDictation reports whether any node in the parse tree was
// produced by a dictation element.
func nodeHasDictation(n *grammar.Node) bool {
	if n == nil {
		return false
	}
	if _, ok := n.Actor.(*grammar.Dictation); ok {
		return true
	}
	for _, c := range n.Children {
		if nodeHasDictation(c) {
			return true
		}
	}
	return false
}

// dictationSpan counts the words consumed by dictation elements in the
// parse tree.
func dictationSpan(n *grammar.Node) int {
	if n == nil {
		return 0
	}
	if _, ok := n.Actor.(*grammar.Dictation); ok {
		return n.End - n.Begin
	}
	total := 0
	for _, c := range n.Children {
		total += dictationSpan(c)
	}
	return total
}
