package engine

import (
	"log/slog"

	"github.com/rbright/parola/internal/grammar"
)

// probeWord is the synthetic dictation word appended to an utterance to
// test whether a rule could still complete with more dictation. Its
// text is a bare space so no literal can ever match it.
var probeWord = grammar.Word{Text: " ", RuleID: grammar.DictationRuleID}

// grammarWrapper pairs a loaded grammar with the engine-side matching
// logic applied to it per utterance.
type grammarWrapper struct {
	grammar *grammar.Grammar
	logger  *slog.Logger
}

func newGrammarWrapper(g *grammar.Grammar, logger *slog.Logger) *grammarWrapper {
	return &grammarWrapper{grammar: g, logger: logger}
}

// processBegin syncs the grammar's rule activation against the
// foreground window. Activation errors are logged, not fatal: one
// broken context must not keep other grammars from matching.
func (w *grammarWrapper) processBegin(win Window) {
	if err := w.grammar.ProcessBegin(win.Executable, win.Title, win.Handle); err != nil {
		w.logger.Warn("grammar activation sync failed",
			"grammar", w.grammar.Name(), "error", err)
	}
}

// candidateStates decodes the utterance against every active exported
// rule and classifies the results. Each rule contributes at most one state: a
// finished decode wins outright, otherwise a decode that finishes with
// one extra dictation word appended marks the rule as in progress.
func (w *grammarWrapper) candidateStates(words []grammar.Word, guesses bool) ([]*processingState, error) {
	if !w.grammar.Enabled() || len(w.grammar.ActiveRules()) == 0 {
		return nil, nil
	}
	names := w.grammar.RuleNames()

	s, err := grammar.NewState(words, names)
	if err != nil {
		return nil, err
	}
	s.DictatedWordGuesses = guesses

	probed := append(append(make([]grammar.Word, 0, len(words)+1), words...), probeWord)
	sp, err := grammar.NewState(probed, names)
	if err != nil {
		return nil, err
	}
	sp.DictatedWordGuesses = guesses

	var states []*processingState
	for _, r := range w.grammar.Rules() {
		if !r.Active() || !r.Exported() {
			continue
		}

		s.InitializeDecoding()
		if node := decodeFinished(r, s); node != nil {
			kind := stateCompleteNormal
			if nodeHasDictation(node) {
				kind = stateCompleteSequence
			}
			states = append(states, &processingState{
				wrapper:  w,
				rule:     r,
				kind:     kind,
				words:    words,
				node:     node,
				priority: len(words) - dictationSpan(node),
			})
			continue
		}

		sp.InitializeDecoding()
		if node := decodeFinished(r, sp); node != nil {
			states = append(states, &processingState{
				wrapper:  w,
				rule:     r,
				kind:     stateInProgress,
				words:    words,
				priority: len(probed) - dictationSpan(node),
			})
		}
	}
	return states, nil
}

// decodeFinished steps the rule's decode alternatives and returns the
// parse tree of the first one that consumes every word, or nil when
// none does.
func decodeFinished(r *grammar.Rule, s *grammar.State) *grammar.Node {
	dec := r.Decode(s)
	for dec.Next() {
		if s.Finished() {
			return s.BuildParseTree()
		}
	}
	return nil
}

// decodeRule decodes words against a single rule on a fresh state,
// returning the parse tree of the first finished decode or nil.
func decodeRule(r *grammar.Rule, words []grammar.Word, names []string, guesses bool) (*grammar.Node, error) {
	s, err := grammar.NewState(words, names)
	if err != nil {
		return nil, err
	}
	s.DictatedWordGuesses = guesses
	return decodeFinished(r, s), nil
}
