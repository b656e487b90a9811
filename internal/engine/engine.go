// Package engine matches recognized utterances against loaded grammars
// and dispatches the winning rule's recognition handler.
//
// One utterance flows through cancellation and sleep checks, then key
// phrases, then grammar matching. Matching classifies every active rule
// as complete or in progress, pools the candidates, and either
// dispatches the best complete match or parks the partial sequence
// matches until more speech arrives or the sequence timeout commits a
// fallback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/parola/internal/fsm"
	"github.com/rbright/parola/internal/grammar"
)

// Outcome reports how one utterance was resolved.
type Outcome string

const (
	// OutcomeIgnored means the utterance was dropped without matching,
	// either cancelled or heard while asleep.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeKeyphrase means a key phrase handled the utterance before
	// grammar matching.
	OutcomeKeyphrase Outcome = "keyphrase"
	// OutcomeDispatched means a complete rule match ran its handler.
	OutcomeDispatched Outcome = "dispatched"
	// OutcomeWaiting means partial sequence matches were parked and the
	// engine is waiting for more speech.
	OutcomeWaiting Outcome = "waiting"
	// OutcomeFailed means no rule matched.
	OutcomeFailed Outcome = "failed"
)

// MimicFailure reports mimicked words that nothing could process.
type MimicFailure struct {
	Words []string
}

func (e *MimicFailure) Error() string {
	return fmt.Sprintf("engine: no rule matched %q", strings.Join(e.Words, " "))
}

// IsMimicFailure reports whether an error is a failed mimic.
func IsMimicFailure(err error) bool {
	var mf *MimicFailure
	return errors.As(err, &mf)
}

// Config carries the engine's construction parameters.
type Config struct {
	Logger *slog.Logger
	Window WindowProvider

	// SequenceTimeout bounds how long partial sequence matches wait for
	// more speech before the best complete fallback is committed. Zero
	// disables the timeout; partial matches then wait indefinitely.
	SequenceTimeout time.Duration

	// TimerTick is the granularity of the multiplexed timer manager.
	TimerTick time.Duration

	// WakePhrase and SleepPhrase toggle recognition. The sleep phrase
	// behaves like a key phrase; while asleep only the wake phrase is
	// processed.
	WakePhrase  string
	SleepPhrase string
	StartAsleep bool

	// StrictDictation restricts dictation elements to words explicitly
	// tagged as dictation. By default dictation may consume any word,
	// since plain transcripts carry no tagging.
	StrictDictation bool
}

type keyphrase struct {
	words []string
	fn    func()
}

// Engine is the recognition matching engine. Grammars load themselves
// into it, utterances are fed to Process or Mimic, and the winning
// rule's handler runs on the calling goroutine.
type Engine struct {
	logger    *slog.Logger
	window    WindowProvider
	timers    *TimerManager
	observers *observerManager

	seqTimeout time.Duration
	wake       []string
	sleep      []string
	strict     bool

	mu           sync.Mutex
	state        fsm.State
	wrappers     []*grammarWrapper
	inProgress   []*processingState
	keyphrases   []keyphrase
	paused       bool
	cancelNext   bool
	timeoutGen   uint64
	timeoutTimer *time.Timer
}

var _ grammar.Engine = (*Engine)(nil)

// New constructs an engine. A nil logger falls back to slog.Default
// and a nil window provider reports an empty window to every context.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := cfg.Window
	if window == nil {
		window = noopWindowProvider{}
	}
	return &Engine{
		logger:     logger,
		window:     window,
		timers:     NewTimerManager(logger, cfg.TimerTick),
		observers:  newObserverManager(logger),
		seqTimeout: cfg.SequenceTimeout,
		wake:       splitLower(cfg.WakePhrase),
		sleep:      splitLower(cfg.SleepPhrase),
		strict:     cfg.StrictDictation,
		state:      fsm.StateIdle,
		paused:     cfg.StartAsleep,
	}
}

// MapWords tags plain hypothesis words for decoding: fully uppercase
// words become dictation words and are lowercased, everything else
// becomes command words.
func MapWords(words []string) []grammar.Word {
	tagged := make([]grammar.Word, 0, len(words))
	for _, w := range words {
		if w != strings.ToLower(w) && w == strings.ToUpper(w) {
			tagged = append(tagged, grammar.Word{Text: strings.ToLower(w), RuleID: grammar.DictationRuleID})
		} else {
			tagged = append(tagged, grammar.Word{Text: w, RuleID: 0})
		}
	}
	return tagged
}

// ----------------------------------------------------------------------
// grammar.Engine implementation.

// LoadGrammar registers a grammar. Called through Grammar.Load.
func (e *Engine) LoadGrammar(g *grammar.Grammar) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, w := range e.wrappers {
		if w.grammar == g {
			return fmt.Errorf("engine: grammar %q already loaded", g.Name())
		}
		if w.grammar.Name() == g.Name() {
			return fmt.Errorf("engine: grammar name %q already in use", g.Name())
		}
	}
	e.wrappers = append(e.wrappers, newGrammarWrapper(g, e.logger))
	e.logger.Debug("grammar loaded", "grammar", g.Name(), "rules", len(g.Rules()))
	return nil
}

// UnloadGrammar drops a grammar and any partial matches it parked.
func (e *Engine) UnloadGrammar(g *grammar.Grammar) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	found := false
	for i, w := range e.wrappers {
		if w.grammar == g {
			e.wrappers = append(e.wrappers[:i], e.wrappers[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("engine: grammar %q not loaded", g.Name())
	}
	var kept []*processingState
	for _, ps := range e.inProgress {
		if ps.wrapper.grammar != g {
			kept = append(kept, ps)
		}
	}
	e.inProgress = kept
	if len(e.inProgress) == 0 {
		e.cancelTimeoutLocked()
	}
	e.logger.Debug("grammar unloaded", "grammar", g.Name())
	return nil
}

// ActivateRule is a no-op; activation state lives on the rule.
func (e *Engine) ActivateRule(r *grammar.Rule, g *grammar.Grammar) error { return nil }

// DeactivateRule is a no-op; activation state lives on the rule.
func (e *Engine) DeactivateRule(r *grammar.Rule, g *grammar.Grammar) error { return nil }

// UpdateList is a no-op; lists are decoded from their live contents.
func (e *Engine) UpdateList(l grammar.ListContainer, g *grammar.Grammar) error { return nil }

// SetExclusive makes g the only enabled grammar, or re-enables all
// grammars when exclusive is false.
func (e *Engine) SetExclusive(g *grammar.Grammar, exclusive bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	loaded := false
	for _, w := range e.wrappers {
		if w.grammar == g {
			loaded = true
			break
		}
	}
	if !loaded {
		return fmt.Errorf("engine: grammar %q not loaded", g.Name())
	}
	for _, w := range e.wrappers {
		if exclusive {
			w.grammar.Disable()
		} else {
			w.grammar.Enable()
		}
	}
	if exclusive {
		g.Enable()
	}
	e.logger.Info("grammar exclusivity changed", "grammar", g.Name(), "exclusive", exclusive)
	return nil
}

// ----------------------------------------------------------------------
// Observers, key phrases, timers.

// RegisterObserver subscribes o to recognition notifications.
func (e *Engine) RegisterObserver(o Observer) { e.observers.register(o) }

// UnregisterObserver removes o.
func (e *Engine) UnregisterObserver(o Observer) { e.observers.unregister(o) }

// SetKeyphrase registers fn to run when phrase is heard on its own,
// replacing any handler already bound to it. Key phrases are checked
// before grammar matching.
func (e *Engine) SetKeyphrase(phrase string, fn func()) error {
	words := splitLower(phrase)
	if len(words) == 0 {
		return errors.New("engine: empty key phrase")
	}
	if fn == nil {
		return errors.New("engine: nil key phrase handler")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, kp := range e.keyphrases {
		if phraseEqual(kp.words, words) {
			e.keyphrases[i].fn = fn
			return nil
		}
	}
	e.keyphrases = append(e.keyphrases, keyphrase{words: words, fn: fn})
	return nil
}

// UnsetKeyphrase removes a registered key phrase.
func (e *Engine) UnsetKeyphrase(phrase string) {
	words := splitLower(phrase)
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, kp := range e.keyphrases {
		if phraseEqual(kp.words, words) {
			e.keyphrases = append(e.keyphrases[:i], e.keyphrases[i+1:]...)
			return
		}
	}
}

// CreateTimer returns a started timer multiplexed onto the engine's
// timer goroutine.
func (e *Engine) CreateTimer(callback func(), interval time.Duration, repeating bool) *Timer {
	return e.timers.CreateTimer(callback, interval, repeating)
}

// ----------------------------------------------------------------------
// Recognition control.

// PauseRecognition puts the engine to sleep: only the wake phrase is
// processed until recognition resumes.
func (e *Engine) PauseRecognition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.paused {
		return
	}
	e.paused = true
	e.logger.Info("recognition paused")
}

// ResumeRecognition wakes the engine.
func (e *Engine) ResumeRecognition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.paused {
		return
	}
	e.paused = false
	e.logger.Info("recognition resumed")
}

// Paused reports whether the engine is asleep.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// CancelNext drops the next utterance unprocessed.
func (e *Engine) CancelNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelNext = true
}

// State returns the current utterance lifecycle state. Between
// utterances it is idle; pending sequences are reported separately.
func (e *Engine) State() fsm.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// PendingSequences reports how many partial matches are parked awaiting
// more speech.
func (e *Engine) PendingSequences() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inProgress)
}

// GrammarInfo is a status snapshot of one loaded grammar.
type GrammarInfo struct {
	Name    string
	Enabled bool
	Rules   []string
	Active  int
}

// Grammars lists the loaded grammars in load order.
func (e *Engine) Grammars() []GrammarInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	infos := make([]GrammarInfo, 0, len(e.wrappers))
	for _, w := range e.wrappers {
		infos = append(infos, GrammarInfo{
			Name:    w.grammar.Name(),
			Enabled: w.grammar.Enabled(),
			Rules:   w.grammar.RuleNames(),
			Active:  len(w.grammar.ActiveRules()),
		})
	}
	return infos
}

// Close cancels pending timeouts, suspends timers, and drops loaded
// grammars.
func (e *Engine) Close() error {
	e.timers.Disable()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelTimeoutLocked()
	e.wrappers = nil
	e.inProgress = nil
	return nil
}

// ----------------------------------------------------------------------
// Utterance processing.

// BeginUtterance marks the start of speech: observers are notified and
// every grammar syncs its rule activation against the foreground
// window. Process runs it implicitly when the caller has not.
func (e *Engine) BeginUtterance(ctx context.Context) {
	e.mu.Lock()
	if e.state == fsm.StateCollecting {
		e.mu.Unlock()
		return
	}
	e.stepLocked(fsm.EventBegin)
	e.mu.Unlock()

	e.observers.notifyBegin()

	win, err := e.window.ForegroundWindow(ctx)
	if err != nil {
		e.logger.Warn("foreground window lookup failed", "error", err)
		win = Window{}
	}

	e.mu.Lock()
	for _, w := range e.wrappers {
		w.processBegin(win)
	}
	e.mu.Unlock()
}

// Process splits text into whitespace-delimited words and processes
// them as one utterance.
func (e *Engine) Process(ctx context.Context, text string) Outcome {
	return e.ProcessWords(ctx, MapWords(strings.Fields(text)))
}

// ProcessWords runs one utterance through cancellation, sleep, key
// phrase, and grammar matching, in that order.
func (e *Engine) ProcessWords(ctx context.Context, words []grammar.Word) Outcome {
	if len(words) == 0 {
		e.logger.Debug("empty hypothesis ignored")
		return OutcomeIgnored
	}
	texts := wordTexts(words)

	e.mu.Lock()
	if e.cancelNext {
		e.cancelNext = false
		e.cancelUtteranceLocked()
		e.logger.Debug("utterance cancelled", "words", strings.Join(texts, " "))
		e.mu.Unlock()
		return OutcomeIgnored
	}
	e.mu.Unlock()

	e.BeginUtterance(ctx)

	e.mu.Lock()
	if e.paused {
		if phraseEqual(texts, e.wake) {
			e.paused = false
			e.cancelUtteranceLocked()
			e.logger.Info("recognition resumed", "phrase", strings.Join(texts, " "))
			e.mu.Unlock()
			e.observers.notifyRecognition(Recognition{Words: texts})
			return OutcomeKeyphrase
		}
		e.cancelUtteranceLocked()
		e.logger.Debug("asleep, ignoring speech", "words", strings.Join(texts, " "))
		e.mu.Unlock()
		return OutcomeIgnored
	}

	var fn func()
	matched := false
	if phraseEqual(texts, e.sleep) {
		e.paused = true
		matched = true
		e.logger.Info("recognition paused", "phrase", strings.Join(texts, " "))
	} else {
		for _, kp := range e.keyphrases {
			if phraseEqual(texts, kp.words) {
				fn = kp.fn
				matched = true
				break
			}
		}
	}
	if matched {
		e.cancelUtteranceLocked()
		e.mu.Unlock()
		e.observers.notifyRecognition(Recognition{Words: texts})
		if fn != nil {
			e.runKeyphrase(texts, fn)
		}
		return OutcomeKeyphrase
	}
	e.mu.Unlock()

	return e.match(words, texts)
}

// Mimic processes words as if they had been spoken. Uppercase words are
// treated as dictation. It fails unless the words dispatched a rule,
// advanced a sequence, or triggered a key phrase.
func (e *Engine) Mimic(ctx context.Context, words ...string) error {
	switch e.ProcessWords(ctx, MapWords(words)) {
	case OutcomeDispatched, OutcomeWaiting, OutcomeKeyphrase:
		return nil
	default:
		return &MimicFailure{Words: words}
	}
}

// match applies the best-state policy to one utterance's candidates.
func (e *Engine) match(words []grammar.Word, texts []string) Outcome {
	vetoed := e.offerRecognition(words)

	e.mu.Lock()
	e.stepLocked(fsm.EventHypothesis)

	candidates := e.continuationStatesLocked(words, vetoed)
	for _, w := range e.wrappers {
		if vetoed[w.grammar] {
			continue
		}
		states, err := w.candidateStates(words, !e.strict)
		if err != nil {
			e.logger.Warn("grammar skipped", "grammar", w.grammar.Name(), "error", err)
			continue
		}
		candidates = append(candidates, states...)
	}

	pool, register := selectStates(candidates, len(e.inProgress) > 0)

	if len(pool) == 0 {
		e.inProgress = nil
		e.cancelTimeoutLocked()
		e.stepLocked(fsm.EventFail)
		e.stepLocked(fsm.EventReset)
		e.logger.Debug("no rule matched", "words", strings.Join(texts, " "))
		e.mu.Unlock()
		e.observers.notifyFailure(texts)
		e.notifyGrammarFailure()
		return OutcomeFailed
	}

	best := pool[0]
	if best.kind == stateInProgress {
		e.inProgress = register
		e.armTimeoutLocked()
		e.stepLocked(fsm.EventWait)
		e.stepLocked(fsm.EventReset)
		e.logger.Debug("sequence in progress",
			"rule", best.rule.Name(), "grammar", best.wrapper.grammar.Name(),
			"parked", len(register))
		e.mu.Unlock()
		return OutcomeWaiting
	}

	e.inProgress = nil
	e.cancelTimeoutLocked()
	e.stepLocked(fsm.EventDispatch)
	e.mu.Unlock()

	e.dispatch(best, false)

	e.mu.Lock()
	e.stepLocked(fsm.EventReset)
	e.mu.Unlock()
	return OutcomeDispatched
}

// continuationStatesLocked merges the new words onto each parked
// partial match and re-decodes, yielding completed sequences and
// still-partial extensions. Parked states whose rule went inactive or
// whose grammar declined the words are skipped.
func (e *Engine) continuationStatesLocked(words []grammar.Word, vetoed map[*grammar.Grammar]bool) []*processingState {
	var states []*processingState
	for _, ps := range e.inProgress {
		if ps.kind != stateInProgress {
			continue
		}
		if !ps.wrapper.grammar.Enabled() || !ps.rule.Active() {
			continue
		}
		if vetoed[ps.wrapper.grammar] {
			continue
		}
		names := ps.wrapper.grammar.RuleNames()
		merged := append(append(make([]grammar.Word, 0, len(ps.words)+len(words)), ps.words...), words...)

		node, err := decodeRule(ps.rule, merged, names, true)
		if err != nil {
			e.logger.Warn("sequence continuation skipped", "rule", ps.rule.Name(), "error", err)
			continue
		}
		if node != nil {
			states = append(states, &processingState{
				wrapper:  ps.wrapper,
				rule:     ps.rule,
				kind:     stateCompleteSequence,
				words:    merged,
				node:     node,
				priority: len(merged) - dictationSpan(node),
			})
			continue
		}

		probed := append(append(make([]grammar.Word, 0, len(merged)+1), merged...), probeWord)
		pnode, err := decodeRule(ps.rule, probed, names, true)
		if err != nil {
			e.logger.Warn("sequence continuation skipped", "rule", ps.rule.Name(), "error", err)
			continue
		}
		if pnode != nil {
			states = append(states, &processingState{
				wrapper:  ps.wrapper,
				rule:     ps.rule,
				kind:     stateInProgress,
				words:    merged,
				priority: len(probed) - dictationSpan(pnode),
			})
		}
	}
	return states
}

// dispatch notifies observers and the losing grammars, then runs the
// winning rule's recognition handler. Handler panics are contained and
// reported; decode protocol violations are not swallowed.
func (e *Engine) dispatch(ps *processingState, timedOut bool) {
	r := Recognition{
		Words:    wordTexts(ps.words),
		Grammar:  ps.wrapper.grammar.Name(),
		Rule:     ps.rule.Name(),
		TimedOut: timedOut,
	}
	e.observers.notifyRecognition(r)
	e.notifyGrammarOther(ps.wrapper.grammar, ps.words)

	e.logger.Info("dispatching recognition",
		"rule", r.Rule, "grammar", r.Grammar,
		"words", strings.Join(r.Words, " "), "timed_out", timedOut)

	defer func() {
		if rec := recover(); rec != nil {
			if se, ok := rec.(*grammar.StackError); ok {
				panic(se)
			}
			err := fmt.Errorf("rule handler panicked: %v", rec)
			e.logger.Error("recognition dispatch failed",
				"rule", r.Rule, "grammar", r.Grammar, "error", err)
			e.observers.notifyRuleFailure(r.Rule, err)
		}
	}()
	ps.rule.ProcessRecognition(ps.node)
}

// ----------------------------------------------------------------------
// Grammar-level callbacks.

// offerRecognition runs each enabled grammar's OnRecognition callback
// and collects the grammars that declined the words. Callbacks run
// outside the engine lock so they may call back into the engine; a
// panicking callback is logged and does not veto.
func (e *Engine) offerRecognition(words []grammar.Word) map[*grammar.Grammar]bool {
	e.mu.Lock()
	var targets []*grammar.Grammar
	for _, w := range e.wrappers {
		if w.grammar.Enabled() && w.grammar.OnRecognition != nil {
			targets = append(targets, w.grammar)
		}
	}
	e.mu.Unlock()

	var vetoed map[*grammar.Grammar]bool
	for _, g := range targets {
		allow := true
		e.runGrammarCallback(g, "recognition", func() { allow = g.OnRecognition(words) })
		if !allow {
			if vetoed == nil {
				vetoed = make(map[*grammar.Grammar]bool)
			}
			vetoed[g] = true
		}
	}
	return vetoed
}

// notifyGrammarOther tells every other enabled grammar that the words
// were matched elsewhere.
func (e *Engine) notifyGrammarOther(winner *grammar.Grammar, words []grammar.Word) {
	e.mu.Lock()
	var targets []*grammar.Grammar
	for _, w := range e.wrappers {
		if w.grammar != winner && w.grammar.Enabled() && w.grammar.OnOther != nil {
			targets = append(targets, w.grammar)
		}
	}
	e.mu.Unlock()

	for _, g := range targets {
		e.runGrammarCallback(g, "other", func() { g.OnOther(words) })
	}
}

// notifyGrammarFailure tells every enabled grammar that nothing
// matched.
func (e *Engine) notifyGrammarFailure() {
	e.mu.Lock()
	var targets []*grammar.Grammar
	for _, w := range e.wrappers {
		if w.grammar.Enabled() && w.grammar.OnFailure != nil {
			targets = append(targets, w.grammar)
		}
	}
	e.mu.Unlock()

	for _, g := range targets {
		e.runGrammarCallback(g, "failure", func() { g.OnFailure() })
	}
}

// runGrammarCallback contains panics from grammar-level callbacks the
// same way rule handler panics are contained.
func (e *Engine) runGrammarCallback(g *grammar.Grammar, kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("grammar callback panicked",
				"grammar", g.Name(), "callback", kind, "panic", r)
		}
	}()
	fn()
}

// ----------------------------------------------------------------------
// Sequence timeout.

// armTimeoutLocked starts the sequence timeout, invalidating any timer
// already pending. The generation counter keeps a stale callback that
// fires during re-arm from touching the new state.
func (e *Engine) armTimeoutLocked() {
	if e.seqTimeout <= 0 {
		return
	}
	e.timeoutGen++
	gen := e.timeoutGen
	if e.timeoutTimer != nil {
		e.timeoutTimer.Stop()
	}
	e.timeoutTimer = time.AfterFunc(e.seqTimeout, func() { e.sequenceTimeout(gen) })
}

// cancelTimeoutLocked invalidates any pending timeout. Calling it from
// inside the timeout callback is a no-op rather than a deadlock.
func (e *Engine) cancelTimeoutLocked() {
	e.timeoutGen++
	if e.timeoutTimer != nil {
		e.timeoutTimer.Stop()
		e.timeoutTimer = nil
	}
}

// sequenceTimeout commits the best complete candidate parked in the
// in-progress set, or reports failure, after re-checking each state's
// rule against the current foreground window. The set is cleared either
// way.
func (e *Engine) sequenceTimeout(gen uint64) {
	e.mu.Lock()
	if gen != e.timeoutGen {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	win, err := e.window.ForegroundWindow(context.Background())
	if err != nil {
		e.logger.Warn("foreground window lookup failed", "error", err)
		win = Window{}
	}

	e.mu.Lock()
	if gen != e.timeoutGen {
		e.mu.Unlock()
		return
	}
	e.timeoutTimer = nil
	parked := e.inProgress
	e.inProgress = nil
	if len(parked) == 0 {
		e.mu.Unlock()
		return
	}

	for _, w := range e.wrappers {
		w.processBegin(win)
	}
	var surviving []*processingState
	for _, ps := range parked {
		if ps.wrapper.grammar.Enabled() && ps.rule.Active() {
			surviving = append(surviving, ps)
		}
	}
	complete := completeStates(surviving)
	sortStates(complete)

	if len(complete) == 0 {
		e.logger.Debug("sequence timed out with no complete candidate")
		words := wordTexts(parked[0].words)
		e.mu.Unlock()
		e.observers.notifyFailure(words)
		e.notifyGrammarFailure()
		return
	}
	best := complete[0]
	e.mu.Unlock()

	e.dispatch(best, true)
}

// ----------------------------------------------------------------------
// Internals.

// stepLocked advances the per-utterance machine, logging transitions
// that should be impossible.
func (e *Engine) stepLocked(event fsm.Event) {
	next, err := fsm.Transition(e.state, event)
	if err != nil {
		e.logger.Error("utterance state machine", "error", err)
		return
	}
	e.state = next
}

// cancelUtteranceLocked returns the machine to idle when an utterance
// short-circuits before matching.
func (e *Engine) cancelUtteranceLocked() {
	if e.state == fsm.StateCollecting {
		e.stepLocked(fsm.EventCancel)
	}
}

func (e *Engine) runKeyphrase(words []string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("key phrase handler panicked",
				"phrase", strings.Join(words, " "), "panic", r)
		}
	}()
	fn()
}

func wordTexts(words []grammar.Word) []string {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return texts
}

func splitLower(phrase string) []string {
	return strings.Fields(strings.ToLower(phrase))
}

// phraseEqual reports whether words spell out phrase. An empty phrase
// never matches.
func phraseEqual(words, phrase []string) bool {
	if len(phrase) == 0 || len(words) != len(phrase) {
		return false
	}
	for i, w := range words {
		if !strings.EqualFold(w, phrase[i]) {
			return false
		}
	}
	return true
}
