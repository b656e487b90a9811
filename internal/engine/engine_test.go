package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/parola/internal/fsm"
	"github.com/rbright/parola/internal/grammar"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder captures observer callbacks for assertions. Callbacks can
// arrive from the timeout goroutine, so every access is locked.
type recorder struct {
	mu        sync.Mutex
	nBegin    int
	fails     [][]string
	recs      []Recognition
	ruleFails []string
}

func (r *recorder) OnBegin() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nBegin++
}

func (r *recorder) OnRecognition(rec Recognition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recs = append(r.recs, rec)
}

func (r *recorder) OnFailure(words []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails = append(r.fails, words)
}

func (r *recorder) OnRuleFailure(rule string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ruleFails = append(r.ruleFails, rule)
}

func (r *recorder) begins() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nBegin
}

func (r *recorder) failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fails)
}

func (r *recorder) failedWords() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.fails))
	copy(out, r.fails)
	return out
}

func (r *recorder) recognized() []Recognition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recognition, len(r.recs))
	copy(out, r.recs)
	return out
}

func (r *recorder) failedRules() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ruleFails))
	copy(out, r.ruleFails)
	return out
}

// callLog records handler and observer invocations in order.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.calls))
	copy(out, l.calls)
	return out
}

func (l *callLog) handler(name string) grammar.CompoundHandler {
	return func(*grammar.Node, map[string]any) { l.add(name) }
}

// orderObserver writes observer callbacks into the same log as rule
// handlers so ordering between the two is visible.
type orderObserver struct {
	log *callLog
}

func (o *orderObserver) OnBegin()                  { o.log.add("begin") }
func (o *orderObserver) OnRecognition(Recognition) { o.log.add("recognition") }
func (o *orderObserver) OnFailure([]string)        { o.log.add("failure") }

type fakeWindow struct {
	mu  sync.Mutex
	win Window
}

func (f *fakeWindow) set(w Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.win = w
}

func (f *fakeWindow) ForegroundWindow(context.Context) (Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.win, nil
}

func dictationExtra(name string) grammar.Element {
	d := grammar.NewDictation()
	d.SetName(name)
	return d
}

func mustRule(t *testing.T, name, spec string, b grammar.Bindings, handler grammar.CompoundHandler) *grammar.Rule {
	t.Helper()
	r, err := grammar.NewCompoundRule(name, spec, b, handler)
	require.NoError(t, err)
	return r
}

func loadGrammar(t *testing.T, e *Engine, name string, rules ...*grammar.Rule) *grammar.Grammar {
	t.Helper()
	g := grammar.NewGrammar(name)
	for _, r := range rules {
		require.NoError(t, g.AddRule(r))
	}
	require.NoError(t, g.Load(e))
	return g
}

func TestProcessDispatchesCompleteMatch(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}
	e.RegisterObserver(&orderObserver{log: log})

	loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	out := e.Process(context.Background(), "press enter")
	require.Equal(t, OutcomeDispatched, out)
	require.Equal(t, []string{"begin", "recognition", "press"}, log.list())
	require.Equal(t, fsm.StateIdle, e.State())
}

func TestProcessReportsRecognitionDetails(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)

	noop := func(*grammar.Node, map[string]any) {}
	loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), noop))

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "press enter"))

	recs := rec.recognized()
	require.Len(t, recs, 1)
	require.Equal(t, []string{"press", "enter"}, recs[0].Words)
	require.Equal(t, "press", recs[0].Rule)
	require.Equal(t, "main", recs[0].Grammar)
	require.False(t, recs[0].TimedOut)
	require.Equal(t, 1, rec.begins())
}

func TestProcessWithoutMatchNotifiesFailure(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}
	rec := &recorder{}
	e.RegisterObserver(&orderObserver{log: log})
	e.RegisterObserver(rec)

	loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "press escape"))
	require.Equal(t, []string{"begin", "failure"}, log.list())
	require.Equal(t, [][]string{{"press", "escape"}}, rec.failedWords())
}

func TestEmptyHypothesisIgnored(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)

	require.Equal(t, OutcomeIgnored, e.Process(context.Background(), "   "))
	require.Equal(t, 0, rec.begins())
	require.Equal(t, 0, rec.failures())
}

func TestCommandWordsOutrankDictation(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	loadGrammar(t, e, "a", mustRule(t, "plain", "note pad", grammar.NewBindings(), log.handler("plain")))

	var gotText any
	dict := mustRule(t, "dictate", "note <text>", grammar.NewBindings(dictationExtra("text")),
		func(_ *grammar.Node, extras map[string]any) {
			log.add("dictate")
			gotText = extras["text"]
		})
	loadGrammar(t, e, "b", dict)

	// Both rules can consume "note pad", but the plain rule covers it
	// entirely with command words and must win.
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "note pad"))
	require.Equal(t, []string{"plain"}, log.list())

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "note hello world"))
	require.Equal(t, []string{"plain", "dictate"}, log.list())
	require.NotNil(t, gotText)
	require.Equal(t, "hello world", fmt.Sprint(gotText))

	recs := rec.recognized()
	require.Len(t, recs, 2)
	require.Equal(t, []string{"note", "hello", "world"}, recs[1].Words)
	require.Equal(t, "dictate", recs[1].Rule)
}

func TestSequenceAcrossUtterances(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	dict := mustRule(t, "dictate", "note <text>", grammar.NewBindings(dictationExtra("text")),
		func(_ *grammar.Node, extras map[string]any) {
			log.add(fmt.Sprint(extras["text"]))
		})
	loadGrammar(t, e, "notes", dict)

	// First utterance stops right before the dictation part.
	require.Equal(t, OutcomeWaiting, e.Process(context.Background(), "note"))
	require.Equal(t, 1, e.PendingSequences())
	require.Empty(t, rec.recognized())

	// The next utterance completes the parked rule.
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "hello world"))
	require.Equal(t, 0, e.PendingSequences())
	require.Equal(t, []string{"hello world"}, log.list())

	recs := rec.recognized()
	require.Len(t, recs, 1)
	require.Equal(t, []string{"note", "hello", "world"}, recs[0].Words)
	require.Equal(t, "dictate", recs[0].Rule)
	require.False(t, recs[0].TimedOut)
}

func TestSequenceTimeoutCommitsCompleteAlternative(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger(), SequenceTimeout: 25 * time.Millisecond})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	seq := mustRule(t, "sequence", "open file <text>", grammar.NewBindings(dictationExtra("text")), log.handler("sequence"))
	plain := mustRule(t, "plain", "open file", grammar.NewBindings(), log.handler("plain"))
	loadGrammar(t, e, "files", seq, plain)

	// "open file" both completes the plain rule and could start the
	// dictation rule. The dictation start wins for now and the plain
	// match is parked alongside it.
	require.Equal(t, OutcomeWaiting, e.Process(context.Background(), "open file"))
	require.Equal(t, 2, e.PendingSequences())
	require.Empty(t, log.list())

	// No follow-up arrives, so the timeout commits the parked complete
	// match instead.
	require.Eventually(t, func() bool { return len(log.list()) == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"plain"}, log.list())
	require.Equal(t, 0, e.PendingSequences())

	recs := rec.recognized()
	require.Len(t, recs, 1)
	require.Equal(t, "plain", recs[0].Rule)
	require.Equal(t, []string{"open", "file"}, recs[0].Words)
	require.True(t, recs[0].TimedOut)
}

func TestSequenceTimeoutWithoutFallbackNotifiesFailure(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger(), SequenceTimeout: 25 * time.Millisecond})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	seq := mustRule(t, "sequence", "take note <text>", grammar.NewBindings(dictationExtra("text")), log.handler("sequence"))
	loadGrammar(t, e, "notes", seq)

	require.Equal(t, OutcomeWaiting, e.Process(context.Background(), "take note"))
	require.Equal(t, 1, e.PendingSequences())

	require.Eventually(t, func() bool { return rec.failures() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, 0, e.PendingSequences())
	require.Empty(t, log.list())
	require.Empty(t, rec.recognized())
}

func TestSequenceContinuationBeatsFreshMatch(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}

	seq := mustRule(t, "sequence", "say <text>", grammar.NewBindings(dictationExtra("text")), log.handler("sequence"))
	fresh := mustRule(t, "fresh", "hello there", grammar.NewBindings(), log.handler("fresh"))
	loadGrammar(t, e, "mixed", seq, fresh)

	require.Equal(t, OutcomeWaiting, e.Process(context.Background(), "say"))

	// "hello there" completes the parked sequence; the fresh complete
	// match of the other rule is not considered while a set is pending.
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "hello there"))
	require.Equal(t, []string{"sequence"}, log.list())
	require.Equal(t, 0, e.PendingSequences())
}

func TestKeyphraseShortCircuitsMatching(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	loadGrammar(t, e, "main", mustRule(t, "snap", "snap shot", grammar.NewBindings(), log.handler("rule")))
	require.NoError(t, e.SetKeyphrase("snap shot", func() { log.add("keyphrase") }))

	require.Equal(t, OutcomeKeyphrase, e.Process(context.Background(), "snap shot"))
	require.Equal(t, []string{"keyphrase"}, log.list())

	recs := rec.recognized()
	require.Len(t, recs, 1)
	require.Equal(t, []string{"snap", "shot"}, recs[0].Words)
	require.Empty(t, recs[0].Rule)

	// Removing the key phrase lets the rule match again.
	e.UnsetKeyphrase("snap shot")
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "snap shot"))
	require.Equal(t, []string{"keyphrase", "rule"}, log.list())

	require.Error(t, e.SetKeyphrase("", func() {}))
	require.Error(t, e.SetKeyphrase("snap shot", nil))
}

func TestSleepAndWakePhrases(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger(), WakePhrase: "wake up", SleepPhrase: "go to sleep"})
	log := &callLog{}
	loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	require.False(t, e.Paused())
	require.Equal(t, OutcomeKeyphrase, e.Process(context.Background(), "go to sleep"))
	require.True(t, e.Paused())

	// Asleep: ordinary speech is dropped without matching.
	require.Equal(t, OutcomeIgnored, e.Process(context.Background(), "press enter"))
	require.Empty(t, log.list())

	require.Equal(t, OutcomeKeyphrase, e.Process(context.Background(), "wake up"))
	require.False(t, e.Paused())
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "press enter"))
	require.Equal(t, []string{"press"}, log.list())
}

func TestStartAsleepAndManualResume(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger(), StartAsleep: true})
	require.True(t, e.Paused())

	e.ResumeRecognition()
	require.False(t, e.Paused())
	e.ResumeRecognition()
	require.False(t, e.Paused())

	e.PauseRecognition()
	require.True(t, e.Paused())
}

func TestCancelNextDropsOneUtterance(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}
	loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	e.CancelNext()
	require.Equal(t, OutcomeIgnored, e.Process(context.Background(), "press enter"))
	require.Empty(t, log.list())

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "press enter"))
	require.Equal(t, []string{"press"}, log.list())
}

func TestMimic(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}
	loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	require.NoError(t, e.Mimic(context.Background(), "press", "enter"))
	require.Equal(t, []string{"press"}, log.list())

	err := e.Mimic(context.Background(), "bogus")
	require.Error(t, err)
	require.True(t, IsMimicFailure(err))
	require.ErrorContains(t, err, "no rule matched")

	var mf *MimicFailure
	require.True(t, errors.As(err, &mf))
	require.Equal(t, []string{"bogus"}, mf.Words)
}

func TestHelperRuleNotDirectlySpeakable(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	// "three" is only reachable through the reference inside "count
	// <n>". The helper rule itself must never match an utterance.
	helper := grammar.NewRule("helper", grammar.NewLiteral("three"))
	ref := grammar.NewRuleRef(helper)
	ref.SetName("n")
	count := mustRule(t, "count", "count <n>", grammar.NewBindings(ref), log.handler("count"))
	loadGrammar(t, e, "main", count)

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "count three"))
	require.Equal(t, []string{"count"}, log.list())

	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "three"))
	require.Equal(t, []string{"count"}, log.list())
	require.Equal(t, [][]string{{"three"}}, rec.failedWords())

	err := e.Mimic(context.Background(), "three")
	require.True(t, IsMimicFailure(err))

	recs := rec.recognized()
	require.Len(t, recs, 1)
	require.Equal(t, "count", recs[0].Rule)
}

func TestStrictDictationRequiresTaggedWords(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger(), StrictDictation: true})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	dict := mustRule(t, "dictate", "note <text>", grammar.NewBindings(dictationExtra("text")), log.handler("dictate"))
	loadGrammar(t, e, "notes", dict)

	// Untagged transcript words cannot feed the dictation element.
	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "note hello"))
	require.Empty(t, log.list())

	// Mimic marks all-caps words as dictation, so the same phrase works.
	require.NoError(t, e.Mimic(context.Background(), "note", "HELLO"))
	require.Equal(t, []string{"dictate"}, log.list())

	recs := rec.recognized()
	require.Len(t, recs, 1)
	require.Equal(t, []string{"note", "hello"}, recs[0].Words)
}

func TestExclusiveGrammarSuppressesOthers(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}

	ga := loadGrammar(t, e, "a", mustRule(t, "alpha", "alpha one", grammar.NewBindings(), log.handler("alpha")))
	loadGrammar(t, e, "b", mustRule(t, "beta", "beta two", grammar.NewBindings(), log.handler("beta")))

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "beta two"))

	require.NoError(t, ga.SetExclusive(true))
	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "beta two"))
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "alpha one"))

	require.NoError(t, ga.SetExclusive(false))
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "beta two"))

	require.Equal(t, []string{"beta", "alpha", "beta"}, log.list())
}

func TestUnloadGrammarDropsParkedSequences(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}

	dict := mustRule(t, "dictate", "note <text>", grammar.NewBindings(dictationExtra("text")), log.handler("dictate"))
	g := loadGrammar(t, e, "notes", dict)

	require.Equal(t, OutcomeWaiting, e.Process(context.Background(), "note"))
	require.Equal(t, 1, e.PendingSequences())

	require.NoError(t, g.Unload())
	require.Equal(t, 0, e.PendingSequences())

	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "hello"))
	require.Empty(t, log.list())
}

func TestRuleHandlerPanicIsContained(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)

	boom := mustRule(t, "boomer", "go boom", grammar.NewBindings(),
		func(*grammar.Node, map[string]any) { panic("kaboom") })
	loadGrammar(t, e, "main", boom)

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "go boom"))
	require.Equal(t, []string{"boomer"}, rec.failedRules())

	// The engine stays usable after a handler panic.
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "go boom"))
	require.Equal(t, []string{"boomer", "boomer"}, rec.failedRules())
}

func TestWindowContextGatesRules(t *testing.T) {
	t.Parallel()

	fw := &fakeWindow{}
	fw.set(Window{Executable: "code", Title: "main.go"})

	e := New(Config{Logger: testLogger(), Window: fw})
	log := &callLog{}

	r := mustRule(t, "save", "save it", grammar.NewBindings(), log.handler("save"))
	r.SetContext(grammar.NewAppContext("code", ""))
	loadGrammar(t, e, "editor", r)

	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "save it"))
	require.Equal(t, []string{"save"}, log.list())

	fw.set(Window{Executable: "browser", Title: "news"})
	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "save it"))
	require.Equal(t, []string{"save"}, log.list())

	fw.set(Window{Executable: "code", Title: "other.go"})
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "save it"))
	require.Equal(t, []string{"save", "save"}, log.list())
}

func TestLoadGrammarRejectsDuplicates(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}
	g := loadGrammar(t, e, "dup", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	require.Error(t, e.LoadGrammar(g))
	require.Error(t, e.LoadGrammar(grammar.NewGrammar("dup")))

	infos := e.Grammars()
	require.Len(t, infos, 1)
	require.Equal(t, "dup", infos[0].Name)
	require.True(t, infos[0].Enabled)
	require.Equal(t, []string{"press"}, infos[0].Rules)
}

func TestGrammarRecognitionCallbackCanVetoDecoding(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	rec := &recorder{}
	e.RegisterObserver(rec)
	log := &callLog{}

	g := loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))

	var offered [][]string
	veto := true
	g.OnRecognition = func(words []grammar.Word) bool {
		offered = append(offered, wordTexts(words))
		return !veto
	}

	// The callback sees the words before decoding and can decline them.
	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "press enter"))
	require.Empty(t, log.list())
	require.Equal(t, 1, rec.failures())

	veto = false
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "press enter"))
	require.Equal(t, []string{"press"}, log.list())
	require.Equal(t, [][]string{{"press", "enter"}, {"press", "enter"}}, offered)
}

func TestGrammarOtherAndFailureCallbacks(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}

	ga := loadGrammar(t, e, "a", mustRule(t, "alpha", "alpha one", grammar.NewBindings(), log.handler("alpha")))
	gb := loadGrammar(t, e, "b", mustRule(t, "beta", "beta two", grammar.NewBindings(), log.handler("beta")))

	var otherWords []string
	ga.OnOther = func(words []grammar.Word) {
		otherWords = wordTexts(words)
		log.add("a-other")
	}
	gb.OnOther = func([]grammar.Word) { log.add("b-other") }
	ga.OnFailure = func() { log.add("a-failure") }
	gb.OnFailure = func() { log.add("b-failure") }

	// b wins, so only a hears that the words went elsewhere.
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "beta two"))
	require.Equal(t, []string{"a-other", "beta"}, log.list())
	require.Equal(t, []string{"beta", "two"}, otherWords)

	// Nothing matches: both grammars hear the failure.
	require.Equal(t, OutcomeFailed, e.Process(context.Background(), "gamma three"))
	require.Equal(t, []string{"a-other", "beta", "a-failure", "b-failure"}, log.list())
}

func TestGrammarCallbackPanicIsContained(t *testing.T) {
	t.Parallel()

	e := New(Config{Logger: testLogger()})
	log := &callLog{}

	g := loadGrammar(t, e, "main", mustRule(t, "press", "press enter", grammar.NewBindings(), log.handler("press")))
	g.OnRecognition = func([]grammar.Word) bool { panic("kaboom") }

	// A panicking callback neither vetoes nor breaks matching.
	require.Equal(t, OutcomeDispatched, e.Process(context.Background(), "press enter"))
	require.Equal(t, []string{"press"}, log.list())
}

func TestMapWords(t *testing.T) {
	t.Parallel()

	words := MapWords([]string{"open", "HELLO", "There", "A"})
	require.Equal(t, []grammar.Word{
		{Text: "open", RuleID: 0},
		{Text: "hello", RuleID: grammar.DictationRuleID},
		{Text: "There", RuleID: 0},
		{Text: "a", RuleID: grammar.DictationRuleID},
	}, words)
}
