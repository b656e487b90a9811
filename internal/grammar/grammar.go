// Package grammar models speech grammars. Elements decode recognized
// words through the same backtracking frame protocol the parse package
// uses for characters; rules group elements with recognition
// callbacks, and grammars group rules for registration with an engine.
// Compound specs compile to element trees against per-compile
// bindings.
package grammar

import (
	"errors"
	"fmt"
)

// Engine is the recognition backend a grammar registers with.
type Engine interface {
	LoadGrammar(g *Grammar) error
	UnloadGrammar(g *Grammar) error
	ActivateRule(r *Rule, g *Grammar) error
	DeactivateRule(r *Rule, g *Grammar) error
	UpdateList(l ListContainer, g *Grammar) error
	SetExclusive(g *Grammar, exclusive bool) error
}

var (
	// ErrLoaded reports a mutation that requires the grammar to not be
	// loaded.
	ErrLoaded = errors.New("grammar: grammar already loaded")
	// ErrNotLoaded reports an operation that requires a loaded
	// grammar.
	ErrNotLoaded = errors.New("grammar: grammar not loaded")
)

// Grammar is a named collection of rules and lists registered with an
// engine as one unit.
type Grammar struct {
	name    string
	context Context
	rules   []*Rule
	lists   []ListContainer
	enabled bool
	loaded  bool
	engine  Engine

	// OnRecognition, if set, sees every recognition this grammar is
	// offered before rule matching; returning false stops the words
	// from being decoded against the grammar's rules.
	OnRecognition func(words []Word) bool
	// OnOther, if set, is called when a recognition was matched by
	// some other grammar.
	OnOther func(words []Word)
	// OnFailure, if set, is called when a recognition matched no
	// grammar at all.
	OnFailure func()
}

// NewGrammar returns an enabled, empty grammar.
func NewGrammar(name string) *Grammar {
	return &Grammar{name: name, enabled: true}
}

// Name returns the grammar's name.
func (g *Grammar) Name() string { return g.name }

// Context returns the grammar-wide activation context, if any.
func (g *Grammar) Context() Context { return g.context }

// SetContext restricts the whole grammar to windows the context
// matches.
func (g *Grammar) SetContext(c Context) { g.context = c }

// Enabled reports whether the grammar takes part in recognition.
func (g *Grammar) Enabled() bool { return g.enabled }

// Enable lets the grammar take part in recognition again.
func (g *Grammar) Enable() { g.enabled = true }

// Disable keeps the grammar out of recognition without unloading it.
func (g *Grammar) Disable() { g.enabled = false }

// Loaded reports whether the grammar is registered with an engine.
func (g *Grammar) Loaded() bool { return g.loaded }

// Rules returns the grammar's rules in registration order.
func (g *Grammar) Rules() []*Rule {
	out := make([]*Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Rule returns the rule registered under name, or nil.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.rules {
		if r.name == name {
			return r
		}
	}
	return nil
}

// RuleNames returns the rule names in registration order. Word rule
// ids index into this slice.
func (g *Grammar) RuleNames() []string {
	out := make([]string, len(g.rules))
	for i, r := range g.rules {
		out[i] = r.name
	}
	return out
}

// ActiveRules returns the rules currently activated.
func (g *Grammar) ActiveRules() []*Rule {
	var out []*Rule
	for _, r := range g.rules {
		if r.active {
			out = append(out, r)
		}
	}
	return out
}

// Lists returns the grammar's lists in registration order.
func (g *Grammar) Lists() []ListContainer {
	out := make([]ListContainer, len(g.lists))
	copy(out, g.lists)
	return out
}

// AddRule registers a rule. The grammar must not be loaded, the name
// must be free, and the rule must not belong to another grammar.
func (g *Grammar) AddRule(r *Rule) error {
	if g.loaded {
		return ErrLoaded
	}
	if r.grammar == g {
		return nil
	}
	if r.grammar != nil {
		return fmt.Errorf("grammar: rule %q already in grammar %q", r.name, r.grammar.name)
	}
	if g.Rule(r.name) != nil {
		return fmt.Errorf("grammar: duplicate rule name %q", r.name)
	}
	r.grammar = g
	g.rules = append(g.rules, r)
	return nil
}

// RemoveRule unregisters a rule. The grammar must not be loaded.
func (g *Grammar) RemoveRule(r *Rule) error {
	if g.loaded {
		return ErrLoaded
	}
	for i, have := range g.rules {
		if have == r {
			g.rules = append(g.rules[:i], g.rules[i+1:]...)
			r.grammar = nil
			return nil
		}
	}
	return fmt.Errorf("grammar: rule %q not in grammar %q", r.name, g.name)
}

// AddList registers a list. Adding the same list again is a no-op.
func (g *Grammar) AddList(l ListContainer) error {
	if g.loaded {
		return ErrLoaded
	}
	for _, have := range g.lists {
		if have == l {
			return nil
		}
		if have.Name() == l.Name() {
			return fmt.Errorf("grammar: duplicate list name %q", l.Name())
		}
	}
	if err := l.attach(g); err != nil {
		return err
	}
	g.lists = append(g.lists, l)
	return nil
}

// RemoveList unregisters a list. The grammar must not be loaded.
func (g *Grammar) RemoveList(l ListContainer) error {
	if g.loaded {
		return ErrLoaded
	}
	for i, have := range g.lists {
		if have == l {
			g.lists = append(g.lists[:i], g.lists[i+1:]...)
			l.detach()
			return nil
		}
	}
	return fmt.Errorf("grammar: list %q not in grammar %q", l.Name(), g.name)
}

// Load folds in every rule and list reachable through references, then
// registers the grammar with the engine.
func (g *Grammar) Load(e Engine) error {
	if g.loaded {
		return ErrLoaded
	}
	if e == nil {
		return errors.New("grammar: nil engine")
	}
	seen := make(map[*Rule]bool, len(g.rules))
	for _, r := range g.rules {
		seen[r] = true
	}
	var depRules []*Rule
	var depLists []ListContainer
	for _, r := range g.rules {
		if r.element != nil {
			collectDependencies(r.element, &depRules, &depLists, seen)
		}
	}
	for _, r := range depRules {
		if err := g.AddRule(r); err != nil {
			return err
		}
	}
	for _, l := range depLists {
		if err := g.AddList(l); err != nil {
			return err
		}
	}
	if err := e.LoadGrammar(g); err != nil {
		return err
	}
	g.engine = e
	g.loaded = true
	return nil
}

// Unload unregisters the grammar from its engine and deactivates every
// rule.
func (g *Grammar) Unload() error {
	if !g.loaded {
		return ErrNotLoaded
	}
	if err := g.engine.UnloadGrammar(g); err != nil {
		return err
	}
	for _, r := range g.rules {
		r.active = false
	}
	g.loaded = false
	g.engine = nil
	return nil
}

// ProcessBegin syncs rule activation against the foreground window
// before an utterance is decoded. Only exported rules activate; an
// unexported rule is reachable solely through references from a rule
// that exports it. A grammar-level context mismatch deactivates every
// rule.
func (g *Grammar) ProcessBegin(executable, title, handle string) error {
	if !g.enabled {
		return nil
	}
	var errs []error
	if g.context != nil && !g.context.Matches(executable, title, handle) {
		for _, r := range g.rules {
			errs = append(errs, r.Deactivate())
		}
		return errors.Join(errs...)
	}
	for _, r := range g.rules {
		if !r.exported {
			continue
		}
		errs = append(errs, r.ProcessBegin(executable, title, handle))
	}
	return errors.Join(errs...)
}

// SetExclusive asks the engine to recognize only this grammar.
func (g *Grammar) SetExclusive(exclusive bool) error {
	if !g.loaded {
		return ErrNotLoaded
	}
	return g.engine.SetExclusive(g, exclusive)
}

func (g *Grammar) activateRule(r *Rule) error {
	if !g.loaded {
		return ErrNotLoaded
	}
	if !r.exported {
		return nil
	}
	return g.engine.ActivateRule(r, g)
}

func (g *Grammar) deactivateRule(r *Rule) error {
	if !g.loaded {
		return ErrNotLoaded
	}
	if !r.exported {
		return nil
	}
	return g.engine.DeactivateRule(r, g)
}

func (g *Grammar) updateList(l ListContainer) error {
	if !g.loaded {
		return nil
	}
	return g.engine.UpdateList(l, g)
}

// collectDependencies walks an element tree for the rules and lists it
// references, following referenced rules' own elements.
func collectDependencies(el Element, rules *[]*Rule, lists *[]ListContainer, seen map[*Rule]bool) {
	switch t := el.(type) {
	case *RuleRef:
		if t.rule != nil && !seen[t.rule] {
			seen[t.rule] = true
			*rules = append(*rules, t.rule)
			if t.rule.element != nil {
				collectDependencies(t.rule.element, rules, lists, seen)
			}
		}
	case *ListRef:
		*lists = append(*lists, t.list)
	case *DictListRef:
		*lists = append(*lists, t.dict)
	}
	for _, c := range el.Children() {
		collectDependencies(c, rules, lists, seen)
	}
}
