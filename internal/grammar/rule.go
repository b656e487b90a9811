package grammar

import (
	"errors"
	"fmt"
	"maps"
	"sync/atomic"
)

var (
	anonRuleCounter atomic.Uint64
	ruleWrapCounter atomic.Uint64
)

// ErrNoGrammar reports a rule operation that needs the rule to be
// attached to a grammar.
var ErrNoGrammar = errors.New("grammar: rule not attached to a grammar")

// Bindable is a mapping value that captures recognition extras when
// its entry is recognized, returning the bound copy.
type Bindable interface {
	Bind(extras map[string]any) any
}

// Rule pairs a name with an element tree and recognition callbacks. A
// rule decodes inside its own named frame, and enabled rules activate
// against the foreground window before each utterance.
type Rule struct {
	name     string
	element  Element
	exported bool
	context  Context
	enabled  bool
	active   bool
	grammar  *Grammar

	extras    map[string]Element
	valueFunc func(n *Node) any
	handler   func(n *Node)
}

// NewRule returns an unexported rule over element. An empty name is
// replaced with a generated one.
func NewRule(name string, element Element) *Rule {
	if name == "" {
		name = fmt.Sprintf("_anonrule_%03d", anonRuleCounter.Add(1))
	}
	return &Rule{name: name, element: element, enabled: true}
}

// CompoundHandler processes a compound rule recognition. extras holds
// the resolved named references plus the keys _grammar, _rule, and
// _node.
type CompoundHandler func(n *Node, extras map[string]any)

// NewCompoundRule returns an exported rule matching a single compiled
// spec. handler runs on every recognition of the rule; a nil handler
// just decodes.
func NewCompoundRule(name, spec string, b Bindings, handler CompoundHandler) (*Rule, error) {
	c, err := NewCompound(spec, b)
	if err != nil {
		return nil, err
	}
	r := NewRule(name, c)
	r.exported = true
	r.extras = maps.Clone(b.Extras)
	if handler != nil {
		r.handler = func(n *Node) {
			extras := map[string]any{"_grammar": r.grammar, "_rule": r, "_node": n}
			fillExtras(n, r.extras, extras)
			handler(n, extras)
		}
	}
	return r, nil
}

// MappingEntry pairs one spec of a mapping rule with the value its
// recognition produces.
type MappingEntry struct {
	Spec  string
	Value any
}

// MappingHandler processes a mapping rule recognition with the
// recognized entry's value, already bound to the extras if the value
// supports binding.
type MappingHandler func(n *Node, value any, extras map[string]any)

// NewMappingRule returns an exported rule matching any entry spec,
// tried in the given order.
func NewMappingRule(name string, entries []MappingEntry, b Bindings, handler MappingHandler) (*Rule, error) {
	children := make([]Element, 0, len(entries))
	for _, entry := range entries {
		c, err := NewCompound(entry.Spec, b)
		if err != nil {
			return nil, err
		}
		if entry.Value != nil {
			c.SetValue(entry.Value)
		}
		children = append(children, c)
	}
	r := NewRule(name, NewAlternative(children...))
	r.exported = true
	r.extras = maps.Clone(b.Extras)
	r.valueFunc = func(n *Node) any {
		if len(n.Children) == 0 {
			return nil
		}
		child := n.Children[0]
		v := child.Value()
		if bv, ok := v.(Bindable); ok {
			extras := map[string]any{"_grammar": r.grammar, "_rule": r, "_node": child}
			fillExtras(child, r.extras, extras)
			v = bv.Bind(extras)
		}
		return v
	}
	if handler != nil {
		r.handler = func(n *Node) {
			extras := map[string]any{"_grammar": r.grammar, "_rule": r, "_node": n}
			fillExtras(n, r.extras, extras)
			handler(n, r.Value(n), extras)
		}
	}
	return r, nil
}

// Name returns the rule's name, unique within its grammar.
func (r *Rule) Name() string { return r.name }

// Element returns the rule's root element.
func (r *Rule) Element() Element { return r.element }

// Exported reports whether the rule is decoded directly. Unexported
// rules are only reachable through references.
func (r *Rule) Exported() bool { return r.exported }

// SetExported marks the rule for direct decoding.
func (r *Rule) SetExported(exported bool) { r.exported = exported }

// Context returns the rule's activation context, if any.
func (r *Rule) Context() Context { return r.context }

// SetContext restricts activation to windows the context matches.
func (r *Rule) SetContext(c Context) { r.context = c }

// Enabled reports whether the rule wants to be active.
func (r *Rule) Enabled() bool { return r.enabled }

// Enable lets the rule activate on the next utterance begin.
func (r *Rule) Enable() { r.enabled = true }

// Disable keeps the rule from activating on the next utterance begin.
func (r *Rule) Disable() { r.enabled = false }

// Active reports whether the rule is currently activated.
func (r *Rule) Active() bool { return r.active }

// Grammar returns the grammar the rule is attached to, if any.
func (r *Rule) Grammar() *Grammar { return r.grammar }

// Activate registers the rule with its grammar's engine.
func (r *Rule) Activate() error {
	if r.grammar == nil {
		return ErrNoGrammar
	}
	if r.active {
		return nil
	}
	if err := r.grammar.activateRule(r); err != nil {
		return err
	}
	r.active = true
	return nil
}

// Deactivate unregisters the rule from its grammar's engine.
func (r *Rule) Deactivate() error {
	if r.grammar == nil {
		return ErrNoGrammar
	}
	if !r.active {
		return nil
	}
	if err := r.grammar.deactivateRule(r); err != nil {
		return err
	}
	r.active = false
	return nil
}

// ProcessBegin syncs the rule's activation against the foreground
// window before an utterance is decoded.
func (r *Rule) ProcessBegin(executable, title, handle string) error {
	if !r.enabled {
		return r.Deactivate()
	}
	if r.context == nil || r.context.Matches(executable, title, handle) {
		return r.Activate()
	}
	return r.Deactivate()
}

// Decode opens the rule's frame and decodes its element inside it.
func (r *Rule) Decode(s *State) Decoder {
	return &wrapDecoder{s: s, actor: r, inner: r.element}
}

// Value evaluates the rule's node, by default the element's value.
func (r *Rule) Value(n *Node) any {
	if r.valueFunc != nil {
		return r.valueFunc(n)
	}
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0].Value()
}

// ProcessRecognition runs the rule's recognition callback on a
// successful decode's parse tree.
func (r *Rule) ProcessRecognition(n *Node) {
	if r.handler != nil {
		r.handler(n)
	}
}
