package grammar

import (
	"fmt"
	"maps"
	"strings"
	"unicode"

	"github.com/rbright/parola/internal/parse"
)

// Bindings supplies the named references a spec may use: extras for
// <name> and actions for {name}. Each compile call carries its own
// bindings; nothing is registered globally.
type Bindings struct {
	Extras  map[string]Element
	Actions map[string]any
}

// NewBindings collects named elements into extras bindings.
func NewBindings(extras ...Element) Bindings {
	m := make(map[string]Element, len(extras))
	for _, el := range extras {
		m[el.Name()] = el
	}
	return Bindings{Extras: m}
}

// CompileError reports a spec that does not compile, either because it
// does not parse or because it names a reference with no binding.
type CompileError struct {
	Spec string
	Ref  string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("grammar: spec %q: unknown reference %q", e.Spec, e.Ref)
	}
	return fmt.Sprintf("grammar: spec %q does not parse: %v", e.Spec, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// CompileSpec compiles a spec string into an element tree. The spec
// language: words form literals, <name> embeds an extras binding,
// {name} embeds an actions binding, [...] is optional, (...) groups,
// and | separates alternatives.
func CompileSpec(spec string, b Bindings) (Element, error) {
	node, err := specParser.ParseNode(spec)
	if err != nil {
		return nil, &CompileError{Spec: spec, Err: err}
	}
	c := &specCompiler{spec: spec, b: b}
	return c.alternative(node)
}

// specParser parses the spec language itself. The element tree is
// immutable and shared by every compile.
var specParser = newSpecParser()

// forwardElement breaks the construction cycle between alternatives
// and the bracketed singles that contain them.
type forwardElement struct {
	target parse.Element
}

func (f *forwardElement) Name() string { return "" }

func (f *forwardElement) Children() []parse.Element { return nil }

func (f *forwardElement) Parse(s *parse.State) parse.Decoder { return f.target.Parse(s) }

func (f *forwardElement) Value(n *parse.Node) any { return f.target.Value(n) }

func newSpecParser() *parse.Parser {
	ws := parse.NewWhitespace(true)
	word := parse.NewCharacterSeriesFunc(func(c rune) bool {
		return !unicode.IsSpace(c) && !strings.ContainsRune("[]<>|(){}", c)
	})
	word.SetName("word")

	inner := &forwardElement{}

	reference := parse.NewSequence(parse.NewString("<"), ws, word, ws, parse.NewString(">"))
	reference.SetName("reference")
	action := parse.NewSequence(parse.NewString("{"), ws, word, ws, parse.NewString("}"))
	action.SetName("action")
	optional := parse.NewSequence(parse.NewString("["), inner, parse.NewString("]"))
	optional.SetName("optional")
	group := parse.NewSequence(parse.NewString("("), inner, parse.NewString(")"))
	group.SetName("group")

	single := parse.NewAlternative(reference, action, optional, group, word)
	item := parse.NewSequence(ws, single)
	sequence := parse.NewSequence(parse.NewRepetition(item, 0, 0), ws)
	sequence.SetName("sequence")
	bar := parse.NewSequence(parse.NewString("|"), sequence)
	alternative := parse.NewSequence(sequence, parse.NewRepetition(bar, 0, 0))
	alternative.SetName("alternative")
	inner.target = alternative

	return parse.NewParser(alternative)
}

type specCompiler struct {
	spec string
	b    Bindings
}

// alternative transforms an alternative node. A single branch is
// returned unwrapped.
func (c *specCompiler) alternative(n *parse.Node) (Element, error) {
	seqNodes := n.ChildrenByName("sequence")
	children := make([]Element, 0, len(seqNodes))
	for _, sn := range seqNodes {
		el, err := c.sequence(sn)
		if err != nil {
			return nil, err
		}
		children = append(children, el)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return NewAlternative(children...), nil
}

// sequence transforms a sequence node, collapsing runs of adjacent
// words into one multi-word literal. A single child is returned
// unwrapped.
func (c *specCompiler) sequence(n *parse.Node) (Element, error) {
	singles := specSingles(n)
	var children []Element
	for i := 0; i < len(singles); i++ {
		sn := singles[i]
		if sn.Actor.Name() == "word" {
			words := []string{sn.Match()}
			for i+1 < len(singles) && singles[i+1].Actor.Name() == "word" {
				i++
				words = append(words, singles[i].Match())
			}
			children = append(children, NewLiteral(strings.Join(words, " ")))
			continue
		}
		el, err := c.single(sn)
		if err != nil {
			return nil, err
		}
		children = append(children, el)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return NewSequence(children...), nil
}

func (c *specCompiler) single(n *parse.Node) (Element, error) {
	switch n.Actor.Name() {
	case "reference":
		name := n.ChildByName("word").Match()
		el, ok := c.b.Extras[name]
		if !ok {
			return nil, &CompileError{Spec: c.spec, Ref: name}
		}
		return el, nil
	case "action":
		name := n.ChildByName("word").Match()
		v, ok := c.b.Actions[name]
		if !ok {
			return nil, &CompileError{Spec: c.spec, Ref: name}
		}
		e := NewEmpty()
		e.SetValue(v)
		e.SetName(name)
		return e, nil
	case "optional":
		child, err := c.alternative(n.ChildByName("alternative"))
		if err != nil {
			return nil, err
		}
		return NewOptional(child), nil
	case "group":
		return c.alternative(n.ChildByName("alternative"))
	}
	return nil, &CompileError{Spec: c.spec, Err: fmt.Errorf("unexpected node %q", n.Actor.Name())}
}

var specSingleKinds = map[string]bool{
	"word":      true,
	"reference": true,
	"action":    true,
	"optional":  true,
	"group":     true,
}

// specSingles collects a sequence node's singles in textual order,
// without descending into nested named nodes.
func specSingles(n *parse.Node) []*parse.Node {
	var out []*parse.Node
	for _, child := range n.Children {
		name := child.Actor.Name()
		if specSingleKinds[name] {
			out = append(out, child)
			continue
		}
		if name != "" {
			continue
		}
		out = append(out, specSingles(child)...)
	}
	return out
}

// ValueFunc computes a compound's value from its node and resolved
// extras. The node itself is available under the "_node" key.
type ValueFunc func(n *Node, extras map[string]any) any

// Compound compiles a spec string into a single element. The value of
// a match is, in order of precedence: the value function, the fixed
// value, or the compiled child's value.
type Compound struct {
	elem
	spec      string
	child     Element
	extras    map[string]Element
	value     any
	hasValue  bool
	valueFunc ValueFunc
}

// NewCompound compiles spec against b and wraps the result.
func NewCompound(spec string, b Bindings) (*Compound, error) {
	child, err := CompileSpec(spec, b)
	if err != nil {
		return nil, err
	}
	return &Compound{spec: spec, child: child, extras: maps.Clone(b.Extras)}, nil
}

// Spec returns the source spec string.
func (e *Compound) Spec() string { return e.spec }

// SetValue fixes the value a match evaluates to.
func (e *Compound) SetValue(v any) {
	e.value = v
	e.hasValue = true
}

// SetValueFunc installs a function computing the value of a match.
func (e *Compound) SetValueFunc(f ValueFunc) { e.valueFunc = f }

func (e *Compound) Children() []Element { return []Element{e.child} }

func (e *Compound) Decode(s *State) Decoder {
	return &wrapDecoder{s: s, actor: e, inner: e.child}
}

func (e *Compound) Value(n *Node) any {
	if e.valueFunc != nil {
		extras := map[string]any{"_node": n}
		fillExtras(n, e.extras, extras)
		return e.valueFunc(n, extras)
	}
	if e.hasValue {
		return e.value
	}
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0].Value()
}

// ChoiceOption pairs a spec with the value its match stands for. A nil
// value leaves the match's words as the value.
type ChoiceOption struct {
	Spec  string
	Value any
}

// NewChoice returns a named alternative over compiled specs, tried in
// the given order.
func NewChoice(name string, options []ChoiceOption, b Bindings) (*Alternative, error) {
	children := make([]Element, 0, len(options))
	for _, opt := range options {
		c, err := NewCompound(opt.Spec, b)
		if err != nil {
			return nil, err
		}
		if opt.Value != nil {
			c.SetValue(opt.Value)
		}
		children = append(children, c)
	}
	alt := NewAlternative(children...)
	alt.SetName(name)
	return alt, nil
}

// fillExtras resolves each named extra against node, falling back to
// the element's default when the extra decoded nothing.
func fillExtras(n *Node, extras map[string]Element, out map[string]any) {
	for name, el := range extras {
		if child := n.ChildByNameShallow(name); child != nil {
			out[name] = child.Value()
			continue
		}
		if def, ok := el.Default(); ok {
			out[name] = def
		}
	}
}
