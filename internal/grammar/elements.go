package grammar

import "strings"

// Actor is anything that can own a decode frame: elements and rules.
type Actor interface {
	Name() string
	Value(n *Node) any
}

// Element is a composable piece of a grammar, decoded over recognized
// words. Decode must not touch the state: it returns a Decoder whose
// first Next opens the element's frame.
type Element interface {
	Actor
	Children() []Element
	Decode(s *State) Decoder
	Default() (any, bool)
}

// Decoder steps through an element's decode alternatives. Next reports
// whether another successful decode is available; once it returns false
// the element has failed away its frame and must not be stepped again.
type Decoder interface {
	Next() bool
}

// decodable is satisfied by elements and rules alike.
type decodable interface {
	Decode(s *State) Decoder
}

// elem carries the lookup name and extras default shared by most
// element types.
type elem struct {
	name   string
	def    any
	hasDef bool
}

func (e *elem) Name() string { return e.name }

// SetName assigns the lookup name used by Node.ChildByName and by
// extras maps.
func (e *elem) SetName(name string) { e.name = name }

func (e *elem) Children() []Element { return nil }

func (e *elem) Default() (any, bool) { return e.def, e.hasDef }

// SetDefault assigns the value an extras map receives when this element
// decoded nothing.
func (e *elem) SetDefault(v any) {
	e.def = v
	e.hasDef = true
}

// wrapDecoder opens a frame for actor and delegates the decode inside
// it to inner. Rules, rule references, and single-child wrappers all
// share it.
type wrapDecoder struct {
	s     *State
	actor Actor
	inner decodable
	dec   Decoder
	phase int
}

func (d *wrapDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.actor)
		d.dec = d.inner.Decode(d.s)
	case 1:
		d.s.DecodeRetry(d.actor)
	default:
		return false
	}
	if d.dec.Next() {
		d.s.DecodeSuccess(d.actor)
		d.phase = 1
		return true
	}
	d.s.DecodeFailure(d.actor)
	d.phase = 2
	return false
}

// Literal matches a fixed sequence of spoken words, case-insensitively
// and regardless of how the words were tagged.
type Literal struct {
	elem
	text     string
	words    []string
	value    any
	hasValue bool
}

// NewLiteral returns an element matching the words of text in order.
func NewLiteral(text string) *Literal {
	l := &Literal{text: text}
	for _, w := range strings.Fields(text) {
		l.words = append(l.words, strings.ToLower(w))
	}
	return l
}

// SetValue overrides the value a match evaluates to; without it the
// node's words are returned.
func (e *Literal) SetValue(v any) {
	e.value = v
	e.hasValue = true
}

// Text returns the literal's original spelling.
func (e *Literal) Text() string { return e.text }

func (e *Literal) Decode(s *State) Decoder { return &literalDecoder{el: e, s: s} }

func (e *Literal) Value(n *Node) any {
	if e.hasValue {
		return e.value
	}
	return n.Words()
}

type literalDecoder struct {
	el    *Literal
	s     *State
	phase int
}

func (d *literalDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		for i, want := range d.el.words {
			got, ok := d.s.Word(i)
			if !ok || strings.ToLower(got.Text) != want {
				d.s.DecodeFailure(d.el)
				d.phase = 2
				return false
			}
		}
		d.s.Next(len(d.el.words))
		d.s.DecodeSuccess(d.el)
		d.phase = 1
		return true
	case 1:
		d.s.DecodeRetry(d.el)
		d.s.DecodeFailure(d.el)
		d.phase = 2
		return false
	default:
		return false
	}
}

// Empty matches zero words and always succeeds exactly once.
type Empty struct {
	elem
	value any
}

// NewEmpty returns an element that consumes nothing and evaluates to
// true.
func NewEmpty() *Empty {
	return &Empty{value: true}
}

// SetValue overrides the value a match evaluates to.
func (e *Empty) SetValue(v any) { e.value = v }

func (e *Empty) Decode(s *State) Decoder { return &emptyDecoder{el: e, s: s} }

func (e *Empty) Value(n *Node) any { return e.value }

type emptyDecoder struct {
	el    *Empty
	s     *State
	phase int
}

func (d *emptyDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		d.s.DecodeSuccess(d.el)
		d.phase = 1
		return true
	case 1:
		d.s.DecodeRetry(d.el)
		d.s.DecodeFailure(d.el)
		d.phase = 2
		return false
	default:
		return false
	}
}

// Impossible never matches. It is useful as a placeholder that keeps a
// spec compilable while making its branch unreachable.
type Impossible struct {
	elem
}

// NewImpossible returns an element that fails every decode.
func NewImpossible() *Impossible { return &Impossible{} }

func (e *Impossible) Decode(s *State) Decoder { return &impossibleDecoder{el: e, s: s} }

func (e *Impossible) Value(n *Node) any { return nil }

type impossibleDecoder struct {
	el   *Impossible
	s    *State
	done bool
}

func (d *impossibleDecoder) Next() bool {
	if d.done {
		return false
	}
	d.s.DecodeAttempt(d.el)
	d.s.DecodeFailure(d.el)
	d.done = true
	return false
}

// Modifier passes its child's decode through and applies fn to the
// child's value. Name and default mirror the child's.
type Modifier struct {
	child Element
	fn    func(any) any
}

// NewModifier returns an element decoding exactly like child whose
// value is fn applied to the child's value.
func NewModifier(child Element, fn func(any) any) *Modifier {
	return &Modifier{child: child, fn: fn}
}

func (e *Modifier) Name() string { return e.child.Name() }

func (e *Modifier) Default() (any, bool) { return e.child.Default() }

func (e *Modifier) Children() []Element { return []Element{e.child} }

func (e *Modifier) Decode(s *State) Decoder {
	return &wrapDecoder{s: s, actor: e, inner: e.child}
}

func (e *Modifier) Value(n *Node) any {
	if len(n.Children) == 0 {
		return nil
	}
	v := n.Children[0].Value()
	if e.fn != nil {
		v = e.fn(v)
	}
	return v
}
