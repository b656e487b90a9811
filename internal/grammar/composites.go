package grammar

// Sequence matches its children in order, backtracking through earlier
// children when a later one fails.
type Sequence struct {
	elem
	children []Element
}

// NewSequence returns an element matching children back to back.
func NewSequence(children ...Element) *Sequence {
	return &Sequence{children: children}
}

func (e *Sequence) Children() []Element { return e.children }

func (e *Sequence) Decode(s *State) Decoder {
	return &seqDecoder{s: s, el: e}
}

func (e *Sequence) Value(n *Node) any {
	values := make([]any, len(n.Children))
	for i, child := range n.Children {
		values[i] = child.Value()
	}
	return values
}

type seqDecoder struct {
	s     *State
	el    *Sequence
	path  []Decoder
	phase int
	empty bool
}

func (d *seqDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		if len(d.el.children) == 0 {
			d.s.DecodeSuccess(d.el)
			d.phase = 1
			d.empty = true
			return true
		}
		d.path = []Decoder{d.el.children[0].Decode(d.s)}
		return d.advance()
	case 1:
		d.s.DecodeRetry(d.el)
		if d.empty {
			d.s.DecodeFailure(d.el)
			d.phase = 2
			return false
		}
		return d.advance()
	default:
		return false
	}
}

// advance walks a path of child decoders: the last child steps through
// its alternatives, failures pop back to the previous child, and a full
// path is a success.
func (d *seqDecoder) advance() bool {
	for len(d.path) > 0 {
		if !d.path[len(d.path)-1].Next() {
			d.path = d.path[:len(d.path)-1]
			continue
		}
		if len(d.path) < len(d.el.children) {
			d.path = append(d.path, d.el.children[len(d.path)].Decode(d.s))
			continue
		}
		d.s.DecodeSuccess(d.el)
		d.phase = 1
		return true
	}
	d.s.DecodeFailure(d.el)
	d.phase = 2
	return false
}

// Alternative matches exactly one of its children, trying each in
// order and stepping through every alternative of each before moving
// on.
type Alternative struct {
	elem
	children []Element
}

// NewAlternative returns an element matching any one of children.
func NewAlternative(children ...Element) *Alternative {
	return &Alternative{children: children}
}

func (e *Alternative) Children() []Element { return e.children }

func (e *Alternative) Decode(s *State) Decoder {
	return &altDecoder{s: s, el: e}
}

func (e *Alternative) Value(n *Node) any {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0].Value()
}

type altDecoder struct {
	s     *State
	el    *Alternative
	idx   int
	cur   Decoder
	phase int
}

func (d *altDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		if len(d.el.children) == 0 {
			d.s.DecodeSuccess(d.el)
			d.phase = 3
			return true
		}
		d.cur = d.el.children[0].Decode(d.s)
		return d.advance()
	case 1:
		d.s.DecodeRetry(d.el)
		return d.advance()
	case 3:
		d.s.DecodeRetry(d.el)
		d.s.DecodeFailure(d.el)
		d.phase = 2
		return false
	default:
		return false
	}
}

func (d *altDecoder) advance() bool {
	for {
		if d.cur.Next() {
			d.s.DecodeSuccess(d.el)
			d.phase = 1
			return true
		}
		// Child exhausted; rewind so the next child starts clean.
		d.s.DecodeRollback(d.el)
		d.idx++
		if d.idx >= len(d.el.children) {
			d.s.DecodeFailure(d.el)
			d.phase = 2
			return false
		}
		d.cur = d.el.children[d.idx].Decode(d.s)
	}
}

// Optional matches its child or nothing. Greedy mode tries the child
// first and the null decode last.
type Optional struct {
	elem
	child  Element
	greedy bool
}

// NewOptional returns a greedy optional wrapper around child.
func NewOptional(child Element) *Optional {
	return &Optional{child: child, greedy: true}
}

// SetGreedy switches whether the child or the null decode is tried
// first.
func (e *Optional) SetGreedy(greedy bool) { e.greedy = greedy }

func (e *Optional) Children() []Element { return []Element{e.child} }

func (e *Optional) Decode(s *State) Decoder {
	return &optDecoder{s: s, el: e}
}

func (e *Optional) Value(n *Node) any {
	if len(n.Children) > 0 {
		return n.Children[0].Value()
	}
	return nil
}

type optDecoder struct {
	s     *State
	el    *Optional
	cur   Decoder
	phase int
}

func (d *optDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		if d.el.greedy {
			d.cur = d.el.child.Decode(d.s)
			return d.childFirst()
		}
		// The null decode comes first when not greedy.
		d.s.DecodeSuccess(d.el)
		d.phase = 2
		return true
	case 1:
		d.s.DecodeRetry(d.el)
		return d.childFirst()
	case 2:
		d.s.DecodeRetry(d.el)
		if d.el.greedy {
			d.s.DecodeFailure(d.el)
			d.phase = 4
			return false
		}
		d.s.DecodeRollback(d.el)
		d.cur = d.el.child.Decode(d.s)
		return d.childLast()
	case 3:
		d.s.DecodeRetry(d.el)
		return d.childLast()
	default:
		return false
	}
}

func (d *optDecoder) childFirst() bool {
	if d.cur.Next() {
		d.s.DecodeSuccess(d.el)
		d.phase = 1
		return true
	}
	d.s.DecodeRollback(d.el)
	d.s.DecodeSuccess(d.el)
	d.phase = 2
	return true
}

func (d *optDecoder) childLast() bool {
	if d.cur.Next() {
		d.s.DecodeSuccess(d.el)
		d.phase = 3
		return true
	}
	d.s.DecodeFailure(d.el)
	d.phase = 4
	return false
}

// Repetition matches its child between min and max times. The path of
// repetitions grows and shrinks dynamically, so bounds hold however
// deeply the child itself backtracks; greedy mode yields longer
// matches first.
type Repetition struct {
	elem
	child  Element
	min    int
	max    int
	greedy bool
}

// NewRepetition returns an element matching child at least min times.
// A max of zero means unbounded; otherwise max is the longest path
// yielded, and the decoder stops growing there.
func NewRepetition(child Element, min, max int) *Repetition {
	return &Repetition{child: child, min: min, max: max, greedy: true}
}

// SetGreedy switches between yielding longest matches first (greedy)
// and shortest first.
func (e *Repetition) SetGreedy(greedy bool) { e.greedy = greedy }

func (e *Repetition) Children() []Element { return []Element{e.child} }

func (e *Repetition) Decode(s *State) Decoder {
	return &repDecoder{s: s, el: e}
}

func (e *Repetition) Value(n *Node) any {
	values := make([]any, len(n.Children))
	for i, child := range n.Children {
		values[i] = child.Value()
	}
	return values
}

type repDecoder struct {
	s     *State
	el    *Repetition
	path  []Decoder
	phase int
	grow  bool
}

func (d *repDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		d.path = []Decoder{d.el.child.Decode(d.s)}
		return d.advance()
	case 1:
		d.s.DecodeRetry(d.el)
		if d.grow {
			d.grow = false
			d.path = append(d.path, d.el.child.Decode(d.s))
		}
		return d.advance()
	default:
		return false
	}
}

func (d *repDecoder) advance() bool {
	for len(d.path) > 0 {
		if !d.path[len(d.path)-1].Next() {
			d.path = d.path[:len(d.path)-1]
			if d.el.greedy && len(d.path) >= d.el.min {
				d.s.DecodeSuccess(d.el)
				d.phase = 1
				return true
			}
			continue
		}
		if d.el.max == 0 || len(d.path) < d.el.max {
			if !d.el.greedy && len(d.path) >= d.el.min {
				// Yield the shorter path now; grow it on retry.
				d.s.DecodeSuccess(d.el)
				d.phase = 1
				d.grow = true
				return true
			}
			d.path = append(d.path, d.el.child.Decode(d.s))
			continue
		}
		d.s.DecodeSuccess(d.el)
		d.phase = 1
		return true
	}
	d.s.DecodeFailure(d.el)
	d.phase = 2
	return false
}
