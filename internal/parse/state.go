package parse

import "fmt"

// StackError reports a broken decode frame stack: an element issued a
// protocol call that does not correspond to the frame it owns. It is a
// programming error in an element, not a parse failure, and escapes as a
// panic until the Parser boundary recovers it.
type StackError struct {
	Op    string
	Actor Element
}

func (e *StackError) Error() string {
	if e.Actor == nil {
		return fmt.Sprintf("parse: decode stack broken during %s", e.Op)
	}
	return fmt.Sprintf("parse: decode stack broken during %s of %s", e.Op, describe(e.Actor))
}

type frame struct {
	depth int
	actor Element
	begin int
	end   int
	value any
}

// State tracks a single decode pass over the input: the read position and
// the stack of decode frames from which the parse tree is later built.
type State struct {
	data  []rune
	index int
	stack []frame
	depth int
}

// NewState returns a fresh decode state over input.
func NewState(input string) *State {
	return &State{data: []rune(input)}
}

// Remaining reports how many runes are left to consume.
func (s *State) Remaining() int {
	return len(s.data) - s.index
}

// Finished reports whether the whole input has been consumed.
func (s *State) Finished() bool {
	return s.index >= len(s.data)
}

// Peek returns up to n runes ahead of the current position without
// consuming them. It returns false only when the input is exhausted; a
// short read near the end returns the remainder.
func (s *State) Peek(n int) (string, bool) {
	if s.index == len(s.data) {
		return "", false
	}
	if s.index+n > len(s.data) {
		n = len(s.data) - s.index
	}
	return string(s.data[s.index : s.index+n]), true
}

// Next consumes up to n runes, with the same edge behavior as Peek.
func (s *State) Next(n int) (string, bool) {
	if s.index == len(s.data) {
		return "", false
	}
	if s.index+n > len(s.data) {
		n = len(s.data) - s.index
	}
	s.index += n
	return string(s.data[s.index-n : s.index]), true
}

func (s *State) peekRune() (rune, bool) {
	if s.index >= len(s.data) {
		return 0, false
	}
	return s.data[s.index], true
}

// DecodeAttempt opens a frame for el at the current position. Every
// successful or still-active element owns exactly one frame; failed
// frames are popped again by DecodeFailure.
func (s *State) DecodeAttempt(el Element) {
	s.depth++
	s.stack = append(s.stack, frame{depth: s.depth, actor: el, begin: s.index, end: -1})
}

// DecodeRetry re-enters the frame owned by el after a yield, restoring
// the decode depth without moving the read position.
func (s *State) DecodeRetry(el Element) {
	f := s.frameByActor(el)
	if f == nil {
		panic(&StackError{Op: "retry", Actor: el})
	}
	s.depth = f.depth
}

// DecodeRollback rewinds the read position to the begin of el's frame.
// The frame must be the top of the stack: all deeper frames must have
// been failed away first.
func (s *State) DecodeRollback(el Element) {
	f := s.frameByDepth()
	if f == nil || f.actor != el || f != &s.stack[len(s.stack)-1] {
		panic(&StackError{Op: "rollback", Actor: el})
	}
	s.index = f.begin
}

// DecodeSuccess closes el's frame at the current position. The frame
// stays on the stack so BuildParseTree can see it.
func (s *State) DecodeSuccess(el Element) {
	s.decodeSuccess(el, nil)
}

// DecodeSuccessValue is DecodeSuccess with an explicit node value that
// overrides the actor's usual evaluation.
func (s *State) DecodeSuccessValue(el Element, value any) {
	s.decodeSuccess(el, value)
}

func (s *State) decodeSuccess(el Element, value any) {
	f := s.frameByDepth()
	if f == nil || f.actor != el {
		panic(&StackError{Op: "success", Actor: el})
	}
	f.end = s.index
	f.value = value
	s.depth--
}

// DecodeFailure abandons the topmost frame, rewinding the read position
// to where that frame began.
func (s *State) DecodeFailure(el Element) {
	if len(s.stack) == 0 {
		panic(&StackError{Op: "failure", Actor: el})
	}
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.index = f.begin
	s.depth = f.depth - 1
}

func (s *State) frameByDepth() *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].depth == s.depth {
			return &s.stack[i]
		}
	}
	return nil
}

func (s *State) frameByActor(el Element) *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].actor == el {
			return &s.stack[i]
		}
	}
	return nil
}

// BuildParseTree converts the frame stack of a successful decode into a
// node tree. Frames sit in depth-first order; the children of a frame
// are the consecutive frames one level deeper.
func (s *State) BuildParseTree() *Node {
	if len(s.stack) == 0 {
		return nil
	}
	root, _ := s.buildNode(0, nil)
	return root
}

func (s *State) buildNode(i int, parent *Node) (*Node, int) {
	f := s.stack[i]
	n := &Node{
		Parent:       parent,
		Actor:        f.actor,
		data:         s.data,
		Begin:        f.begin,
		End:          f.end,
		Depth:        f.depth,
		successValue: f.value,
	}
	if parent != nil {
		parent.Children = append(parent.Children, n)
	}
	i++
	for i < len(s.stack) && s.stack[i].depth == f.depth+1 {
		_, i = s.buildNode(i, n)
	}
	return n, i
}
