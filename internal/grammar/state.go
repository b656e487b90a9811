package grammar

import (
	"errors"
	"fmt"
)

// Rule identifiers above ReservedRuleID are reserved for words produced
// by free dictation rather than by a command rule.
const (
	DictationRuleID uint32 = 1000000
	LettersRuleID   uint32 = 1000001
)

// ErrUnknownRuleID reports a recognized word tagged with a rule id that
// is neither reserved nor an index into the grammar's rule names.
var ErrUnknownRuleID = errors.New("grammar: word tagged with unknown rule id")

// Word is one recognized word together with the id of the rule that
// produced it.
type Word struct {
	Text   string
	RuleID uint32
}

// IsDictated reports whether the word came from free dictation.
func (w Word) IsDictated() bool {
	return w.RuleID == DictationRuleID || w.RuleID == LettersRuleID
}

// StackError reports a decode protocol violation: an element closed or
// rewound a frame it does not own. It indicates a broken element, not a
// failed match.
type StackError struct {
	Op    string
	Actor Actor
}

func (e *StackError) Error() string {
	return fmt.Sprintf("grammar: decoding stack broken in %s by %s", e.Op, actorLabel(e.Actor))
}

// frame records one actor's slice of the decode. A frame with end >= 0
// was closed successfully; failed frames are popped instead.
type frame struct {
	depth int
	actor Actor
	begin int
	end   int
}

// State tracks a decode over a recognized word sequence. Actors open
// frames as they attempt to match, close them on success, and pop them
// on failure; the successful frames left behind describe the parse.
type State struct {
	words     []Word
	ruleNames []string
	index     int
	stack     []frame
	depth     int

	// DictatedWordGuesses lets Dictation elements consume words tagged
	// as command words. It is set when decoding a merged utterance
	// whose tail was recognized against command rules.
	DictatedWordGuesses bool
}

// NewState returns a decode state over words. Every word must be tagged
// with a reserved rule id or an index into ruleNames.
func NewState(words []Word, ruleNames []string) (*State, error) {
	for _, w := range words {
		if w.IsDictated() {
			continue
		}
		if int(w.RuleID) >= len(ruleNames) {
			return nil, fmt.Errorf("%w: %q tagged %d", ErrUnknownRuleID, w.Text, w.RuleID)
		}
	}
	return &State{words: words, ruleNames: ruleNames}, nil
}

// InitializeDecoding rewinds the state so another rule can decode the
// same words from the start.
func (s *State) InitializeDecoding() {
	s.index = 0
	s.depth = 0
	s.stack = s.stack[:0]
}

// Finished reports whether every word has been consumed.
func (s *State) Finished() bool { return s.index >= len(s.words) }

// Remaining returns the number of words not yet consumed.
func (s *State) Remaining() int { return len(s.words) - s.index }

// Word returns the word delta positions ahead of the current one.
func (s *State) Word(delta int) (Word, bool) {
	i := s.index + delta
	if i < 0 || i >= len(s.words) {
		return Word{}, false
	}
	return s.words[i], true
}

// RuleName resolves the rule tag of the word delta positions ahead.
func (s *State) RuleName(delta int) (string, bool) {
	w, ok := s.Word(delta)
	if !ok {
		return "", false
	}
	switch w.RuleID {
	case DictationRuleID:
		return "dictation", true
	case LettersRuleID:
		return "letters", true
	}
	return s.ruleNames[w.RuleID], true
}

// Next advances the word position by delta without bounds checking.
func (s *State) Next(delta int) { s.index += delta }

// DecodeAttempt opens a frame for actor at the current position.
func (s *State) DecodeAttempt(actor Actor) {
	s.depth++
	s.stack = append(s.stack, frame{depth: s.depth, actor: actor, begin: s.index, end: -1})
}

// DecodeRetry reenters the most recent frame owned by actor so the
// decode can resume where it left off.
func (s *State) DecodeRetry(actor Actor) {
	f := s.frameByActor(actor)
	if f == nil {
		panic(&StackError{Op: "retry", Actor: actor})
	}
	s.depth = f.depth
}

// DecodeRollback rewinds the word position to the opening of actor's
// frame, which must be the topmost frame.
func (s *State) DecodeRollback(actor Actor) {
	f := s.frameByDepth(s.depth)
	if f == nil || f.actor != actor || f != &s.stack[len(s.stack)-1] {
		panic(&StackError{Op: "rollback", Actor: actor})
	}
	s.index = f.begin
}

// DecodeSuccess closes actor's frame at the current position. The frame
// stays on the stack as part of the parse.
func (s *State) DecodeSuccess(actor Actor) {
	f := s.frameByDepth(s.depth)
	if f == nil || f.actor != actor {
		panic(&StackError{Op: "success", Actor: actor})
	}
	f.end = s.index
	s.depth--
}

// DecodeFailure pops actor's frame and rewinds the word position to
// where it began.
func (s *State) DecodeFailure(actor Actor) {
	if len(s.stack) == 0 {
		panic(&StackError{Op: "failure", Actor: actor})
	}
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.index = f.begin
	s.depth = f.depth - 1
}

func (s *State) frameByDepth(depth int) *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].depth == depth {
			return &s.stack[i]
		}
	}
	return nil
}

func (s *State) frameByActor(actor Actor) *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].actor == actor {
			return &s.stack[i]
		}
	}
	return nil
}

// BuildParseTree assembles the tree of successful frames left by a
// finished decode. Children are the frames opened one level below their
// parent, in decode order.
func (s *State) BuildParseTree() *Node {
	if len(s.stack) == 0 {
		return nil
	}
	root, _ := s.buildNode(0)
	return root
}

func (s *State) buildNode(i int) (*Node, int) {
	f := s.stack[i]
	node := &Node{
		Actor: f.actor,
		Begin: f.begin,
		End:   f.end,
		Depth: f.depth,
		words: s.words,
	}
	i++
	for i < len(s.stack) && s.stack[i].depth > f.depth {
		if s.stack[i].depth == f.depth+1 {
			var child *Node
			child, i = s.buildNode(i)
			child.Parent = node
			node.Children = append(node.Children, child)
		} else {
			i++
		}
	}
	return node, i
}
