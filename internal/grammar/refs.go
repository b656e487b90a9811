package grammar

import (
	"fmt"
	"strings"
)

// RuleRef embeds another rule's element tree at this position. The
// referenced rule decodes inside its own named frame, so its contents
// resolve names against the rule's scope.
type RuleRef struct {
	elem
	rule *Rule
}

// NewRuleRef returns an element decoding rule at this position.
func NewRuleRef(rule *Rule) *RuleRef {
	return &RuleRef{rule: rule}
}

// Rule returns the referenced rule.
func (e *RuleRef) Rule() *Rule { return e.rule }

func (e *RuleRef) Decode(s *State) Decoder {
	return &wrapDecoder{s: s, actor: e, inner: e.rule}
}

func (e *RuleRef) Value(n *Node) any {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0].Value()
}

// NewRuleWrap wraps element in a private unexported rule and returns a
// named reference to it. The wrapping rule scopes the element's names
// away from the surrounding grammar.
func NewRuleWrap(name string, element Element) *RuleRef {
	r := NewRule(fmt.Sprintf("_rulewrap_%02d", ruleWrapCounter.Add(1)), element)
	ref := NewRuleRef(r)
	ref.SetName(name)
	return ref
}

// ListRef matches one entry of a List. Entries may span several words;
// shorter joins are tried before longer ones.
type ListRef struct {
	elem
	list *List
}

// NewListRef returns an element matching any entry of list at the time
// of decoding.
func NewListRef(list *List) *ListRef {
	return &ListRef{list: list}
}

// List returns the referenced list.
func (e *ListRef) List() *List { return e.list }

func (e *ListRef) Decode(s *State) Decoder {
	return &listRefDecoder{s: s, actor: e, contains: e.list.Contains}
}

func (e *ListRef) Value(n *Node) any {
	return strings.Join(n.Words(), " ")
}

// DictListRef matches one key of a DictList and evaluates to the value
// stored under the matched key.
type DictListRef struct {
	elem
	dict *DictList
}

// NewDictListRef returns an element matching any key of dict at the
// time of decoding.
func NewDictListRef(dict *DictList) *DictListRef {
	return &DictListRef{dict: dict}
}

// Dict returns the referenced dictionary list.
func (e *DictListRef) Dict() *DictList { return e.dict }

func (e *DictListRef) Decode(s *State) Decoder {
	return &listRefDecoder{s: s, actor: e, contains: e.dict.Contains}
}

func (e *DictListRef) Value(n *Node) any {
	v, _ := e.dict.Get(strings.Join(n.Words(), " "))
	return v
}

// listRefDecoder tries word joins of increasing length against a
// membership test, rewinding between attempts.
type listRefDecoder struct {
	s        *State
	actor    Element
	contains func(string) bool
	n        int
	phase    int
}

func (d *listRefDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.actor)
		return d.advance()
	case 1:
		d.s.DecodeRetry(d.actor)
		d.s.DecodeRollback(d.actor)
		return d.advance()
	default:
		return false
	}
}

func (d *listRefDecoder) advance() bool {
	for d.n < d.s.Remaining() {
		d.n++
		words := make([]string, 0, d.n)
		for i := 0; i < d.n; i++ {
			w, _ := d.s.Word(i)
			words = append(words, w.Text)
		}
		if d.contains(strings.Join(words, " ")) {
			d.s.Next(d.n)
			d.s.DecodeSuccess(d.actor)
			d.phase = 1
			return true
		}
	}
	d.s.DecodeFailure(d.actor)
	d.phase = 2
	return false
}
