package parse

import (
	"fmt"
	"strings"
	"unicode"
)

// Element is a composable piece of a parser. Parse must not touch the
// state: it returns a Decoder whose first Next opens the element's frame.
type Element interface {
	Name() string
	Children() []Element
	Parse(s *State) Decoder
	Value(n *Node) any
}

// Decoder steps through an element's decode alternatives. Next reports
// whether another successful decode is available; once it returns false
// the element has failed away its frame and must not be stepped again.
type Decoder interface {
	Next() bool
}

// elem carries the optional lookup name shared by all element types.
type elem struct {
	name string
}

func (e *elem) Name() string { return e.name }

// SetName assigns the lookup name used by Node.ChildByName.
func (e *elem) SetName(name string) { e.name = name }

func (e *elem) Children() []Element { return nil }

func describe(el Element) string {
	if el.Name() != "" {
		return el.Name()
	}
	return fmt.Sprintf("%T", el)
}

// String matches a fixed sequence of characters.
type String struct {
	elem
	target string
}

// NewString returns an element matching exactly target.
func NewString(target string) *String {
	return &String{target: target}
}

func (e *String) Parse(s *State) Decoder { return &stringDecoder{el: e, s: s} }

func (e *String) Value(n *Node) any { return n.Match() }

type stringDecoder struct {
	el    *String
	s     *State
	phase int
}

func (d *stringDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		got, ok := d.s.Next(len([]rune(d.el.target)))
		if ok && got == d.el.target {
			d.s.DecodeSuccess(d.el)
			d.phase = 1
			return true
		}
		d.s.DecodeFailure(d.el)
		d.phase = 2
		return false
	case 1:
		d.s.DecodeRetry(d.el)
		d.s.DecodeFailure(d.el)
		d.phase = 2
		return false
	default:
		return false
	}
}

// CharacterSeries greedily consumes the longest run of matching
// characters. It succeeds at most once: there is no backtracking over
// shorter runs.
type CharacterSeries struct {
	elem
	set      string
	match    func(rune) bool
	optional bool
	exclude  bool
}

// NewCharacterSeries returns an element consuming a run of characters
// drawn from set.
func NewCharacterSeries(set string) *CharacterSeries {
	return &CharacterSeries{set: set}
}

// NewCharacterSeriesFunc returns an element consuming a run of
// characters satisfying match.
func NewCharacterSeriesFunc(match func(rune) bool) *CharacterSeries {
	return &CharacterSeries{match: match}
}

// SetOptional lets an empty run count as a success.
func (e *CharacterSeries) SetOptional(optional bool) { e.optional = optional }

// SetExclude inverts the set: the run consumes characters that do not
// match.
func (e *CharacterSeries) SetExclude(exclude bool) { e.exclude = exclude }

func (e *CharacterSeries) charMatches(c rune) bool {
	if e.match != nil {
		return e.match(c)
	}
	return strings.ContainsRune(e.set, c)
}

func (e *CharacterSeries) Parse(s *State) Decoder {
	return &seriesDecoder{el: e, actor: e, s: s}
}

func (e *CharacterSeries) Value(n *Node) any { return n.Match() }

// seriesDecoder runs the greedy gobble for its actor, which is either
// the CharacterSeries itself or an element wrapping one.
type seriesDecoder struct {
	el    *CharacterSeries
	actor Element
	s     *State
	phase int
}

func (d *seriesDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.actor)
		count := 0
		for {
			c, ok := d.s.peekRune()
			if !ok {
				break
			}
			if d.el.charMatches(c) == d.el.exclude {
				break
			}
			d.s.Next(1)
			count++
		}
		if d.el.optional || count > 0 {
			d.s.DecodeSuccess(d.actor)
			d.phase = 1
			return true
		}
		d.s.DecodeFailure(d.actor)
		d.phase = 2
		return false
	case 1:
		d.s.DecodeRetry(d.actor)
		d.s.DecodeFailure(d.actor)
		d.phase = 2
		return false
	default:
		return false
	}
}

// NewWhitespace returns an element consuming a run of whitespace. With
// optional set, zero characters still succeed.
func NewWhitespace(optional bool) *CharacterSeries {
	e := NewCharacterSeriesFunc(unicode.IsSpace)
	e.optional = optional
	return e
}

// NewLetters returns an element consuming a run of letters and
// underscores.
func NewLetters() *CharacterSeries {
	return NewCharacterSeriesFunc(func(c rune) bool {
		return unicode.IsLetter(c) || c == '_'
	})
}

// NewAlphanumerics returns an element consuming a run of letters,
// digits, and underscores.
func NewAlphanumerics() *CharacterSeries {
	return NewCharacterSeriesFunc(func(c rune) bool {
		return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
	})
}
