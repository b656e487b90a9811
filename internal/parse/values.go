package parse

import (
	"strconv"
	"unicode"
)

const escapeChar = '\\'

var escapedChars = map[rune]rune{
	'n': '\n',
	't': '\t',
}

// quotedContent consumes the body of a quoted string up to the closing
// delimiter, handling backslash escapes. It always succeeds, possibly
// with an empty body, and records the unescaped text as its value.
type quotedContent struct {
	elem
	delimiter string
}

func validQuotedChar(c rune) bool {
	return unicode.IsPrint(c) || unicode.IsSpace(c)
}

func (e *quotedContent) Parse(s *State) Decoder {
	return &quotedContentDecoder{el: e, s: s}
}

func (e *quotedContent) Value(n *Node) any { return n.Match() }

type quotedContentDecoder struct {
	el    *quotedContent
	s     *State
	phase int
}

func (d *quotedContentDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		var body []rune
		for !d.s.Finished() {
			c, _ := d.s.peekRune()
			if c == escapeChar {
				if d.s.Remaining() < 2 {
					break
				}
				ahead, _ := d.s.Peek(2)
				escaped := []rune(ahead)[1]
				if mapped, ok := escapedChars[escaped]; ok {
					c = mapped
				} else {
					c = escaped
					if !validQuotedChar(c) {
						break
					}
				}
				d.s.Next(1)
			} else if ahead, ok := d.s.Peek(len([]rune(d.el.delimiter))); ok && ahead == d.el.delimiter {
				break
			} else if !validQuotedChar(c) {
				break
			}
			d.s.Next(1)
			body = append(body, c)
		}
		d.s.DecodeSuccessValue(d.el, string(body))
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

// DefaultDelimiters are the quote pairs QuotedString accepts unless
// configured otherwise.
var DefaultDelimiters = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
}

// QuotedString matches a quoted string with escape handling and
// evaluates to the unescaped body. Asymmetric open and close delimiters
// are supported.
type QuotedString struct {
	elem
	children []Element
}

// NewQuotedString returns an element accepting DefaultDelimiters.
func NewQuotedString() *QuotedString {
	return NewQuotedStringDelimited(DefaultDelimiters)
}

// NewQuotedStringDelimited returns an element accepting the given
// open-close delimiter pairs.
func NewQuotedStringDelimited(delimiters [][2]string) *QuotedString {
	e := &QuotedString{}
	for _, pair := range delimiters {
		e.children = append(e.children, NewSequence(
			NewString(pair[0]),
			&quotedContent{delimiter: pair[1]},
			NewString(pair[1]),
		))
	}
	return e
}

func (e *QuotedString) Children() []Element { return e.children }

func (e *QuotedString) Parse(s *State) Decoder {
	return newAltDecoder(s, e, e.children)
}

func (e *QuotedString) Value(n *Node) any {
	return n.Children[0].Children[1].Value()
}

const digitChars = "0123456789"

// UnsignedInteger matches a run of decimal digits and evaluates to its
// numeric value.
type UnsignedInteger struct {
	elem
	series *CharacterSeries
}

// NewUnsignedInteger returns an element matching one or more digits.
func NewUnsignedInteger() *UnsignedInteger {
	return &UnsignedInteger{series: NewCharacterSeries(digitChars)}
}

func (e *UnsignedInteger) Parse(s *State) Decoder {
	return &seriesDecoder{el: e.series, s: s, actor: e}
}

func (e *UnsignedInteger) Value(n *Node) any {
	v, err := strconv.Atoi(n.Match())
	if err != nil {
		return nil
	}
	return v
}

var signValues = []ChoiceOption{
	{Key: "+", Value: 1},
	{Key: "-", Value: -1},
}

// Integer matches an optionally signed run of digits and evaluates to
// its numeric value.
type Integer struct {
	elem
	children []Element
}

// NewInteger returns an element matching an optionally signed integer.
func NewInteger() *Integer {
	return &Integer{children: []Element{
		NewOptional(NewChoice(signValues...)),
		NewUnsignedInteger(),
	}}
}

func (e *Integer) Children() []Element { return e.children }

func (e *Integer) Parse(s *State) Decoder {
	return newSeqDecoder(s, e, e.children)
}

func (e *Integer) Value(n *Node) any {
	v, err := strconv.Atoi(n.Match())
	if err != nil {
		return nil
	}
	return v
}

// Float matches a decimal fraction such as "1.5", ".5", or "-1.75" and
// evaluates to its numeric value.
type Float struct {
	elem
	children []Element
}

// NewFloat returns an element matching a decimal fraction. The integer
// part and its sign are optional; the fractional digits are not.
func NewFloat() *Float {
	sign := NewChoice(signValues...)
	sign.SetName("sign_only")
	return &Float{children: []Element{
		NewOptional(NewAlternative(NewInteger(), sign)),
		NewString("."),
		NewUnsignedInteger(),
	}}
}

func (e *Float) Children() []Element { return e.children }

func (e *Float) Parse(s *State) Decoder {
	return newSeqDecoder(s, e, e.children)
}

func (e *Float) Value(n *Node) any {
	v, err := strconv.ParseFloat(n.Match(), 64)
	if err != nil {
		return nil
	}
	return v
}
