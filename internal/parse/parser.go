// Package parse implements a backtracking parser built from composable
// elements. Elements decode lazily through iterator-style Decoders, so
// alternatives are explored one at a time and a failed branch rewinds
// the shared state before the next is tried. The grammar DSL compilers
// and the action compiler are written on top of it.
package parse

import "errors"

// ErrNoMatch reports that every decode alternative was exhausted
// without covering the input. It is the ordinary "does not parse"
// result, distinct from a StackError.
var ErrNoMatch = errors.New("parse: no match")

// Parser drives an element over an input string.
type Parser struct {
	// Element is the root of the element tree.
	Element Element
	// AllowPartial accepts decodes that leave trailing input
	// unconsumed.
	AllowPartial bool
}

// NewParser returns a parser that requires el to consume all input.
func NewParser(el Element) *Parser {
	return &Parser{Element: el}
}

// Parse returns the value of the first successful decode, or ErrNoMatch.
func (p *Parser) Parse(input string) (any, error) {
	node, err := p.ParseNode(input)
	if err != nil {
		return nil, err
	}
	return node.Value(), nil
}

// ParseNode returns the parse tree of the first successful decode, or
// ErrNoMatch. A StackError raised by a misbehaving element is recovered
// here and returned as the error.
func (p *Parser) ParseNode(input string) (node *Node, err error) {
	defer recoverStackError(&err)
	s := NewState(input)
	dec := p.Element.Parse(s)
	for dec.Next() {
		if p.AllowPartial || s.Finished() {
			return s.BuildParseTree(), nil
		}
	}
	return nil, ErrNoMatch
}

// ParseMultiple returns the values of every successful decode in the
// order the decoder yields them. An empty slice means no match; that is
// not an error here.
func (p *Parser) ParseMultiple(input string) (values []any, err error) {
	defer recoverStackError(&err)
	s := NewState(input)
	dec := p.Element.Parse(s)
	for dec.Next() {
		if p.AllowPartial || s.Finished() {
			values = append(values, s.BuildParseTree().Value())
		}
	}
	return values, nil
}

func recoverStackError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	se, ok := r.(*StackError)
	if !ok {
		panic(r)
	}
	*err = se
}
