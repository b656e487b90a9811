// Package dictation carries free-form dictated words and renders them
// as written text: spoken punctuation becomes symbols, sentences are
// capitalized, and the standalone pronoun I is cased.
package dictation

import (
	"slices"
	"strings"
)

// Container holds the words of one dictated span. It is the value a
// dictation element produces, so command handlers can read either the
// raw words or the formatted text.
type Container struct {
	words  []string
	format bool
}

// NewContainer returns a container over words. With format set, String
// renders written text; otherwise it joins the words as spoken.
func NewContainer(words []string, format bool) *Container {
	return &Container{words: slices.Clone(words), format: format}
}

// Words returns a copy of the dictated words as recognized.
func (c *Container) Words() []string { return slices.Clone(c.words) }

// Len returns the number of dictated words.
func (c *Container) Len() int { return len(c.words) }

func (c *Container) String() string {
	if !c.format {
		return strings.Join(c.words, " ")
	}
	return Format(c.words)
}
