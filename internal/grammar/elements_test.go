package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/parola/internal/dictation"
)

func commandWords(text string) []Word {
	var words []Word
	for _, w := range strings.Fields(text) {
		words = append(words, Word{Text: w, RuleID: 0})
	}
	return words
}

func dictatedWords(text string) []Word {
	var words []Word
	for _, w := range strings.Fields(text) {
		words = append(words, Word{Text: w, RuleID: DictationRuleID})
	}
	return words
}

// decodeFirst drives el over words and returns the parse tree of the
// first decode that consumes everything, or nil.
func decodeFirst(t *testing.T, el Element, words []Word) *Node {
	t.Helper()
	return decodeState(t, el, words, false)
}

func decodeState(t *testing.T, el Element, words []Word, guesses bool) *Node {
	t.Helper()
	s, err := NewState(words, []string{"test"})
	require.NoError(t, err)
	s.DictatedWordGuesses = guesses
	dec := el.Decode(s)
	for dec.Next() {
		if s.Finished() {
			return s.BuildParseTree()
		}
	}
	return nil
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spec  string
		words []Word
		match bool
	}{
		{name: "single word", spec: "hello", words: commandWords("hello"), match: true},
		{name: "multi word", spec: "hello there", words: commandWords("hello there"), match: true},
		{name: "case insensitive", spec: "Hello There", words: commandWords("hello there"), match: true},
		{name: "wrong word", spec: "hello", words: commandWords("goodbye"), match: false},
		{name: "partial input", spec: "hello there", words: commandWords("hello"), match: false},
		{name: "trailing input", spec: "hello", words: commandWords("hello there"), match: false},
		{name: "tag does not matter", spec: "hello", words: dictatedWords("hello"), match: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node := decodeFirst(t, NewLiteral(tt.spec), tt.words)
			if !tt.match {
				require.Nil(t, node)
				return
			}
			require.NotNil(t, node)
			var want []string
			for _, w := range tt.words {
				want = append(want, w.Text)
			}
			require.Equal(t, want, node.Words())
		})
	}
}

func TestLiteralValueOverride(t *testing.T) {
	t.Parallel()

	lit := NewLiteral("twenty")
	lit.SetValue(20)
	node := decodeFirst(t, lit, commandWords("twenty"))
	require.NotNil(t, node)
	require.Equal(t, 20, node.Value())
}

func TestSequenceBacktracksThroughOptional(t *testing.T) {
	t.Parallel()

	// The greedy optional consumes "a" first, starving the literal;
	// the sequence backtracks it to the null decode.
	el := NewSequence(NewOptional(NewLiteral("a")), NewLiteral("a"))
	node := decodeFirst(t, el, commandWords("a"))
	require.NotNil(t, node)
	require.Len(t, node.Children, 2)
	require.Empty(t, node.Children[0].Words())
	require.Equal(t, []string{"a"}, node.Children[1].Words())
}

func TestOptionalForms(t *testing.T) {
	t.Parallel()

	el := NewSequence(NewOptional(NewLiteral("please")), NewLiteral("stop"))
	require.NotNil(t, decodeFirst(t, el, commandWords("please stop")))
	require.NotNil(t, decodeFirst(t, el, commandWords("stop")))
	require.Nil(t, decodeFirst(t, el, commandWords("please")))
}

func TestAlternativeTriesChildrenInOrder(t *testing.T) {
	t.Parallel()

	first := NewLiteral("go")
	first.SetValue("first")
	second := NewLiteral("go")
	second.SetValue("second")
	node := decodeFirst(t, NewAlternative(first, second), commandWords("go"))
	require.NotNil(t, node)
	require.Equal(t, "first", node.Value())
}

func TestRepetition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		min, max int
		words    []Word
		children int
	}{
		{name: "unbounded takes all", min: 1, max: 0, words: commandWords("go go go"), children: 3},
		{name: "single", min: 1, max: 0, words: commandWords("go"), children: 1},
		{name: "max caps the path", min: 1, max: 2, words: commandWords("go go go"), children: -1},
		{name: "min not reached", min: 2, max: 0, words: commandWords("go"), children: -1},
		{name: "within bounds", min: 2, max: 3, words: commandWords("go go"), children: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			node := decodeFirst(t, NewRepetition(NewLiteral("go"), tt.min, tt.max), tt.words)
			if tt.children < 0 {
				require.Nil(t, node)
				return
			}
			require.NotNil(t, node)
			require.Len(t, node.Children, tt.children)
			require.Len(t, node.Value(), tt.children)
		})
	}
}

func TestRepetitionBacktracksIntoSequence(t *testing.T) {
	t.Parallel()

	// The repetition must give one "go" back so the trailing literal
	// can match.
	el := NewSequence(NewRepetition(NewLiteral("go"), 1, 0), NewLiteral("go"))
	node := decodeFirst(t, el, commandWords("go go go"))
	require.NotNil(t, node)
	require.Len(t, node.Children[0].Children, 2)
}

func TestDictation(t *testing.T) {
	t.Parallel()

	d := NewDictation()
	d.SetName("text")
	node := decodeFirst(t, d, dictatedWords("alpha beta gamma"))
	require.NotNil(t, node)
	c, ok := node.Value().(*dictation.Container)
	require.True(t, ok)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, c.Words())
}

func TestDictationStopsAtCommandWords(t *testing.T) {
	t.Parallel()

	words := append(dictatedWords("alpha beta"), commandWords("stop")...)
	el := NewSequence(NewDictation(), NewLiteral("stop"))
	node := decodeFirst(t, el, words)
	require.NotNil(t, node)
	require.Equal(t, []string{"alpha", "beta"}, node.Children[0].Words())

	// Without any dictated words there is nothing for it to consume.
	require.Nil(t, decodeFirst(t, NewSequence(NewLiteral("note"), NewDictation()),
		commandWords("note hello")))
}

func TestDictationWordGuesses(t *testing.T) {
	t.Parallel()

	el := NewSequence(NewLiteral("note"), NewDictation())
	words := commandWords("note hello world")
	require.Nil(t, decodeState(t, el, words, false))

	node := decodeState(t, el, words, true)
	require.NotNil(t, node)
	require.Equal(t, []string{"hello", "world"}, node.Children[1].Words())
}

func TestDictationYieldsShorterRuns(t *testing.T) {
	t.Parallel()

	// Greedy dictation first swallows "world stop", then backs down
	// so the literal can match the trailing command word.
	words := append(dictatedWords("hello world"), dictatedWords("stop")...)
	el := NewSequence(NewDictation(), NewLiteral("stop"))
	node := decodeFirst(t, el, words)
	require.NotNil(t, node)
	require.Equal(t, []string{"hello", "world"}, node.Children[0].Words())
}

func TestListRef(t *testing.T) {
	t.Parallel()

	fruits := NewList("fruits", "apple", "solar system")
	el := NewSequence(NewLiteral("eat"), NewListRef(fruits))

	node := decodeFirst(t, el, commandWords("eat apple"))
	require.NotNil(t, node)
	require.Equal(t, "apple", node.Children[1].Value())

	node = decodeFirst(t, el, commandWords("eat solar system"))
	require.NotNil(t, node)
	require.Equal(t, "solar system", node.Children[1].Value())

	require.Nil(t, decodeFirst(t, el, commandWords("eat rocks")))
}

func TestListRefPrefersShorterJoins(t *testing.T) {
	t.Parallel()

	l := NewList("things", "solar", "solar system")
	el := NewSequence(NewListRef(l), NewLiteral("system"))
	node := decodeFirst(t, el, commandWords("solar system"))
	require.NotNil(t, node)
	require.Equal(t, "solar", node.Children[0].Value())
}

func TestDictListRef(t *testing.T) {
	t.Parallel()

	colors := NewDictList("colors", map[string]any{"red": "#ff0000", "dark blue": "#00008b"})
	el := NewDictListRef(colors)

	node := decodeFirst(t, el, commandWords("red"))
	require.NotNil(t, node)
	require.Equal(t, "#ff0000", node.Value())

	node = decodeFirst(t, el, commandWords("dark blue"))
	require.NotNil(t, node)
	require.Equal(t, "#00008b", node.Value())
}

func TestRuleRefValuePassesThrough(t *testing.T) {
	t.Parallel()

	lit := NewLiteral("spam")
	lit.SetValue(42)
	r := NewRule("inner", lit)
	node := decodeFirst(t, NewRuleRef(r), commandWords("spam"))
	require.NotNil(t, node)
	require.Equal(t, 42, node.Value())
}

func TestRuleWrapScopesNames(t *testing.T) {
	t.Parallel()

	inner := NewLiteral("spam")
	inner.SetName("inner")
	wrap := NewRuleWrap("item", inner)
	root := decodeFirst(t, NewSequence(wrap), commandWords("spam"))
	require.NotNil(t, root)

	// The wrapping rule's named frame hides inner names from shallow
	// lookups but not from deep ones.
	require.NotNil(t, root.ChildByNameShallow("item"))
	require.Nil(t, root.ChildByNameShallow("inner"))
	require.NotNil(t, root.ChildByName("inner"))
	require.True(t, root.HasChildWithName("inner"))
}

func TestEmptyAndImpossible(t *testing.T) {
	t.Parallel()

	node := decodeFirst(t, NewEmpty(), nil)
	require.NotNil(t, node)
	require.Equal(t, true, node.Value())

	e := NewEmpty()
	e.SetValue("marker")
	node = decodeFirst(t, e, nil)
	require.NotNil(t, node)
	require.Equal(t, "marker", node.Value())

	require.Nil(t, decodeFirst(t, NewImpossible(), nil))
	require.Nil(t, decodeFirst(t, NewImpossible(), commandWords("x")))
}

func TestModifierTransformsValue(t *testing.T) {
	t.Parallel()

	lit := NewLiteral("alpha beta")
	lit.SetName("pair")
	m := NewModifier(lit, func(v any) any {
		return strings.Join(v.([]string), "-")
	})
	require.Equal(t, "pair", m.Name())

	node := decodeFirst(t, m, commandWords("alpha beta"))
	require.NotNil(t, node)
	require.Equal(t, "alpha-beta", node.Value())
}

type brokenElement struct {
	elem
	scapegoat *Literal
}

func (e *brokenElement) Decode(s *State) Decoder { return &brokenDecoder{el: e, s: s} }

func (e *brokenElement) Value(n *Node) any { return nil }

type brokenDecoder struct {
	el *brokenElement
	s  *State
}

// Next closes a frame it never opened.
func (d *brokenDecoder) Next() bool {
	d.s.DecodeAttempt(d.el)
	d.s.DecodeSuccess(d.el.scapegoat)
	return true
}

func TestBrokenElementPanicsWithStackError(t *testing.T) {
	t.Parallel()

	s, err := NewState(commandWords("x"), []string{"test"})
	require.NoError(t, err)
	dec := (&brokenElement{scapegoat: NewLiteral("other")}).Decode(s)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		dec.Next()
	}()
	se, ok := recovered.(*StackError)
	require.True(t, ok)
	require.Equal(t, "success", se.Op)
}

func TestNewStateRejectsUnknownRuleIDs(t *testing.T) {
	t.Parallel()

	_, err := NewState([]Word{{Text: "x", RuleID: 5}}, []string{"only"})
	require.ErrorIs(t, err, ErrUnknownRuleID)

	_, err = NewState([]Word{{Text: "x", RuleID: DictationRuleID}}, nil)
	require.NoError(t, err)
}
