// Package number builds grammar elements that recognize spoken
// integers. Builders cover half-open value ranges and compose: mapping
// builders tie word specs to values, collection builders union a set
// of builders behind a connective spec, and magnitude builders split a
// range into multiplier and remainder parts around a factor, as in
// "<multiplier> hundred <remainder>".
package number

import (
	"github.com/rbright/parola/internal/grammar"
)

// Builder constructs elements recognizing spoken integers within a
// value range. The upper bound is exclusive throughout the package.
type Builder interface {
	build(min, max int, memo Memo) grammar.Element
}

// Memo caches built elements per builder and range, so sub-builders
// shared between branches are constructed once per top-level build.
type Memo map[memoKey]grammar.Element

type memoKey struct {
	builder  Builder
	min, max int
}

// BuildElement returns an element recognizing b's integers within
// [min, max), or nil when the builder covers nothing in that range.
func BuildElement(b Builder, min, max int, memo Memo) grammar.Element {
	if memo == nil {
		memo = Memo{}
	}
	key := memoKey{builder: b, min: min, max: max}
	if el, ok := memo[key]; ok {
		return el
	}
	el := b.build(min, max, memo)
	memo[key] = el
	return el
}

// MapEntry ties one spoken spec to the integer it means.
type MapEntry struct {
	Spec  string
	Value int
}

// MapBuilder recognizes integers from a fixed spec-to-value table.
type MapBuilder struct {
	entries []MapEntry
}

// NewMapBuilder returns a builder over the given entries, tried in
// order.
func NewMapBuilder(entries ...MapEntry) *MapBuilder {
	return &MapBuilder{entries: entries}
}

func (b *MapBuilder) build(min, max int, memo Memo) grammar.Element {
	compiled := make(map[string]grammar.Element)
	var children []grammar.Element
	for _, entry := range b.entries {
		if entry.Value < min || entry.Value >= max {
			continue
		}
		el, ok := compiled[entry.Spec]
		if !ok {
			c := mustCompound(entry.Spec, grammar.Bindings{})
			c.SetValue(entry.Value)
			el = c
			compiled[entry.Spec] = el
		}
		children = append(children, el)
	}
	return combine(children)
}

// CollectionBuilder recognizes the union of a builder set spoken
// through a connective spec, such as "[and] <element>". The value is
// the inner element's value.
type CollectionBuilder struct {
	spec string
	set  []Builder
}

// NewCollectionBuilder returns a builder wrapping set in spec. The
// spec must contain an <element> reference.
func NewCollectionBuilder(spec string, set ...Builder) *CollectionBuilder {
	return &CollectionBuilder{spec: spec, set: set}
}

func (b *CollectionBuilder) build(min, max int, memo Memo) grammar.Element {
	child := buildRangeSet(b.set, min, max, memo)
	if child == nil {
		return nil
	}
	c := mustCompound(b.spec, grammar.NewBindings(named(child, "element")))
	c.SetValueFunc(func(n *grammar.Node, extras map[string]any) any {
		return extras["element"]
	})
	return c
}

// MagnitudeBuilder recognizes integers spoken as a multiplier of some
// factor plus a remainder, such as "two hundred [and] five". The spec
// must contain <multiplier> and <remainder> references; the value is
// multiplier times factor plus remainder, with the multiplier
// defaulting to one ("hundred" means 100) and the remainder to zero.
type MagnitudeBuilder struct {
	factor      int
	spec        string
	multipliers []Builder
	remainders  []Builder
}

// NewMagnitudeBuilder returns a builder around factor. multipliers
// build the multiplier range and remainders the remainder range.
func NewMagnitudeBuilder(factor int, spec string, multipliers, remainders []Builder) *MagnitudeBuilder {
	return &MagnitudeBuilder{
		factor:      factor,
		spec:        spec,
		multipliers: multipliers,
		remainders:  remainders,
	}
}

func (b *MagnitudeBuilder) build(min, max int, memo Memo) grammar.Element {
	if min >= max {
		return nil
	}

	firstMultiplier := min / b.factor
	lastMultiplier := (max-1)/b.factor + 1
	firstRemainder := min % b.factor
	lastRemainder := max % b.factor
	if lastRemainder == 0 {
		lastRemainder = b.factor
	}

	// A single multiplier value covers the whole range.
	if firstMultiplier == lastMultiplier-1 {
		return b.buildRange(firstMultiplier, lastMultiplier,
			firstRemainder, lastRemainder, memo)
	}

	var children []grammar.Element

	// Partial range for the first multiplier value.
	if firstRemainder > 0 {
		c := b.buildRange(firstMultiplier, firstMultiplier+1,
			firstRemainder, b.factor, memo)
		if c != nil {
			children = append(children, c)
		}
		firstMultiplier++
	}

	// Partial range for the last multiplier value.
	if lastRemainder > 0 {
		c := b.buildRange(lastMultiplier-1, lastMultiplier,
			0, lastRemainder, memo)
		if c != nil {
			children = append(children, c)
		}
		lastMultiplier--
	}

	// Multiplier values with the full range of remainders.
	if firstMultiplier < lastMultiplier {
		c := b.buildRange(firstMultiplier, lastMultiplier,
			0, b.factor, memo)
		if c != nil {
			children = append(children, c)
		}
	}

	return combine(children)
}

func (b *MagnitudeBuilder) buildRange(firstMultiplier, lastMultiplier, firstRemainder, lastRemainder int, memo Memo) grammar.Element {
	multipliers := buildRangeSet(b.multipliers, firstMultiplier, lastMultiplier, memo)
	if multipliers == nil {
		return nil
	}

	// An empty remainder range still needs something for the spec's
	// <remainder> reference to compile against; an impossible element
	// makes an optional reference elide cleanly.
	remainders := buildRangeSet(b.remainders, firstRemainder, lastRemainder, memo)
	if remainders == nil {
		remainders = grammar.NewImpossible()
	}

	c := mustCompound(b.spec, grammar.NewBindings(
		named(multipliers, "multiplier"),
		named(remainders, "remainder"),
	))
	factor := b.factor
	c.SetValueFunc(func(n *grammar.Node, extras map[string]any) any {
		multiplier, remainder := 1, 0
		if v, ok := extras["multiplier"].(int); ok {
			multiplier = v
		}
		if v, ok := extras["remainder"].(int); ok {
			remainder = v
		}
		return multiplier*factor + remainder
	})
	return c
}

// buildRangeSet unions the elements a builder set produces for a
// range, or nil when none of them cover it.
func buildRangeSet(set []Builder, min, max int, memo Memo) grammar.Element {
	var children []grammar.Element
	for _, b := range set {
		if c := BuildElement(b, min, max, memo); c != nil {
			children = append(children, c)
		}
	}
	return combine(children)
}

func combine(children []grammar.Element) grammar.Element {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return grammar.NewAlternative(children...)
	}
}

// named wraps el under a lookup name, leaving the shared element
// itself untouched so memoized instances stay reusable.
func named(el grammar.Element, name string) grammar.Element {
	alt := grammar.NewAlternative(el)
	alt.SetName(name)
	return alt
}

// mustCompound compiles a spec fixed at construction time, so a
// compile failure is a programming error.
func mustCompound(spec string, b grammar.Bindings) *grammar.Compound {
	c, err := grammar.NewCompound(spec, b)
	if err != nil {
		panic(err)
	}
	return c
}
