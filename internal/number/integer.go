package number

import "github.com/rbright/parola/internal/grammar"

// NewInteger returns an element recognizing spoken integers in
// [min, max) from the given content. The value of a match is the
// recognized int.
func NewInteger(name string, min, max int, content Content) *grammar.Alternative {
	var children []grammar.Element
	for _, b := range content {
		if c := BuildElement(b, min, max, nil); c != nil {
			children = append(children, c)
		}
	}
	alt := grammar.NewAlternative(children...)
	alt.SetName(name)
	return alt
}

// NewIntegerRef wraps an English integer element in its own rule, so
// several rules can share the compiled element under one name.
func NewIntegerRef(name string, min, max int) *grammar.RuleRef {
	return grammar.NewRuleWrap(name, NewInteger("", min, max, EnglishIntegers))
}

// NewShortIntegerRef is NewIntegerRef with the relaxed pronunciations
// of EnglishShortIntegers.
func NewShortIntegerRef(name string, min, max int) *grammar.RuleRef {
	return grammar.NewRuleWrap(name, NewInteger("", min, max, EnglishShortIntegers))
}

// NewDigits returns an element recognizing a series of spoken digits
// between min and max long, inclusive. With asInt the series reads as
// one integer ("one two seven" is 127); otherwise the value is the
// digit slice.
func NewDigits(name string, min, max int, asInt bool) *grammar.Modifier {
	var forms []grammar.Element
	for value, words := range EnglishDigits {
		for _, word := range words {
			c := mustCompound(word, grammar.Bindings{})
			c.SetValue(value)
			forms = append(forms, c)
		}
	}
	rep := grammar.NewRepetition(grammar.NewAlternative(forms...), min, max)
	rep.SetName(name)

	base := len(EnglishDigits)
	return grammar.NewModifier(rep, func(v any) any {
		values, ok := v.([]any)
		if !ok {
			return v
		}
		if asInt {
			total := 0
			for _, d := range values {
				digit, ok := d.(int)
				if !ok {
					return nil
				}
				total = total*base + digit
			}
			return total
		}
		digits := make([]int, 0, len(values))
		for _, d := range values {
			digit, ok := d.(int)
			if !ok {
				return nil
			}
			digits = append(digits, digit)
		}
		return digits
	})
}

// NewDigitsRef wraps a digit series in its own rule.
func NewDigitsRef(name string, min, max int, asInt bool) *grammar.RuleRef {
	return grammar.NewRuleWrap(name, NewDigits("", min, max, asInt))
}
