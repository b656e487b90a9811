package dictation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lowercaseAbbreviations stay lowercase even at sentence starts, and a
// period directly after one does not end a sentence.
var lowercaseAbbreviations = map[string]bool{
	"cf":  true,
	"e.g": true,
	"etc": true,
	"i.e": true,
	"vs":  true,
}

// capitalizeSentences upcases the first letter of the text and of each
// new sentence or line, then fixes the casing of the pronoun i.
func capitalizeSentences(text string) string {
	runes := []rune(text)
	var out strings.Builder
	out.Grow(len(text))

	capitalizeNext := true
	for i, r := range runes {
		if capitalizeNext && unicode.IsLetter(r) {
			if !startsLowercaseAbbreviation(runes, i) {
				r = unicode.ToUpper(r)
			}
			capitalizeNext = false
		}
		out.WriteRune(r)
		switch r {
		case '!', '?', '\n':
			capitalizeNext = true
		case '.':
			if isBoundaryPeriod(runes, i) {
				capitalizeNext = true
			}
		}
	}
	return fixPronounI(out.String())
}

// isBoundaryPeriod reports whether the period at idx ends a sentence.
// Decimal points, periods embedded in tokens, known abbreviations, and
// initialisms like u.s. do not.
func isBoundaryPeriod(runes []rune, idx int) bool {
	if idx > 0 && idx+1 < len(runes) && unicode.IsDigit(runes[idx-1]) && unicode.IsDigit(runes[idx+1]) {
		return false
	}
	if idx+1 < len(runes) {
		next := runes[idx+1]
		if unicode.IsLetter(next) || unicode.IsDigit(next) || next == '.' {
			return false
		}
	}
	token := strings.ToLower(tokenBeforePeriod(runes, idx))
	if token == "" {
		return true
	}
	if lowercaseAbbreviations[token] {
		return false
	}
	if looksLikeInitialism(token) {
		return false
	}
	return true
}

func tokenBeforePeriod(runes []rune, idx int) string {
	start := idx - 1
	for start >= 0 {
		if r := runes[start]; unicode.IsLetter(r) || r == '.' {
			start--
			continue
		}
		break
	}
	return strings.Trim(string(runes[start+1:idx]), ".")
}

func startsLowercaseAbbreviation(runes []rune, idx int) bool {
	end := idx
	for end < len(runes) {
		if r := runes[end]; unicode.IsLetter(r) || r == '.' {
			end++
			continue
		}
		break
	}
	token := strings.ToLower(strings.Trim(string(runes[idx:end]), "."))
	return lowercaseAbbreviations[token]
}

func looksLikeInitialism(token string) bool {
	if !strings.ContainsRune(token, '.') {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		runes := []rune(part)
		if len(runes) != 1 || !unicode.IsLetter(runes[0]) {
			return false
		}
	}
	return true
}

var (
	pronounIContraction = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)
	pronounIWord        = regexp.MustCompile(`\bi\b`)
)

func fixPronounI(text string) string {
	text = pronounIContraction.ReplaceAllStringFunc(text, func(m string) string {
		return "I" + m[1:]
	})

	matches := pronounIWord.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		out.WriteString(text[last:start])
		if partOfDottedToken(text, start, end) {
			out.WriteString(text[start:end])
		} else {
			out.WriteString("I")
		}
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}

// partOfDottedToken reports whether the i at [start, end) sits inside a
// dotted token like i.e or u.s.i. and should keep its case.
func partOfDottedToken(text string, start, end int) bool {
	if end+1 < len(text) && text[end] == '.' {
		next, _ := utf8.DecodeRuneInString(text[end+1:])
		if unicode.IsLetter(next) {
			return true
		}
	}
	if start > 1 && text[start-1] == '.' && end < len(text) && text[end] == '.' {
		prev, _ := utf8.DecodeLastRuneInString(text[:start-1])
		if unicode.IsLetter(prev) {
			return true
		}
	}
	return false
}
