package dictation

import "strings"

// spacing classifies how a written token joins its neighbors.
type spacing uint8

const (
	spacingWord        spacing = iota // space-separated word
	spacingAttachLeft                 // attaches to the preceding text: , . ! ?
	spacingAttachRight                // attaches to the following word: ( "
	spacingJoin                       // attaches on both sides: well-known
	spacingBreak                      // starts a new line
)

type written struct {
	text    string
	spacing spacing
}

// spokenForms maps spoken punctuation, by its one- or two-word form,
// to the written token it produces. Two-word forms win over one-word
// prefixes.
var spokenForms = map[string]written{
	"comma":             {",", spacingAttachLeft},
	"period":            {".", spacingAttachLeft},
	"full stop":         {".", spacingAttachLeft},
	"question mark":     {"?", spacingAttachLeft},
	"exclamation mark":  {"!", spacingAttachLeft},
	"exclamation point": {"!", spacingAttachLeft},
	"colon":             {":", spacingAttachLeft},
	"semicolon":         {";", spacingAttachLeft},
	"ellipsis":          {"...", spacingAttachLeft},
	"hyphen":            {"-", spacingJoin},
	"dash":              {"-", spacingWord},
	"at sign":           {"@", spacingJoin},
	"ampersand":         {"&", spacingWord},
	"open quote":        {"\"", spacingAttachRight},
	"close quote":       {"\"", spacingAttachLeft},
	"open paren":        {"(", spacingAttachRight},
	"close paren":       {")", spacingAttachLeft},
	"new line":          {"\n", spacingBreak},
	"newline":           {"\n", spacingBreak},
	"new paragraph":     {"\n\n", spacingBreak},
}

// Format renders dictated words as written text.
func Format(words []string) string {
	text := assemble(tokenize(words))
	return capitalizeSentences(text)
}

// tokenize maps spoken forms to written tokens, preferring two-word
// forms over their one-word prefixes.
func tokenize(words []string) []written {
	var tokens []written
	for i := 0; i < len(words); i++ {
		if i+1 < len(words) {
			two := strings.ToLower(words[i] + " " + words[i+1])
			if w, ok := spokenForms[two]; ok {
				tokens = append(tokens, w)
				i++
				continue
			}
		}
		if w, ok := spokenForms[strings.ToLower(words[i])]; ok {
			tokens = append(tokens, w)
			continue
		}
		tokens = append(tokens, written{words[i], spacingWord})
	}
	return tokens
}

func assemble(tokens []written) string {
	var out strings.Builder
	suppressSpace := true
	for _, tok := range tokens {
		switch tok.spacing {
		case spacingAttachLeft, spacingJoin, spacingBreak:
		default:
			if !suppressSpace {
				out.WriteString(" ")
			}
		}
		out.WriteString(tok.text)
		suppressSpace = tok.spacing == spacingAttachRight ||
			tok.spacing == spacingJoin ||
			tok.spacing == spacingBreak
	}
	return out.String()
}
