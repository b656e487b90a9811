package action

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Key presses keyboard chords. The spec is a comma separated list of
// chords, each [modifiers-]key[:count]. Modifiers are c (control),
// s (shift), a (alt), and w (super); key names with no symbol of their
// own are spelled out, such as minus and comma.
type Key struct {
	chords []chord
}

type chord struct {
	modifiers []string
	key       string
	count     int
}

var modifierNames = map[string]string{
	"c": "ctrl",
	"s": "shift",
	"a": "alt",
	"w": "super",
}

// NewKey returns an action pressing the chords in spec.
func NewKey(spec string) (*Key, error) {
	parts := strings.Split(spec, ",")
	chords := make([]chord, 0, len(parts))
	for _, part := range parts {
		ch, err := parseChord(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("action: key spec %q: %w", spec, err)
		}
		chords = append(chords, ch)
	}
	return &Key{chords: chords}, nil
}

func parseChord(part string) (chord, error) {
	ch := chord{count: 1}
	if head, repeat, ok := strings.Cut(part, ":"); ok {
		n, err := strconv.Atoi(repeat)
		if err != nil || n < 0 {
			return chord{}, fmt.Errorf("bad repeat count %q", repeat)
		}
		part = head
		ch.count = n
	}
	tokens := strings.Split(part, "-")
	ch.key = tokens[len(tokens)-1]
	if ch.key == "" {
		return chord{}, fmt.Errorf("chord %q has no key", part)
	}
	for _, token := range tokens[:len(tokens)-1] {
		name, ok := modifierNames[token]
		if !ok {
			return chord{}, fmt.Errorf("unknown modifier %q", token)
		}
		ch.modifiers = append(ch.modifiers, name)
	}
	return ch, nil
}

func (a *Key) Execute(ctx context.Context, env *Env) error {
	inj, err := env.injector()
	if err != nil {
		return err
	}
	for _, ch := range a.chords {
		for i := 0; i < ch.count; i++ {
			if err := inj.Key(ctx, ch.modifiers, ch.key); err != nil {
				return err
			}
		}
	}
	return nil
}
