package action

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var extraRef = regexp.MustCompile(`%\((\w+)\)[ds]`)

// expandExtras substitutes %(name)s and %(name)d references with the
// bound extra values. A reference to an unbound extra is an error.
func expandExtras(s string, extras map[string]any) (string, error) {
	var missing []string
	out := extraRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := extraRef.FindStringSubmatch(ref)[1]
		v, ok := extras[name]
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return fmt.Sprint(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("action: unbound extras %v in %q", missing, s)
	}
	return out, nil
}

// Text types literal text into the focused application. References of
// the form %(name)s are filled from the recognition extras.
type Text struct {
	content string
}

// NewText returns an action typing content.
func NewText(content string) *Text {
	return &Text{content: content}
}

func (a *Text) Execute(ctx context.Context, env *Env) error {
	out, err := expandExtras(a.content, env.Extras)
	if err != nil {
		return err
	}
	inj, err := env.injector()
	if err != nil {
		return err
	}
	return inj.Type(ctx, out)
}

// Pause waits for a duration given in hundredths of a second.
type Pause struct {
	duration time.Duration
}

// NewPause returns an action waiting hundredths of a second.
func NewPause(hundredths int) *Pause {
	return &Pause{duration: time.Duration(hundredths) * 10 * time.Millisecond}
}

func (a *Pause) Execute(ctx context.Context, env *Env) error {
	timer := time.NewTimer(a.duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Mimic feeds words back through the recognizer as if they had been
// spoken. Words may carry %(name)s references.
type Mimic struct {
	words []string
}

// NewMimic returns an action mimicking words.
func NewMimic(words ...string) *Mimic {
	return &Mimic{words: words}
}

func (a *Mimic) Execute(ctx context.Context, env *Env) error {
	if env.Mimic == nil {
		return errors.New("action: no mimic hook configured")
	}
	words := make([]string, len(a.words))
	for i, w := range a.words {
		expanded, err := expandExtras(w, env.Extras)
		if err != nil {
			return err
		}
		words[i] = expanded
	}
	return env.Mimic(ctx, words)
}
