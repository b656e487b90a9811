// Package action compiles action expressions into executable command
// side effects. An expression is a series of calls such as
// `Key("c-c") Text("done") * 3`; each call is dispatched through a
// Registry to a constructor, and the resulting actions run against an
// Env carrying the input injector and the extras captured from the
// recognition.
package action

import (
	"context"
	"errors"
	"fmt"
)

// Action is one executable piece of a voice command.
type Action interface {
	Execute(ctx context.Context, env *Env) error
}

// Injector delivers synthesized input to the focused application.
type Injector interface {
	// Type writes literal text.
	Type(ctx context.Context, text string) error
	// Key presses a single key with the given modifiers held.
	Key(ctx context.Context, modifiers []string, key string) error
}

// Env carries the facilities actions draw on at execution time.
type Env struct {
	// Injector performs text and keystroke injection. Actions that
	// need it fail when it is absent.
	Injector Injector
	// Extras holds the values captured from the recognition, keyed by
	// element name.
	Extras map[string]any
	// Mimic feeds words back through the recognizer.
	Mimic func(ctx context.Context, words []string) error
}

func (e *Env) injector() (Injector, error) {
	if e.Injector == nil {
		return nil, errors.New("action: no injector configured")
	}
	return e.Injector, nil
}

// Bound pairs an action with the extras captured at recognition time.
// Mapping rules recognize the Bind method and replace the stored value
// with the bound copy before dispatch.
type Bound struct {
	Action Action
	Extras map[string]any
}

// NewBound wraps a for use as a mapping value.
func NewBound(a Action) *Bound {
	return &Bound{Action: a}
}

// Bind returns a copy of the action carrying extras.
func (b *Bound) Bind(extras map[string]any) any {
	return &Bound{Action: b.Action, Extras: extras}
}

// Execute runs the wrapped action, overlaying the captured extras on
// the environment.
func (b *Bound) Execute(ctx context.Context, env *Env) error {
	if b.Extras != nil {
		bound := *env
		bound.Extras = b.Extras
		env = &bound
	}
	return b.Action.Execute(ctx, env)
}

// Series executes actions in order, stopping at the first failure.
type Series struct {
	actions []Action
}

// NewSeries returns a series over actions.
func NewSeries(actions ...Action) *Series {
	return &Series{actions: actions}
}

func (a *Series) Execute(ctx context.Context, env *Env) error {
	for _, child := range a.actions {
		if err := child.Execute(ctx, env); err != nil {
			return err
		}
	}
	return nil
}

// Repeat executes its child a fixed number of times, or a count drawn
// from a named extra at execution time.
type Repeat struct {
	action Action
	count  int
	extra  string
}

// NewRepeat returns an action running a count times.
func NewRepeat(a Action, count int) *Repeat {
	return &Repeat{action: a, count: count}
}

// NewRepeatExtra returns an action running a as many times as the
// integer extra named key holds when it executes.
func NewRepeatExtra(a Action, key string) *Repeat {
	return &Repeat{action: a, extra: key}
}

func (a *Repeat) Execute(ctx context.Context, env *Env) error {
	count := a.count
	if a.extra != "" {
		v, ok := env.Extras[a.extra]
		if !ok {
			return fmt.Errorf("action: repeat count extra %q is not bound", a.extra)
		}
		count, ok = v.(int)
		if !ok {
			return fmt.Errorf("action: repeat count extra %q holds %T, not an integer", a.extra, v)
		}
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.action.Execute(ctx, env); err != nil {
			return err
		}
	}
	return nil
}
