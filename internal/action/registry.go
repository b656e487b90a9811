package action

import (
	"errors"
	"fmt"
	"strconv"
)

// Constructor builds an action from a parsed call.
type Constructor func(call Call) (Action, error)

// UnknownActionError reports an expression calling a name the registry
// does not know.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("action: unknown action %q", e.Name)
}

// Registry maps call names to action constructors.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// DefaultRegistry returns a registry holding the built-in actions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("Text", newTextAction)
	r.Register("Key", newKeyAction)
	r.Register("Pause", newPauseAction)
	r.Register("Mimic", newMimicAction)
	r.Register("Shell", newShellAction)
	r.Register("Script", newScriptAction)
	return r
}

// Register makes ctor available under name, replacing any previous
// registration.
func (r *Registry) Register(name string, ctor Constructor) {
	r.ctors[name] = ctor
}

// Compile parses source and builds the action it describes. An unknown
// call name fails with an UnknownActionError carrying that name.
func (r *Registry) Compile(source string) (Action, error) {
	expr, err := ParseExpr(source)
	if err != nil {
		return nil, err
	}
	return r.Build(expr)
}

// Build constructs the action for a parsed expression.
func (r *Registry) Build(expr Expr) (Action, error) {
	if expr.Call != nil {
		ctor, ok := r.ctors[expr.Call.Function]
		if !ok {
			return nil, &UnknownActionError{Name: expr.Call.Function}
		}
		a, err := ctor(*expr.Call)
		if err != nil {
			return nil, fmt.Errorf("action: %s: %w", expr.Call.Function, err)
		}
		return a, nil
	}
	actions := make([]Action, 0, len(expr.Items))
	for _, item := range expr.Items {
		a, err := r.Build(item)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	var a Action
	if len(actions) == 1 {
		a = actions[0]
	} else {
		a = NewSeries(actions...)
	}
	if expr.Extra != "" {
		return NewRepeatExtra(a, expr.Extra), nil
	}
	if expr.Count != 1 {
		return NewRepeat(a, expr.Count), nil
	}
	return a, nil
}

func newTextAction(call Call) (Action, error) {
	content, err := oneString(call)
	if err != nil {
		return nil, err
	}
	return NewText(content), nil
}

func newKeyAction(call Call) (Action, error) {
	spec, err := oneString(call)
	if err != nil {
		return nil, err
	}
	return NewKey(spec)
}

func newPauseAction(call Call) (Action, error) {
	hundredths, err := oneInt(call)
	if err != nil {
		return nil, err
	}
	if hundredths < 0 {
		return nil, fmt.Errorf("negative duration %d", hundredths)
	}
	return NewPause(hundredths), nil
}

func newMimicAction(call Call) (Action, error) {
	words, err := allStrings(call)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errors.New("wants at least one word")
	}
	return NewMimic(words...), nil
}

func newShellAction(call Call) (Action, error) {
	argv, err := allStrings(call)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, errors.New("wants a command to run")
	}
	return NewShell(argv...), nil
}

func newScriptAction(call Call) (Action, error) {
	source, err := oneString(call)
	if err != nil {
		return nil, err
	}
	return NewScript(source), nil
}

// stringArg converts quoted strings and bare identifiers; everything
// else is not a string.
func stringArg(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case Ident:
		return string(t), true
	}
	return "", false
}

func oneString(call Call) (string, error) {
	if len(call.Args) != 1 || call.Args[0].Name != "" {
		return "", errors.New("wants exactly one positional argument")
	}
	s, ok := stringArg(call.Args[0].Value)
	if !ok {
		return "", fmt.Errorf("argument %v is not a string", call.Args[0].Value)
	}
	return s, nil
}

func oneInt(call Call) (int, error) {
	if len(call.Args) != 1 || call.Args[0].Name != "" {
		return 0, errors.New("wants exactly one positional argument")
	}
	switch t := call.Args[0].Value.(type) {
	case int:
		return t, nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("argument %q is not an integer", t)
		}
		return n, nil
	}
	return 0, fmt.Errorf("argument %v is not an integer", call.Args[0].Value)
}

func allStrings(call Call) ([]string, error) {
	out := make([]string, 0, len(call.Args))
	for _, arg := range call.Args {
		if arg.Name != "" {
			return nil, fmt.Errorf("unexpected keyword argument %q", arg.Name)
		}
		s, ok := stringArg(arg.Value)
		if !ok {
			return nil, fmt.Errorf("argument %v is not a string", arg.Value)
		}
		out = append(out, s)
	}
	return out, nil
}
