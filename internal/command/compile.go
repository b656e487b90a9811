package command

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rbright/parola/internal/action"
	"github.com/rbright/parola/internal/grammar"
	"github.com/rbright/parola/internal/number"
)

// Handler runs a compiled action when its command dispatches. The
// action already carries the extras captured from the recognition.
type Handler func(rule string, a action.Action, extras map[string]any)

// Compile builds the module's grammar: one mapping rule over the
// command entries in document order, with the extras bound and the
// module context attached.
func Compile(m *Module, reg *action.Registry, handler Handler) (*grammar.Grammar, error) {
	g := grammar.NewGrammar(m.Name)
	if m.Context != nil {
		ctx := grammar.NewAppContext(m.Context.Executable, m.Context.Title)
		ctx.SetExclude(m.Context.Exclude)
		g.SetContext(ctx)
	}

	lists := make(map[string]*grammar.List, len(m.Lists))
	for name, items := range m.Lists {
		l := grammar.NewList(name, items...)
		if err := g.AddList(l); err != nil {
			return nil, err
		}
		lists[name] = l
	}

	b, err := m.bindings(lists)
	if err != nil {
		return nil, err
	}

	entries := make([]grammar.MappingEntry, 0, len(m.Commands))
	for _, cmd := range m.Commands {
		a, err := reg.Compile(cmd.Action)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
		}
		entries = append(entries, grammar.MappingEntry{Spec: cmd.Spec, Value: action.NewBound(a)})
	}

	rule, err := grammar.NewMappingRule(m.Name, entries, b,
		func(n *grammar.Node, value any, extras map[string]any) {
			bound, ok := value.(action.Action)
			if !ok {
				return
			}
			handler(m.Name, bound, extras)
		})
	if err != nil {
		return nil, err
	}
	if err := g.AddRule(rule); err != nil {
		return nil, err
	}
	return g, nil
}

func (m *Module) bindings(lists map[string]*grammar.List) (grammar.Bindings, error) {
	extras := make([]grammar.Element, 0, len(m.Extras))
	for _, ex := range m.Extras {
		el, err := compileExtra(ex, lists)
		if err != nil {
			return grammar.Bindings{}, err
		}
		extras = append(extras, el)
	}
	return grammar.NewBindings(extras...), nil
}

func compileExtra(ex ExtraSpec, lists map[string]*grammar.List) (grammar.Element, error) {
	switch ex.Type {
	case "integer":
		return number.NewIntegerRef(ex.Name, ex.Min, ex.Max), nil
	case "digits":
		min, max := ex.Min, ex.Max
		if min == 0 && max == 0 {
			min, max = 1, 9
		}
		return number.NewDigitsRef(ex.Name, min, max, true), nil
	case "choice":
		options, err := choiceOptions(&ex.Options)
		if err != nil {
			return nil, fmt.Errorf("extra %q: %w", ex.Name, err)
		}
		return grammar.NewChoice(ex.Name, options, grammar.Bindings{})
	case "dictation":
		d := grammar.NewDictation()
		d.SetName(ex.Name)
		return d, nil
	case "list":
		name := ex.List
		if name == "" {
			name = ex.Name
		}
		ref := grammar.NewListRef(lists[name])
		ref.SetName(ex.Name)
		return ref, nil
	}
	return nil, fmt.Errorf("extra %q: unknown type %q", ex.Name, ex.Type)
}

// choiceOptions flattens a choice's options mapping, keeping document
// order. Scalar values decode to their YAML type, so numeric options
// come through as ints.
func choiceOptions(node *yaml.Node) ([]grammar.ChoiceOption, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("choice options must be a mapping of spec to value")
	}
	out := make([]grammar.ChoiceOption, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, fmt.Errorf("option %q: %w", key.Value, err)
		}
		out = append(out, grammar.ChoiceOption{Spec: key.Value, Value: v})
	}
	return out, nil
}
