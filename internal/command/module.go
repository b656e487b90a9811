// Package command loads voice command modules from YAML files and
// compiles them into grammars. A module declares a name, an optional
// window context, named extras, list contents, and an ordered mapping
// of spoken specs to action expressions.
package command

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Module is one parsed command module, not yet compiled.
type Module struct {
	Name     string
	Context  *ContextSpec
	Extras   []ExtraSpec
	Lists    map[string][]string
	Commands []Command
}

// ContextSpec restricts a module's grammar to windows whose executable
// and title contain the given substrings. Exclude inverts the match.
type ContextSpec struct {
	Executable string `yaml:"executable"`
	Title      string `yaml:"title"`
	Exclude    bool   `yaml:"exclude"`
}

// ExtraSpec declares one named element command specs may reference.
// Type is one of integer, digits, choice, dictation, or list.
type ExtraSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Min and Max bound integer extras ([min, max)) and the length of
	// digit series.
	Min int `yaml:"min"`
	Max int `yaml:"max"`

	// Options maps spoken specs to values for choice extras, in
	// document order.
	Options yaml.Node `yaml:"options"`

	// List names the module list a list extra draws from. Defaults to
	// the extra's own name.
	List string `yaml:"list"`
}

// Command pairs one spoken spec with its action expression.
type Command struct {
	Spec   string
	Action string
	Line   int
}

type moduleFile struct {
	Name     string              `yaml:"name"`
	Context  *ContextSpec        `yaml:"context"`
	Extras   []ExtraSpec         `yaml:"extras"`
	Lists    map[string][]string `yaml:"lists"`
	Commands yaml.Node           `yaml:"commands"`
}

// Parse decodes and validates one module document. fallbackName fills
// in a missing name, usually derived from the file name.
func Parse(data []byte, fallbackName string) (*Module, error) {
	var f moduleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse module: %w", err)
	}

	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = strings.TrimSpace(fallbackName)
	}
	if name == "" {
		return nil, errors.New("module has no name")
	}

	commands, err := commandEntries(&f.Commands)
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, errors.New("module declares no commands")
	}

	m := &Module{
		Name:     name,
		Context:  f.Context,
		Extras:   f.Extras,
		Lists:    f.Lists,
		Commands: commands,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Module) validate() error {
	seen := make(map[string]bool, len(m.Extras))
	for _, ex := range m.Extras {
		if ex.Name == "" {
			return errors.New("extra with no name")
		}
		if seen[ex.Name] {
			return fmt.Errorf("duplicate extra %q", ex.Name)
		}
		seen[ex.Name] = true

		switch ex.Type {
		case "integer":
			if ex.Max <= ex.Min {
				return fmt.Errorf("extra %q: integer range [%d, %d) is empty", ex.Name, ex.Min, ex.Max)
			}
		case "digits":
			if ex.Max < ex.Min || ex.Min < 0 {
				return fmt.Errorf("extra %q: bad digit series length %d..%d", ex.Name, ex.Min, ex.Max)
			}
		case "choice":
			if ex.Options.IsZero() {
				return fmt.Errorf("extra %q: choice needs options", ex.Name)
			}
		case "list":
			name := ex.List
			if name == "" {
				name = ex.Name
			}
			if _, ok := m.Lists[name]; !ok {
				return fmt.Errorf("extra %q: unknown list %q", ex.Name, name)
			}
		case "dictation":
		default:
			return fmt.Errorf("extra %q: unknown type %q", ex.Name, ex.Type)
		}
	}
	return nil
}

// commandEntries flattens the commands mapping into ordered entries.
// yaml.Node keeps the document order a map[string]string would lose.
func commandEntries(node *yaml.Node) ([]Command, error) {
	if node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("commands must be a mapping of spoken spec to action")
	}
	entries := make([]Command, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: action for %q must be a string", value.Line, key.Value)
		}
		entries = append(entries, Command{Spec: key.Value, Action: value.Value, Line: key.Line})
	}
	return entries, nil
}
