package action

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Script runs a Lua chunk with the recognition extras bound as global
// variables. Extras with names starting with an underscore are
// recognizer bookkeeping and stay unbound.
type Script struct {
	source string
}

// NewScript returns an action running source.
func NewScript(source string) *Script {
	return &Script{source: source}
}

func (a *Script) Execute(ctx context.Context, env *Env) error {
	state := lua.NewState()
	defer state.Close()
	state.SetContext(ctx)
	for name, v := range env.Extras {
		if strings.HasPrefix(name, "_") {
			continue
		}
		state.SetGlobal(name, luaValue(state, v))
	}
	if err := state.DoString(a.source); err != nil {
		return fmt.Errorf("action: script failed: %w", err)
	}
	return nil
}

func luaValue(state *lua.LState, v any) lua.LValue {
	switch t := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(t)
	case int:
		return lua.LNumber(t)
	case float64:
		return lua.LNumber(t)
	case string:
		return lua.LString(t)
	case []string:
		table := state.NewTable()
		for _, item := range t {
			table.Append(lua.LString(item))
		}
		return table
	case []any:
		table := state.NewTable()
		for _, item := range t {
			table.Append(luaValue(state, item))
		}
		return table
	}
	return lua.LString(fmt.Sprint(v))
}
