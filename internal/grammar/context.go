package grammar

import "strings"

// Context decides whether rules apply in front of the current
// foreground window.
type Context interface {
	Matches(executable, title, handle string) bool
}

// ContextFunc adapts a function to the Context interface.
type ContextFunc func(executable, title, handle string) bool

func (f ContextFunc) Matches(executable, title, handle string) bool {
	return f(executable, title, handle)
}

// AppContext matches the foreground window by case-insensitive
// substrings of its executable and title. Empty fields match anything.
type AppContext struct {
	executable string
	title      string
	exclude    bool
}

// NewAppContext returns a context matching windows whose executable
// and title contain the given substrings.
func NewAppContext(executable, title string) *AppContext {
	return &AppContext{
		executable: strings.ToLower(executable),
		title:      strings.ToLower(title),
	}
}

// SetExclude inverts the match, so the context applies everywhere
// except the described windows.
func (c *AppContext) SetExclude(exclude bool) { c.exclude = exclude }

func (c *AppContext) Matches(executable, title, handle string) bool {
	ok := strings.Contains(strings.ToLower(executable), c.executable) &&
		strings.Contains(strings.ToLower(title), c.title)
	if c.exclude {
		return !ok
	}
	return ok
}

// And returns a context matching only where every given context
// matches.
func And(contexts ...Context) Context {
	return andContext(contexts)
}

type andContext []Context

func (cs andContext) Matches(executable, title, handle string) bool {
	for _, c := range cs {
		if !c.Matches(executable, title, handle) {
			return false
		}
	}
	return true
}

// Or returns a context matching where any given context matches.
func Or(contexts ...Context) Context {
	return orContext(contexts)
}

type orContext []Context

func (cs orContext) Matches(executable, title, handle string) bool {
	for _, c := range cs {
		if c.Matches(executable, title, handle) {
			return true
		}
	}
	return false
}

// Not returns a context matching where the given context does not.
func Not(c Context) Context {
	return notContext{c}
}

type notContext struct{ c Context }

func (n notContext) Matches(executable, title, handle string) bool {
	return !n.c.Matches(executable, title, handle)
}
