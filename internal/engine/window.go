package engine

import "context"

// Window describes the foreground window that grammar and rule contexts
// are matched against before each utterance.
type Window struct {
	Title      string
	Executable string
	Handle     string
}

// WindowProvider reports the current foreground window.
type WindowProvider interface {
	ForegroundWindow(ctx context.Context) (Window, error)
}

// noopWindowProvider keeps context matching working when no window
// source is wired; every context sees an empty window.
type noopWindowProvider struct{}

func (noopWindowProvider) ForegroundWindow(context.Context) (Window, error) {
	return Window{}, nil
}

// StaticWindowProvider always reports the same window. It is intended
// for the shell and for tests.
type StaticWindowProvider struct {
	Window Window
}

func (p StaticWindowProvider) ForegroundWindow(context.Context) (Window, error) {
	return p.Window, nil
}
