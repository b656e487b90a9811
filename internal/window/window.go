// Package window resolves the foreground window for grammar context matching.
package window

import (
	"context"

	"github.com/rbright/parola/internal/engine"
	"github.com/rbright/parola/internal/hypr"
)

// Provider adapts hyprctl active-window queries to the engine contract.
type Provider struct{}

// NewProvider constructs the Hyprland-backed window provider.
func NewProvider() *Provider {
	return &Provider{}
}

// ForegroundWindow reports the focused window. The window class stands in
// for the executable name; initialClass covers clients that rewrite their
// class after mapping.
func (p *Provider) ForegroundWindow(ctx context.Context) (engine.Window, error) {
	active, err := hypr.QueryActiveWindow(ctx)
	if err != nil {
		return engine.Window{}, err
	}

	executable := active.Class
	if executable == "" {
		executable = active.InitialClass
	}
	return engine.Window{
		Title:      active.Title,
		Executable: executable,
		Handle:     active.Address,
	}, nil
}
