// Package inject delivers recognized text and key chords to the focused
// application through external Wayland input tools.
package inject

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/parola/internal/config"
)

// Exec injects input by running the configured external commands.
type Exec struct {
	config config.InjectConfig
	logger *slog.Logger
}

// NewExec constructs an injector from runtime config.
func NewExec(cfg config.InjectConfig, logger *slog.Logger) *Exec {
	return &Exec{config: cfg, logger: logger}
}

// Type writes literal text into the focused window. In paste mode the
// text is staged on the clipboard and the paste chord is dispatched at
// the active window; otherwise the text streams to the type command on
// stdin.
func (e *Exec) Type(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if e.config.Paste {
		return e.pasteText(ctx, text)
	}

	typeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := runCommandWithInput(typeCtx, e.config.TypeCmd.Argv, text); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

// Key presses a single key with the given modifiers held. The argv is
// built in wtype order: press each modifier, tap the key, then release
// the modifiers in reverse.
func (e *Exec) Key(ctx context.Context, modifiers []string, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key name cannot be empty")
	}

	argv := append([]string(nil), e.config.KeyCmd.Argv...)
	for _, mod := range modifiers {
		argv = append(argv, "-M", mod)
	}
	argv = append(argv, "-k", key)
	for i := len(modifiers) - 1; i >= 0; i-- {
		argv = append(argv, "-m", modifiers[i])
	}

	keyCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := runCommandWithInput(keyCtx, argv, ""); err != nil {
		return fmt.Errorf("press key %s: %w", key, err)
	}
	return nil
}

// pasteText stages text on the clipboard and dispatches the paste
// shortcut. Dispatch failures are logged rather than returned so the
// staged clipboard text survives for a manual paste.
func (e *Exec) pasteText(ctx context.Context, text string) error {
	clipboardCtx, clipboardCancel := context.WithTimeout(ctx, 2*time.Second)
	defer clipboardCancel()
	if err := runCommandWithInput(clipboardCtx, e.config.ClipboardCmd.Argv, text); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}

	if len(e.config.PasteCmd.Argv) > 0 {
		pasteCtx, pasteCancel := context.WithTimeout(ctx, 2*time.Second)
		defer pasteCancel()
		if err := runCommandWithInput(pasteCtx, e.config.PasteCmd.Argv, ""); err != nil {
			e.logPasteFailure(err)
		}
		return nil
	}

	pasteCtx, pasteCancel := context.WithTimeout(ctx, 1200*time.Millisecond)
	defer pasteCancel()
	if err := dispatchPaste(pasteCtx, e.config.PasteKey); err != nil {
		e.logPasteFailure(err)
	}
	return nil
}

// runCommandWithInput executes argv and optionally writes input to stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}

// logPasteFailure records paste errors while preserving clipboard success semantics.
func (e *Exec) logPasteFailure(err error) {
	if e.logger == nil || err == nil {
		return
	}
	e.logger.Error("paste dispatch failed; clipboard remains set", "error", err.Error())
}
