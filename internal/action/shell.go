package action

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Shell runs an external command and waits for it to finish. Arguments
// may carry %(name)s references filled from the recognition extras.
type Shell struct {
	argv []string
}

// NewShell returns an action running argv.
func NewShell(argv ...string) *Shell {
	return &Shell{argv: argv}
}

func (a *Shell) Execute(ctx context.Context, env *Env) error {
	argv := make([]string, len(a.argv))
	for i, arg := range a.argv {
		expanded, err := expandExtras(arg, env.Extras)
		if err != nil {
			return err
		}
		argv[i] = expanded
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("action: %s failed: %w", argv[0], err)
		}
		return fmt.Errorf("action: %s failed: %w (%s)", argv[0], err, trimmed)
	}
	return nil
}
