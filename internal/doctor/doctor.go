// Package doctor runs runtime readiness diagnostics for config, modules, and tools.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/parola/internal/command"
	"github.com/rbright/parola/internal/config"
	"github.com/rbright/parola/internal/ipc"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	configMsg := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMsg = fmt.Sprintf("no file at %q, using defaults", cfg.Path)
	}
	if len(cfg.Warnings) > 0 {
		configMsg += fmt.Sprintf(" (%d warnings)", len(cfg.Warnings))
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: configMsg})

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "runtime dir available for the control socket", "XDG_RUNTIME_DIR is not set"))

	checks = append(checks, checkSocket(ctx, cfg.Config))
	checks = append(checks, checkModules(cfg.Config))

	checks = append(checks, checkCommand(cfg.Config.Inject.TypeCmd.Argv, "type_cmd"))
	checks = append(checks, checkCommand(cfg.Config.Inject.KeyCmd.Argv, "key_cmd"))
	if cfg.Config.Inject.Paste {
		checks = append(checks, checkCommand(cfg.Config.Inject.ClipboardCmd.Argv, "clipboard_cmd"))
		if len(cfg.Config.Inject.PasteCmd.Argv) > 0 {
			checks = append(checks, checkCommand(cfg.Config.Inject.PasteCmd.Argv, "paste_cmd"))
		} else {
			checks = append(checks, checkBinary("hyprctl", "default paste path requires hyprctl"))
		}
	}

	if cfg.Config.Indicator.Enable {
		switch cfg.Config.Indicator.Backend {
		case "desktop":
			checks = append(checks, checkBinary("busctl", "desktop notification backend"))
		default:
			checks = append(checks, checkBinary("hyprctl", "hypr notification backend"))
		}
	}

	return Report{Checks: checks}
}

// checkSocket probes the control socket. An absent socket and a live
// daemon are both healthy; an unresponsive probe is reported as-is.
// A stale socket passes because daemon startup reclaims it.
func checkSocket(ctx context.Context, cfg config.Config) Check {
	path := strings.TrimSpace(cfg.Socket)
	if path == "" {
		resolved, err := ipc.RuntimeSocketPath()
		if err != nil {
			return Check{Name: "socket", Pass: false, Message: err.Error()}
		}
		path = resolved
	}

	if _, err := os.Stat(path); err != nil {
		return Check{Name: "socket", Pass: true, Message: fmt.Sprintf("no daemon at %s", path)}
	}

	alive, err := ipc.Probe(ctx, path, 220*time.Millisecond)
	if err != nil {
		return Check{Name: "socket", Pass: false, Message: fmt.Sprintf("probe %s: %v", path, err)}
	}
	if alive {
		return Check{Name: "socket", Pass: true, Message: fmt.Sprintf("daemon responding at %s", path)}
	}
	return Check{Name: "socket", Pass: true, Message: fmt.Sprintf("stale socket at %s", path)}
}

// checkModules compiles every discoverable command module without loading it.
func checkModules(cfg config.Config) Check {
	if !cfg.Modules.Enable {
		return Check{Name: "modules", Pass: true, Message: "command modules disabled"}
	}
	dirs, err := config.ModuleDirs(cfg)
	if err != nil {
		return Check{Name: "modules", Pass: false, Message: err.Error()}
	}

	failures := command.Check(dirs, nil)
	if len(failures) == 0 {
		return Check{Name: "modules", Pass: true, Message: fmt.Sprintf("modules compile cleanly in %s", strings.Join(dirs, ", "))}
	}

	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	return Check{Name: "modules", Pass: false, Message: strings.Join(parts, "; ")}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}
