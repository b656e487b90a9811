// Package app wires the recognition engine, command modules, control
// socket, and indicator into the runnable parola commands.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rbright/parola/internal/config"
	"github.com/rbright/parola/internal/ipc"
	"github.com/rbright/parola/internal/logging"
)

// Options carries the CLI-level settings shared by every command.
type Options struct {
	ConfigPath string
	Socket     string
	LogLevel   string

	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// session is the bootstrapped state every runner starts from: loaded
// config with overrides applied and an open runtime logger.
type session struct {
	cfg    config.Loaded
	logrt  logging.Runtime
	logger *slog.Logger
}

func (s *session) Close() {
	_ = s.logrt.Close()
}

// start loads the config, applies CLI overrides, reports warnings, and
// opens the runtime logger.
func start(opts Options) (*session, error) {
	loaded, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	for _, w := range loaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(opts.stderr(), "warning: %s\n", msg)
	}

	if strings.TrimSpace(opts.Socket) != "" {
		loaded.Config.Socket = opts.Socket
	}
	if strings.TrimSpace(opts.LogLevel) != "" {
		loaded.Config.LogLevel = opts.LogLevel
	}

	logrt, err := logging.New(loaded.Config.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	logger := logrt.Logger
	logger.Info("config loaded", "path", loaded.Path, "warnings", len(loaded.Warnings))

	return &session{cfg: loaded, logrt: logrt, logger: logger}, nil
}

// socketPath resolves the control socket for a loaded config.
func socketPath(cfg config.Config) (string, error) {
	if strings.TrimSpace(cfg.Socket) != "" {
		return cfg.Socket, nil
	}
	return ipc.RuntimeSocketPath()
}

// statePath resolves a file under the parola XDG state directory.
func statePath(name string) (string, error) {
	dir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "parola")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}
