package command

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rbright/parola/internal/action"
	"github.com/rbright/parola/internal/engine"
	"github.com/rbright/parola/internal/grammar"
)

// Config carries what compiled modules need at run time.
type Config struct {
	// Registry compiles action expressions. Nil uses the built-ins.
	Registry *action.Registry
	// Env is the execution environment dispatched actions run against.
	Env *action.Env
	// OnError is told about dispatched actions that fail. Optional.
	OnError func(rule string, err error)
	Logger  *slog.Logger
}

// Loader scans directories for *.yml and *.yaml modules and keeps the
// grammars it loaded so a reload can replace them.
type Loader struct {
	eng    *engine.Engine
	dirs   []string
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	loaded []*grammar.Grammar
}

// FileError pairs a module file with the reason it was skipped.
type FileError struct {
	Path string
	Err  error
}

// Report sums up one load pass.
type Report struct {
	Loaded []string
	Failed []FileError
}

// NewLoader returns a loader feeding eng from the module directories.
func NewLoader(eng *engine.Engine, dirs []string, cfg Config) *Loader {
	if cfg.Registry == nil {
		cfg.Registry = action.DefaultRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{eng: eng, dirs: dirs, cfg: cfg, logger: logger}
}

// Load compiles and loads every module under the loader's directories.
// A file that fails to parse, compile, or load is reported and
// skipped; the rest still load. ctx bounds the actions the loaded
// commands dispatch later. Missing directories are not an error.
func (l *Loader) Load(ctx context.Context) Report {
	var report Report
	for _, dir := range l.dirs {
		paths, err := modulePaths(dir)
		if err != nil {
			if os.IsNotExist(err) {
				l.logger.Debug("module directory missing", "dir", dir)
				continue
			}
			report.Failed = append(report.Failed, FileError{Path: dir, Err: err})
			continue
		}
		for _, path := range paths {
			g, name, err := l.loadFile(ctx, path)
			if err != nil {
				l.logger.Warn("command module skipped", "path", path, "error", err)
				report.Failed = append(report.Failed, FileError{Path: path, Err: err})
				continue
			}
			l.mu.Lock()
			l.loaded = append(l.loaded, g)
			l.mu.Unlock()
			report.Loaded = append(report.Loaded, name)
			l.logger.Info("command module loaded",
				"module", name, "commands", len(g.Rules()), "path", path)
		}
	}
	return report
}

// Unload removes every grammar this loader loaded.
func (l *Loader) Unload() {
	l.mu.Lock()
	loaded := l.loaded
	l.loaded = nil
	l.mu.Unlock()
	for _, g := range loaded {
		if err := g.Unload(); err != nil {
			l.logger.Warn("command module unload failed", "grammar", g.Name(), "error", err)
		}
	}
}

// Reload replaces every loaded module with a fresh scan.
func (l *Loader) Reload(ctx context.Context) Report {
	l.Unload()
	return l.Load(ctx)
}

func (l *Loader) loadFile(ctx context.Context, path string) (*grammar.Grammar, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	m, err := Parse(data, moduleName(path))
	if err != nil {
		return nil, "", err
	}
	g, err := Compile(m, l.cfg.Registry, l.dispatch(ctx))
	if err != nil {
		return nil, "", err
	}
	if err := g.Load(l.eng); err != nil {
		return nil, "", err
	}
	return g, m.Name, nil
}

// dispatch returns the handler compiled commands run through. The
// bound action executes against the loader's env under the load
// context, so cancelling it aborts in-flight actions.
func (l *Loader) dispatch(ctx context.Context) Handler {
	return func(rule string, a action.Action, extras map[string]any) {
		env := l.cfg.Env
		if env == nil {
			env = &action.Env{}
		}
		if err := a.Execute(ctx, env); err != nil {
			l.logger.Error("command action failed", "rule", rule, "error", err)
			if l.cfg.OnError != nil {
				l.cfg.OnError(rule, err)
			}
		}
	}
}

// Check parses and compiles every module under the directories without
// loading anything, returning the files that fail. The doctor runs
// this against the configured module directories.
func Check(dirs []string, reg *action.Registry) []FileError {
	if reg == nil {
		reg = action.DefaultRegistry()
	}
	var failed []FileError
	for _, dir := range dirs {
		paths, err := modulePaths(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				failed = append(failed, FileError{Path: dir, Err: err})
			}
			continue
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				failed = append(failed, FileError{Path: path, Err: err})
				continue
			}
			m, err := Parse(data, moduleName(path))
			if err != nil {
				failed = append(failed, FileError{Path: path, Err: err})
				continue
			}
			if _, err := Compile(m, reg, func(string, action.Action, map[string]any) {}); err != nil {
				failed = append(failed, FileError{Path: path, Err: err})
			}
		}
	}
	return failed
}

func modulePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yml", ".yaml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// moduleName derives a fallback module name from the file name.
func moduleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
