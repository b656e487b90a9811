package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rbright/parola/internal/action"
	"github.com/rbright/parola/internal/command"
	"github.com/rbright/parola/internal/config"
	"github.com/rbright/parola/internal/engine"
	"github.com/rbright/parola/internal/history"
	"github.com/rbright/parola/internal/indicator"
	"github.com/rbright/parola/internal/inject"
	"github.com/rbright/parola/internal/window"
)

// runtime is one fully wired recognition stack: the engine with its
// window provider, the exec injector behind actions, loaded command
// modules, and the optional history store and indicator.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger

	engine   *engine.Engine
	env      *action.Env
	loader   *command.Loader
	store    *history.Store
	notifier *indicator.Notifier
}

// buildRuntime assembles the runtime from a loaded config. The caller
// owns the result and must Close it.
func buildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	eng := engine.New(engine.Config{
		Logger:          logger,
		Window:          window.NewProvider(),
		SequenceTimeout: time.Duration(cfg.Recognition.SequenceTimeoutMS) * time.Millisecond,
		WakePhrase:      cfg.Recognition.WakePhrase,
		SleepPhrase:     cfg.Recognition.SleepPhrase,
		StartAsleep:     cfg.Recognition.StartAsleep,
		StrictDictation: cfg.Recognition.StrictDictation,
	})

	rt := &runtime{cfg: cfg, logger: logger, engine: eng}
	rt.env = &action.Env{
		Injector: inject.NewExec(cfg.Inject, logger),
		Mimic: func(ctx context.Context, words []string) error {
			return eng.Mimic(ctx, words...)
		},
	}

	if cfg.History.Enable {
		path, err := config.HistoryPath(cfg)
		if err != nil {
			eng.Close()
			return nil, err
		}
		store, err := history.Open(path)
		if err != nil {
			eng.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		rt.store = store
		eng.RegisterObserver(history.NewRecorder(store, cfg.History.Limit, logger))
	}

	if cfg.Indicator.Enable {
		rt.notifier = indicator.NewNotifier(cfg.Indicator, logger)
		eng.RegisterObserver(indicator.NewObserver(rt.notifier, eng))
		if eng.Paused() {
			rt.notifier.ShowAsleep(ctx)
		} else {
			rt.notifier.ShowListening(ctx)
		}
	}

	if cfg.Modules.Enable {
		dirs, err := config.ModuleDirs(cfg)
		if err != nil {
			rt.Close(ctx)
			return nil, err
		}
		rt.loader = command.NewLoader(eng, dirs, command.Config{
			Env:    rt.env,
			Logger: logger,
			OnError: func(rule string, err error) {
				logger.Error("action failed", "rule", rule, "error", err.Error())
			},
		})
		report := rt.loader.Load(ctx)
		logger.Info("modules loaded", "loaded", len(report.Loaded), "failed", len(report.Failed))
		for _, f := range report.Failed {
			logger.Warn("module skipped", "path", f.Path, "error", f.Err.Error())
		}
	}

	return rt, nil
}

func (rt *runtime) Close(ctx context.Context) {
	if rt.loader != nil {
		rt.loader.Unload()
	}
	_ = rt.engine.Close()
	if rt.notifier != nil {
		rt.notifier.Hide(ctx)
	}
	if rt.store != nil {
		_ = rt.store.Close()
	}
}

// status reports the engine state for the status surfaces.
func (rt *runtime) status() string {
	if rt.engine.Paused() {
		return "asleep"
	}
	if rt.engine.PendingSequences() > 0 {
		return "waiting"
	}
	return "listening"
}

// loadReport renders a loader report for user-facing output.
func loadReport(r command.Report) string {
	parts := []string{fmt.Sprintf("%d modules loaded", len(r.Loaded))}
	if len(r.Failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", len(r.Failed)))
	}
	return strings.Join(parts, ", ")
}
