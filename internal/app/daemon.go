package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rbright/parola/internal/ipc"
)

const defaultHistoryLimit = 20

// Daemon runs the recognition daemon: it acquires the control socket,
// builds the engine stack, and serves IPC requests until stopped by
// signal or a stop command.
func Daemon(ctx context.Context, opts Options) error {
	s, err := start(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := socketPath(s.cfg.Config)
	if err != nil {
		return err
	}

	listener, err := ipc.Acquire(ctx, path, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			return fmt.Errorf("%w at %s", ipc.ErrAlreadyRunning, path)
		}
		return err
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(path)
	}()

	rt, err := buildRuntime(ctx, s.cfg.Config, s.logger)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	fmt.Fprintf(opts.stdout(), "parola listening on %s\n", path)
	s.logger.Info("daemon started", "socket", path)

	err = ipc.Serve(serveCtx, listener, newHandler(rt, stop))
	s.logger.Info("daemon stopped")
	return err
}

// newHandler maps control-socket requests onto the runtime. stop shuts
// the serve loop down for the stop command.
func newHandler(rt *runtime, stop context.CancelFunc) ipc.HandlerFunc {
	return func(ctx context.Context, req ipc.Request) ipc.Response {
		switch req.Command {
		case ipc.CommandStatus:
			return ipc.Response{OK: true, State: rt.status()}

		case ipc.CommandPause:
			rt.engine.PauseRecognition()
			if rt.notifier != nil {
				rt.notifier.ShowAsleep(ctx)
			}
			return ipc.Response{OK: true, State: rt.status(), Message: "recognition paused"}

		case ipc.CommandResume:
			rt.engine.ResumeRecognition()
			if rt.notifier != nil {
				rt.notifier.ShowListening(ctx)
			}
			return ipc.Response{OK: true, State: rt.status(), Message: "recognition resumed"}

		case ipc.CommandMimic:
			if len(req.Args) == 0 {
				return ipc.Response{OK: false, Error: "mimic needs words"}
			}
			if err := rt.engine.Mimic(ctx, req.Args...); err != nil {
				return ipc.Response{OK: false, State: rt.status(), Error: err.Error()}
			}
			return ipc.Response{OK: true, State: rt.status(), Message: "recognized"}

		case ipc.CommandGrammars:
			infos := rt.engine.Grammars()
			statuses := make([]ipc.GrammarStatus, 0, len(infos))
			for _, info := range infos {
				statuses = append(statuses, ipc.GrammarStatus{
					Name:    info.Name,
					Enabled: info.Enabled,
					Rules:   info.Rules,
				})
			}
			return ipc.Response{OK: true, Grammars: statuses}

		case ipc.CommandHistory:
			if rt.store == nil {
				return ipc.Response{OK: false, Error: "history is disabled"}
			}
			limit := defaultHistoryLimit
			if len(req.Args) > 0 {
				n, err := strconv.Atoi(req.Args[0])
				if err != nil || n <= 0 {
					return ipc.Response{OK: false, Error: fmt.Sprintf("bad history limit %q", req.Args[0])}
				}
				limit = n
			}
			records, err := rt.store.Recent(limit)
			if err != nil {
				return ipc.Response{OK: false, Error: err.Error()}
			}
			entries := make([]ipc.HistoryEntry, 0, len(records))
			for _, rec := range records {
				entries = append(entries, ipc.HistoryEntry{
					Words:      rec.Words,
					Grammar:    rec.Grammar,
					Rule:       rec.Rule,
					Status:     rec.Status,
					TimedOut:   rec.TimedOut,
					DurationMS: rec.DurationMS,
					At:         rec.CreatedAt.Format(time.RFC3339),
				})
			}
			return ipc.Response{OK: true, History: entries}

		case ipc.CommandReload:
			if rt.loader == nil {
				return ipc.Response{OK: false, Error: "command modules are disabled"}
			}
			report := rt.loader.Reload(ctx)
			return ipc.Response{OK: true, Message: loadReport(report)}

		case ipc.CommandStop:
			stop()
			return ipc.Response{OK: true, Message: "stopping"}

		default:
			return ipc.Response{OK: false, Error: fmt.Sprintf("unknown command %q", req.Command)}
		}
	}
}
