package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rbright/parola/internal/engine"
)

// Shell runs an interactive recognition shell: each line is processed
// as one utterance against the in-process engine, so grammars can be
// exercised without a recognizer or a daemon. Colon directives inspect
// and control the engine.
func Shell(ctx context.Context, opts Options) error {
	s, err := start(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	rt, err := buildRuntime(ctx, s.cfg.Config, s.logger)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	histFile, err := statePath("shell_history")
	if err != nil {
		s.logger.Warn("shell history unavailable", "error", err.Error())
		histFile = ""
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "parola> ",
		HistoryFile:     histFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          opts.stdout(),
		Stderr:          opts.stderr(),
	})
	if err != nil {
		return fmt.Errorf("open shell: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(opts.stdout(), "parola shell: type an utterance, :help for directives")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := runDirective(ctx, rt, line, opts.stdout()); quit {
				return nil
			}
			continue
		}

		switch outcome := rt.engine.Process(ctx, line); outcome {
		case engine.OutcomeDispatched:
			fmt.Fprintln(opts.stdout(), "-> dispatched")
		case engine.OutcomeKeyphrase:
			fmt.Fprintln(opts.stdout(), "-> keyphrase")
		case engine.OutcomeWaiting:
			fmt.Fprintln(opts.stdout(), "-> waiting for more speech")
		case engine.OutcomeIgnored:
			fmt.Fprintln(opts.stdout(), "-> ignored")
		default:
			fmt.Fprintln(opts.stdout(), "-> no match")
		}
	}
}

// runDirective handles one colon-prefixed shell directive. It reports
// whether the shell should exit.
func runDirective(ctx context.Context, rt *runtime, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit", ":q":
		return true

	case ":status":
		fmt.Fprintln(out, rt.status())

	case ":grammars":
		infos := rt.engine.Grammars()
		if len(infos) == 0 {
			fmt.Fprintln(out, "no grammars loaded")
			break
		}
		for _, info := range infos {
			state := "enabled"
			if !info.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "%s (%s): %s\n", info.Name, state, strings.Join(info.Rules, ", "))
		}

	case ":reload":
		if rt.loader == nil {
			fmt.Fprintln(out, "command modules are disabled")
			break
		}
		fmt.Fprintln(out, loadReport(rt.loader.Reload(ctx)))

	case ":pause":
		rt.engine.PauseRecognition()
		fmt.Fprintln(out, rt.status())

	case ":resume":
		rt.engine.ResumeRecognition()
		fmt.Fprintln(out, rt.status())

	case ":help":
		fmt.Fprintln(out, "directives: :status :grammars :reload :pause :resume :quit")

	default:
		fmt.Fprintf(out, "unknown directive %s (try :help)\n", fields[0])
	}
	return false
}
