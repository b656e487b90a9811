package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/rbright/parola/internal/ipc"
)

const sendTimeout = 2 * time.Second

// ErrNoDaemon reports that no daemon answered on the control socket.
var ErrNoDaemon = errors.New("no parola daemon running")

// Send forwards one control command to the daemon and prints the
// response.
func Send(ctx context.Context, opts Options, command string, args []string) error {
	s, err := start(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := socketPath(s.cfg.Config)
	if err != nil {
		return err
	}

	client := ipc.Client{Path: path, Timeout: sendTimeout}
	resp, err := client.Do(ctx, command, args...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
			return ErrNoDaemon
		}
		return fmt.Errorf("send %q: %w", command, err)
	}
	if !resp.OK {
		return errors.New(resp.Error)
	}

	out := opts.stdout()
	switch command {
	case ipc.CommandStatus:
		fmt.Fprintln(out, resp.State)

	case ipc.CommandGrammars:
		if len(resp.Grammars) == 0 {
			fmt.Fprintln(out, "no grammars loaded")
			break
		}
		for _, g := range resp.Grammars {
			state := "enabled"
			if !g.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(out, "%s (%s): %s\n", g.Name, state, strings.Join(g.Rules, ", "))
		}

	case ipc.CommandHistory:
		printHistoryEntries(out, resp.History)

	default:
		if resp.Message != "" {
			fmt.Fprintln(out, resp.Message)
		}
	}
	return nil
}

func printHistoryEntries(out io.Writer, entries []ipc.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "no history")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-10s  %q", e.At, e.Status, e.Words)
		if e.Rule != "" {
			line += fmt.Sprintf("  [%s/%s]", e.Grammar, e.Rule)
		}
		if e.TimedOut {
			line += "  (timed out)"
		}
		fmt.Fprintln(out, line)
	}
}
