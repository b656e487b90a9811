package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbright/parola/internal/config"
	"github.com/rbright/parola/internal/doctor"
)

// ErrChecksFailed reports a doctor run with failing checks.
var ErrChecksFailed = errors.New("doctor checks failed")

// Doctor runs readiness diagnostics and prints the report.
func Doctor(ctx context.Context, opts Options) error {
	loaded, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Socket != "" {
		loaded.Config.Socket = opts.Socket
	}

	report := doctor.Run(ctx, loaded)
	fmt.Fprintln(opts.stdout(), report.String())
	if !report.OK() {
		return ErrChecksFailed
	}
	return nil
}
