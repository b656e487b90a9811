package window

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/parola/internal/engine"
)

func TestForegroundWindowMapsHyprlandFields(t *testing.T) {
	installHyprctlStub(t, `
echo '{"address":"0x5602f","class":"code","initialClass":"Code","title":"main.go - parola"}'
`)

	win, err := NewProvider().ForegroundWindow(context.Background())
	require.NoError(t, err)
	require.Equal(t, engine.Window{
		Title:      "main.go - parola",
		Executable: "code",
		Handle:     "0x5602f",
	}, win)
}

func TestForegroundWindowFallsBackToInitialClass(t *testing.T) {
	installHyprctlStub(t, `
echo '{"address":"0x77","class":"","initialClass":"Slack","title":"Slack"}'
`)

	win, err := NewProvider().ForegroundWindow(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Slack", win.Executable)
}

func TestForegroundWindowPropagatesQueryError(t *testing.T) {
	installHyprctlStub(t, `
echo 'no compositor' >&2
exit 1
`)

	_, err := NewProvider().ForegroundWindow(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no compositor")
}

func installHyprctlStub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "hyprctl")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
