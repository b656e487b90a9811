package inject

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/parola/internal/config"
)

func TestRunCommandWithInputWritesStdin(t *testing.T) {
	scriptPath := writeStdinCaptureScript(t)
	outputPath := filepath.Join(t.TempDir(), "stdin.txt")

	err := runCommandWithInput(context.Background(), []string{scriptPath, outputPath}, "hello from parola")
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, "hello from parola", string(data))
}

func TestRunCommandWithInputRejectsEmptyArgv(t *testing.T) {
	err := runCommandWithInput(context.Background(), nil, "payload")
	require.Error(t, err)
	require.Contains(t, err.Error(), "argv cannot be empty")
}

func TestTypeStreamsTextToTypeCommand(t *testing.T) {
	scriptPath := writeStdinCaptureScript(t)
	typedPath := filepath.Join(t.TempDir(), "typed.txt")

	cfg := config.Default().Inject
	cfg.Paste = false
	cfg.TypeCmd = config.CommandConfig{Argv: []string{scriptPath, typedPath}}

	err := NewExec(cfg, nil).Type(context.Background(), "hello world")
	require.NoError(t, err)

	data, err := os.ReadFile(typedPath)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestTypeSkipsEmptyText(t *testing.T) {
	scriptPath := writeStdinCaptureScript(t)
	typedPath := filepath.Join(t.TempDir(), "typed.txt")

	cfg := config.Default().Inject
	cfg.Paste = false
	cfg.TypeCmd = config.CommandConfig{Argv: []string{scriptPath, typedPath}}

	err := NewExec(cfg, nil).Type(context.Background(), "")
	require.NoError(t, err)

	_, statErr := os.Stat(typedPath)
	require.Error(t, statErr)
	require.True(t, os.IsNotExist(statErr))
}

func TestTypeReturnsErrorWhenTypeCommandFails(t *testing.T) {
	failScript := writeFailScript(t, "wtype failed")

	cfg := config.Default().Inject
	cfg.Paste = false
	cfg.TypeCmd = config.CommandConfig{Argv: []string{failScript}}

	err := NewExec(cfg, nil).Type(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "type text")
}

func TestKeyBuildsWtypeArgvOrder(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "key-args.log")
	t.Setenv("KEY_ARGS_FILE", argsFile)
	scriptPath := writeArgsCaptureScript(t)

	cfg := config.Default().Inject
	cfg.KeyCmd = config.CommandConfig{Argv: []string{scriptPath}}

	err := NewExec(cfg, nil).Key(context.Background(), []string{"ctrl", "shift"}, "t")
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "-M ctrl -M shift -k t -m shift -m ctrl", strings.TrimSpace(string(data)))
}

func TestKeyWithoutModifiers(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "key-args.log")
	t.Setenv("KEY_ARGS_FILE", argsFile)
	scriptPath := writeArgsCaptureScript(t)

	cfg := config.Default().Inject
	cfg.KeyCmd = config.CommandConfig{Argv: []string{scriptPath}}

	err := NewExec(cfg, nil).Key(context.Background(), nil, "Return")
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "-k Return", strings.TrimSpace(string(data)))
}

func TestKeyRejectsEmptyKeyName(t *testing.T) {
	cfg := config.Default().Inject
	err := NewExec(cfg, nil).Key(context.Background(), []string{"ctrl"}, "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "key name cannot be empty")
}

func TestTypePasteModeStagesClipboardAndDispatchesShortcut(t *testing.T) {
	clipboardScript := writeStdinCaptureScript(t)
	clipboardPath := filepath.Join(t.TempDir(), "clipboard.txt")

	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	t.Setenv("HYPR_ACTIVEWINDOW_JSON", `{"address":"0xabc","class":"ghostty","initialClass":"ghostty"}`)
	installHyprctlPasteStub(t)

	cfg := config.Default().Inject
	cfg.Paste = true
	cfg.PasteKey = "CTRL,V"
	cfg.ClipboardCmd = config.CommandConfig{Argv: []string{clipboardScript, clipboardPath}}
	cfg.PasteCmd = config.CommandConfig{}

	err := NewExec(cfg, nil).Type(context.Background(), "pasted text")
	require.NoError(t, err)

	data, err := os.ReadFile(clipboardPath)
	require.NoError(t, err)
	require.Equal(t, "pasted text", string(data))

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Contains(t, string(args), "--quiet dispatch sendshortcut CTRL,V,address:0xabc")
}

func TestTypePasteModeClipboardFailureReturnsError(t *testing.T) {
	failScript := writeFailScript(t, "clipboard failed")

	cfg := config.Default().Inject
	cfg.Paste = true
	cfg.ClipboardCmd = config.CommandConfig{Argv: []string{failScript}}

	err := NewExec(cfg, nil).Type(context.Background(), "pasted text")
	require.Error(t, err)
	require.Contains(t, err.Error(), "set clipboard")
}

func TestTypePasteModePasteCmdFailureDoesNotFailType(t *testing.T) {
	clipboardScript := writeStdinCaptureScript(t)
	clipboardPath := filepath.Join(t.TempDir(), "clipboard.txt")
	pasteFailScript := writeFailScript(t, "paste failed")

	cfg := config.Default().Inject
	cfg.Paste = true
	cfg.ClipboardCmd = config.CommandConfig{Argv: []string{clipboardScript, clipboardPath}}
	cfg.PasteCmd = config.CommandConfig{Argv: []string{pasteFailScript}}

	err := NewExec(cfg, nil).Type(context.Background(), "pasted text")
	require.NoError(t, err)

	data, readErr := os.ReadFile(clipboardPath)
	require.NoError(t, readErr)
	require.Equal(t, "pasted text", string(data))
}

func TestTypePasteModeDispatchFailureDoesNotFailType(t *testing.T) {
	clipboardScript := writeStdinCaptureScript(t)
	clipboardPath := filepath.Join(t.TempDir(), "clipboard.txt")

	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	installHyprctlSendshortcutFailStub(t)

	cfg := config.Default().Inject
	cfg.Paste = true
	cfg.PasteKey = "CTRL,V"
	cfg.ClipboardCmd = config.CommandConfig{Argv: []string{clipboardScript, clipboardPath}}
	cfg.PasteCmd = config.CommandConfig{}

	err := NewExec(cfg, nil).Type(context.Background(), "pasted text")
	require.NoError(t, err)

	data, readErr := os.ReadFile(clipboardPath)
	require.NoError(t, readErr)
	require.Equal(t, "pasted text", string(data))
}

func writeStdinCaptureScript(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "capture-stdin.sh")
	script := `#!/usr/bin/env bash
set -euo pipefail
cat > "$1"
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeArgsCaptureScript(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "capture-args.sh")
	script := `#!/usr/bin/env bash
set -euo pipefail
printf '%s\n' "$*" >> "${KEY_ARGS_FILE}"
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeFailScript(t *testing.T, message string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "fail.sh")
	script := "#!/usr/bin/env bash\nset -euo pipefail\necho " + "\"" + message + "\"" + " >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func installHyprctlSendshortcutFailStub(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "hyprctl")
	script := `#!/usr/bin/env bash
set -euo pipefail
if [[ "${1:-}" == "-j" && "${2:-}" == "activewindow" ]]; then
  echo '{"address":"0xabc","class":"brave-browser","initialClass":"brave-browser"}'
  exit 0
fi
if [[ "${1:-}" == "--quiet" && "${2:-}" == "dispatch" && "${3:-}" == "sendshortcut" ]]; then
  echo "sendshortcut failed" >&2
  exit 1
fi
printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"
`
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(script)+"\n"), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
