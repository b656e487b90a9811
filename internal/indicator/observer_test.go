package indicator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/parola/internal/config"
	"github.com/rbright/parola/internal/engine"
)

type fakePauseState struct {
	paused bool
}

func (f *fakePauseState) Paused() bool { return f.paused }

func TestObserverAnnouncesSleepTransitions(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	installHyprctlStub(t, `
printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"
`)

	cfg := config.Default().Indicator
	cfg.SoundEnable = false

	state := &fakePauseState{paused: false}
	obs := NewObserver(NewNotifier(cfg, nil), state)

	// Ordinary recognition while awake: no notification, cue only.
	obs.OnRecognition(engine.Recognition{Words: []string{"press", "enter"}, Rule: "press"})
	_, statErr := os.Stat(argsFile)
	require.True(t, os.IsNotExist(statErr))

	// Sleep keyphrase flips the engine to paused.
	state.paused = true
	obs.OnRecognition(engine.Recognition{Words: []string{"go", "to", "sleep"}})

	// Wake keyphrase flips it back.
	state.paused = false
	obs.OnRecognition(engine.Recognition{Words: []string{"wake", "up"}})

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "Asleep")
	require.Contains(t, lines[1], "Listening…")
}

func TestObserverFlashesFailures(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	installHyprctlStub(t, `
printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"
`)

	cfg := config.Default().Indicator
	cfg.SoundEnable = false

	obs := NewObserver(NewNotifier(cfg, nil), &fakePauseState{})
	obs.OnFailure([]string{"press", "escape"})
	obs.OnRuleFailure("boomer", errors.New("kaboom"))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "Voice command error")
	require.Contains(t, lines[1], `Command "boomer" failed`)
}
