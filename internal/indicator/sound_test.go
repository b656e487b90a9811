package indicator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/parola/internal/config"
)

func TestCueSamplesPresent(t *testing.T) {
	require.NotEmpty(t, cueSamples(cueWake))
	require.NotEmpty(t, cueSamples(cueSleep))
	require.NotEmpty(t, cueSamples(cueRecognize))
	require.NotEmpty(t, cueSamples(cueFailure))
}

func TestSynthesizeToneDuration(t *testing.T) {
	got := synthesizeTone(toneSpec{frequencyHz: 440, duration: 100 * time.Millisecond, volume: 0.2})
	want := samplesForDuration(100 * time.Millisecond)
	require.Len(t, got, want)
}

func TestSynthesizeToneInvalidSpecReturnsEmpty(t *testing.T) {
	require.Empty(t, synthesizeTone(toneSpec{frequencyHz: 0, duration: 100 * time.Millisecond, volume: 0.2}))
	require.Empty(t, synthesizeTone(toneSpec{frequencyHz: 440, duration: 0, volume: 0.2}))
	require.Empty(t, synthesizeTone(toneSpec{frequencyHz: 440, duration: 100 * time.Millisecond, volume: 0}))
}

func TestSamplesForDuration(t *testing.T) {
	require.Equal(t, 0, samplesForDuration(0))
	require.Greater(t, samplesForDuration(25*time.Millisecond), 0)
}

func TestCuePathSelectsConfiguredFile(t *testing.T) {
	cfg := config.Default().Indicator
	cfg.SoundWakeFile = "/tmp/wake.wav"
	cfg.SoundFailureFile = "~/cues/fail.wav"

	require.Equal(t, "/tmp/wake.wav", cuePath(cueWake, cfg))
	require.Empty(t, cuePath(cueSleep, cfg))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "cues", "fail.wav"), cuePath(cueFailure, cfg))
}
