package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch level {
	case "debug", "info", "warn", "error":
	case "":
		return nil, fmt.Errorf("log_level must not be empty")
	default:
		return nil, fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}

	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		return nil, fmt.Errorf("language must not be empty")
	}
	if !strings.EqualFold(language, "en") {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("no built-in number vocabulary for language %q; integer extras will not match", language),
		})
	}

	if cfg.History.Limit <= 0 {
		return nil, fmt.Errorf("history.limit must be > 0")
	}
	if cfg.Recognition.SequenceTimeoutMS < 0 {
		return nil, fmt.Errorf("recognition.sequence_timeout_ms must be >= 0")
	}
	if cfg.Recognition.StartAsleep && strings.TrimSpace(cfg.Recognition.WakePhrase) == "" {
		return nil, fmt.Errorf("recognition.wake_phrase must not be empty when recognition.start_asleep=true")
	}
	if strings.TrimSpace(cfg.Recognition.SleepPhrase) != "" &&
		strings.EqualFold(strings.TrimSpace(cfg.Recognition.SleepPhrase), strings.TrimSpace(cfg.Recognition.WakePhrase)) {
		return nil, fmt.Errorf("recognition.wake_phrase and recognition.sleep_phrase must differ")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Indicator.Backend))
	if backend != "hypr" && backend != "desktop" {
		return nil, fmt.Errorf("indicator.backend must be one of: hypr, desktop")
	}
	if cfg.Indicator.Enable && strings.TrimSpace(cfg.Indicator.AppName) == "" {
		return nil, fmt.Errorf("indicator.app_name must not be empty when indicator.enable=true")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}

	if len(cfg.Inject.KeyCmd.Argv) == 0 {
		return nil, fmt.Errorf("inject.key_cmd must not be empty")
	}
	if cfg.Inject.Paste {
		if len(cfg.Inject.ClipboardCmd.Argv) == 0 {
			return nil, fmt.Errorf("inject.clipboard_cmd must not be empty when inject.paste=true")
		}
		if len(cfg.Inject.PasteCmd.Argv) == 0 && strings.TrimSpace(cfg.Inject.PasteKey) == "" {
			return nil, fmt.Errorf("inject.paste_key must not be empty when inject.paste=true without inject.paste_cmd")
		}
	} else if len(cfg.Inject.TypeCmd.Argv) == 0 {
		return nil, fmt.Errorf("inject.type_cmd must not be empty")
	}

	return warnings, nil
}
