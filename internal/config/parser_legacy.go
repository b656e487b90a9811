package config

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLegacy reads the old line-oriented `key = value` format with
// dotted section keys. Values may be bare or quoted.
func parseLegacy(content string, base Config) (Config, []Warning, error) {
	cfg := base
	warnings := make([]Warning, 0)

	for i, line := range strings.Split(content, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, rawValue, ok := strings.Cut(trimmed, "=")
		if !ok {
			return Config{}, nil, fmt.Errorf("line %d: expected key = value, got %q", lineNo, trimmed)
		}
		key = strings.TrimSpace(key)
		value, err := unquoteLegacyValue(rawValue, lineNo)
		if err != nil {
			return Config{}, nil, err
		}

		if err := applyLegacyKey(&cfg, key, value, lineNo); err != nil {
			return Config{}, nil, err
		}
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, append(warnings, validatedWarnings...), nil
}

func unquoteLegacyValue(raw string, line int) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		if len(raw) < 2 || !strings.HasSuffix(raw, `"`) {
			return "", fmt.Errorf("line %d: missing closing double quote", line)
		}
		return raw[1 : len(raw)-1], nil
	}
	if strings.HasPrefix(raw, "'") {
		if len(raw) < 2 || !strings.HasSuffix(raw, "'") {
			return "", fmt.Errorf("line %d: missing closing single quote", line)
		}
		return raw[1 : len(raw)-1], nil
	}
	return raw, nil
}

func applyLegacyKey(cfg *Config, key, value string, line int) error {
	switch key {
	case "socket":
		cfg.Socket = value
	case "log_level":
		cfg.LogLevel = value
	case "language":
		cfg.Language = value

	case "modules.enable":
		return setLegacyBool(&cfg.Modules.Enable, key, value, line)
	case "modules.dirs":
		cfg.Modules.Dirs = splitCommaList(value)

	case "history.enable":
		return setLegacyBool(&cfg.History.Enable, key, value, line)
	case "history.path":
		cfg.History.Path = value
	case "history.limit":
		return setLegacyInt(&cfg.History.Limit, key, value, line)

	case "recognition.sequence_timeout_ms":
		return setLegacyInt(&cfg.Recognition.SequenceTimeoutMS, key, value, line)
	case "recognition.strict_dictation":
		return setLegacyBool(&cfg.Recognition.StrictDictation, key, value, line)
	case "recognition.wake_phrase":
		cfg.Recognition.WakePhrase = value
	case "recognition.sleep_phrase":
		cfg.Recognition.SleepPhrase = value
	case "recognition.start_asleep":
		return setLegacyBool(&cfg.Recognition.StartAsleep, key, value, line)

	case "indicator.enable":
		return setLegacyBool(&cfg.Indicator.Enable, key, value, line)
	case "indicator.backend":
		cfg.Indicator.Backend = value
	case "indicator.app_name":
		cfg.Indicator.AppName = value
	case "indicator.error_timeout_ms":
		return setLegacyInt(&cfg.Indicator.ErrorTimeoutMS, key, value, line)
	case "indicator.sound_enable":
		return setLegacyBool(&cfg.Indicator.SoundEnable, key, value, line)
	case "indicator.sound_wake_file":
		cfg.Indicator.SoundWakeFile = value
	case "indicator.sound_sleep_file":
		cfg.Indicator.SoundSleepFile = value
	case "indicator.sound_recognize_file":
		cfg.Indicator.SoundRecognizeFile = value
	case "indicator.sound_failure_file":
		cfg.Indicator.SoundFailureFile = value

	case "inject.type_cmd":
		return setLegacyCommand(&cfg.Inject.TypeCmd, key, value, line)
	case "inject.key_cmd":
		return setLegacyCommand(&cfg.Inject.KeyCmd, key, value, line)
	case "inject.clipboard_cmd":
		return setLegacyCommand(&cfg.Inject.ClipboardCmd, key, value, line)
	case "inject.paste":
		return setLegacyBool(&cfg.Inject.Paste, key, value, line)
	case "inject.paste_key":
		cfg.Inject.PasteKey = value
	case "inject.paste_cmd":
		return setLegacyCommand(&cfg.Inject.PasteCmd, key, value, line)

	default:
		return fmt.Errorf("line %d: unknown key %q", line, key)
	}
	return nil
}

func setLegacyBool(dst *bool, key, value string, line int) error {
	parsed, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return fmt.Errorf("line %d: invalid boolean %q for %s", line, value, key)
	}
	*dst = parsed
	return nil
}

func setLegacyInt(dst *int, key, value string, line int) error {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("line %d: invalid integer %q for %s", line, value, key)
	}
	*dst = parsed
	return nil
}

func setLegacyCommand(dst *CommandConfig, key, value string, line int) error {
	argv, err := parseArgv(value)
	if err != nil {
		return fmt.Errorf("line %d: invalid %s: %w", line, key, err)
	}
	*dst = CommandConfig{Raw: value, Argv: argv}
	return nil
}

func splitCommaList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
