package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Socket      *string           `json:"socket"`
	LogLevel    *string           `json:"log_level"`
	Language    *string           `json:"language"`
	Modules     *jsoncModules     `json:"modules"`
	History     *jsoncHistory     `json:"history"`
	Recognition *jsoncRecognition `json:"recognition"`
	Indicator   *jsoncIndicator   `json:"indicator"`
	Inject      *jsoncInject      `json:"inject"`
}

type jsoncModules struct {
	Enable *bool            `json:"enable"`
	Dirs   *jsoncStringList `json:"dirs"`
}

type jsoncHistory struct {
	Enable *bool   `json:"enable"`
	Path   *string `json:"path"`
	Limit  *int    `json:"limit"`
}

type jsoncRecognition struct {
	SequenceTimeoutMS *int    `json:"sequence_timeout_ms"`
	StrictDictation   *bool   `json:"strict_dictation"`
	WakePhrase        *string `json:"wake_phrase"`
	SleepPhrase       *string `json:"sleep_phrase"`
	StartAsleep       *bool   `json:"start_asleep"`
}

type jsoncIndicator struct {
	Enable             *bool   `json:"enable"`
	Backend            *string `json:"backend"`
	AppName            *string `json:"app_name"`
	ErrorTimeoutMS     *int    `json:"error_timeout_ms"`
	SoundEnable        *bool   `json:"sound_enable"`
	SoundWakeFile      *string `json:"sound_wake_file"`
	SoundSleepFile     *string `json:"sound_sleep_file"`
	SoundRecognizeFile *string `json:"sound_recognize_file"`
	SoundFailureFile   *string `json:"sound_failure_file"`
}

type jsoncInject struct {
	TypeCmd      *string `json:"type_cmd"`
	KeyCmd       *string `json:"key_cmd"`
	ClipboardCmd *string `json:"clipboard_cmd"`
	Paste        *bool   `json:"paste"`
	PasteKey     *string `json:"paste_key"`
	PasteCmd     *string `json:"paste_cmd"`
}

type jsoncStringList []string

func (l *jsoncStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		parts := strings.Split(single, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
		*l = out
		return nil
	}

	return fmt.Errorf("expected string array or comma-delimited string")
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if payload.Socket != nil {
		cfg.Socket = strings.TrimSpace(*payload.Socket)
	}
	if payload.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*payload.LogLevel)
	}
	if payload.Language != nil {
		cfg.Language = strings.TrimSpace(*payload.Language)
	}

	if payload.Modules != nil {
		if payload.Modules.Enable != nil {
			cfg.Modules.Enable = *payload.Modules.Enable
		}
		if payload.Modules.Dirs != nil {
			cfg.Modules.Dirs = append([]string(nil), *payload.Modules.Dirs...)
		}
	}

	if payload.History != nil {
		if payload.History.Enable != nil {
			cfg.History.Enable = *payload.History.Enable
		}
		if payload.History.Path != nil {
			cfg.History.Path = strings.TrimSpace(*payload.History.Path)
		}
		if payload.History.Limit != nil {
			cfg.History.Limit = *payload.History.Limit
		}
	}

	if payload.Recognition != nil {
		if payload.Recognition.SequenceTimeoutMS != nil {
			cfg.Recognition.SequenceTimeoutMS = *payload.Recognition.SequenceTimeoutMS
		}
		if payload.Recognition.StrictDictation != nil {
			cfg.Recognition.StrictDictation = *payload.Recognition.StrictDictation
		}
		if payload.Recognition.WakePhrase != nil {
			cfg.Recognition.WakePhrase = strings.TrimSpace(*payload.Recognition.WakePhrase)
		}
		if payload.Recognition.SleepPhrase != nil {
			cfg.Recognition.SleepPhrase = strings.TrimSpace(*payload.Recognition.SleepPhrase)
		}
		if payload.Recognition.StartAsleep != nil {
			cfg.Recognition.StartAsleep = *payload.Recognition.StartAsleep
		}
	}

	if payload.Indicator != nil {
		if payload.Indicator.Enable != nil {
			cfg.Indicator.Enable = *payload.Indicator.Enable
		}
		if payload.Indicator.Backend != nil {
			cfg.Indicator.Backend = strings.TrimSpace(*payload.Indicator.Backend)
		}
		if payload.Indicator.AppName != nil {
			cfg.Indicator.AppName = strings.TrimSpace(*payload.Indicator.AppName)
		}
		if payload.Indicator.ErrorTimeoutMS != nil {
			cfg.Indicator.ErrorTimeoutMS = *payload.Indicator.ErrorTimeoutMS
		}
		if payload.Indicator.SoundEnable != nil {
			cfg.Indicator.SoundEnable = *payload.Indicator.SoundEnable
		}
		if payload.Indicator.SoundWakeFile != nil {
			cfg.Indicator.SoundWakeFile = strings.TrimSpace(*payload.Indicator.SoundWakeFile)
		}
		if payload.Indicator.SoundSleepFile != nil {
			cfg.Indicator.SoundSleepFile = strings.TrimSpace(*payload.Indicator.SoundSleepFile)
		}
		if payload.Indicator.SoundRecognizeFile != nil {
			cfg.Indicator.SoundRecognizeFile = strings.TrimSpace(*payload.Indicator.SoundRecognizeFile)
		}
		if payload.Indicator.SoundFailureFile != nil {
			cfg.Indicator.SoundFailureFile = strings.TrimSpace(*payload.Indicator.SoundFailureFile)
		}
	}

	if payload.Inject != nil {
		if payload.Inject.TypeCmd != nil {
			if err := setJSONCCommand(&cfg.Inject.TypeCmd, "inject.type_cmd", *payload.Inject.TypeCmd); err != nil {
				return err
			}
		}
		if payload.Inject.KeyCmd != nil {
			if err := setJSONCCommand(&cfg.Inject.KeyCmd, "inject.key_cmd", *payload.Inject.KeyCmd); err != nil {
				return err
			}
		}
		if payload.Inject.ClipboardCmd != nil {
			if err := setJSONCCommand(&cfg.Inject.ClipboardCmd, "inject.clipboard_cmd", *payload.Inject.ClipboardCmd); err != nil {
				return err
			}
		}
		if payload.Inject.Paste != nil {
			cfg.Inject.Paste = *payload.Inject.Paste
		}
		if payload.Inject.PasteKey != nil {
			cfg.Inject.PasteKey = strings.TrimSpace(*payload.Inject.PasteKey)
		}
		if payload.Inject.PasteCmd != nil {
			if err := setJSONCCommand(&cfg.Inject.PasteCmd, "inject.paste_cmd", *payload.Inject.PasteCmd); err != nil {
				return err
			}
		}
	}

	return nil
}

func setJSONCCommand(dst *CommandConfig, key, raw string) error {
	argv, err := parseArgv(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = CommandConfig{Raw: raw, Argv: argv}
	return nil
}

func normalizeJSONC(content string) (string, error) {
	withoutComments, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(withoutComments), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			if ch == '\r' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
