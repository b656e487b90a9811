package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	typeCmd := "wtype -"
	keyCmd := "wtype"
	clipboard := "wl-copy --trim-newline"

	return Config{
		// Empty means "resolve against XDG_RUNTIME_DIR at startup".
		Socket:   "",
		LogLevel: "info",
		Language: "en",
		Modules: ModulesConfig{
			Enable: true,
			// Empty means "$XDG_CONFIG_HOME/parola/modules".
			Dirs: nil,
		},
		History: HistoryConfig{
			Enable: true,
			Path:   "",
			Limit:  1000,
		},
		Recognition: RecognitionConfig{
			SequenceTimeoutMS: 2000,
			StrictDictation:   false,
			WakePhrase:        "wake up",
			SleepPhrase:       "go to sleep",
			StartAsleep:       false,
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			Backend:        "hypr",
			AppName:        "parola",
			ErrorTimeoutMS: 1600,
			SoundEnable:    false,
		},
		Inject: InjectConfig{
			TypeCmd:      CommandConfig{Raw: typeCmd, Argv: mustParseArgv(typeCmd)},
			KeyCmd:       CommandConfig{Raw: keyCmd, Argv: mustParseArgv(keyCmd)},
			ClipboardCmd: CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
			Paste:        false,
			PasteKey:     "CTRL,V",
		},
	}
}
