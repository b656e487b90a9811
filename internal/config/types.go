// Package config resolves, parses, validates, and defaults parola configuration.
package config

// Config is the fully materialized runtime configuration used by parola.
type Config struct {
	Socket      string
	LogLevel    string
	Language    string
	Modules     ModulesConfig
	History     HistoryConfig
	Recognition RecognitionConfig
	Indicator   IndicatorConfig
	Inject      InjectConfig
}

// ModulesConfig controls command-module discovery and loading.
type ModulesConfig struct {
	Enable bool
	Dirs   []string
}

// HistoryConfig controls the recognition history store.
type HistoryConfig struct {
	Enable bool
	Path   string
	Limit  int
}

// RecognitionConfig controls matching behavior and the sleep cycle.
type RecognitionConfig struct {
	SequenceTimeoutMS int
	StrictDictation   bool
	WakePhrase        string
	SleepPhrase       string
	StartAsleep       bool
}

// IndicatorConfig controls desktop notifications and audio cues.
type IndicatorConfig struct {
	Enable         bool
	Backend        string
	AppName        string
	ErrorTimeoutMS int

	SoundEnable        bool
	SoundWakeFile      string
	SoundSleepFile     string
	SoundRecognizeFile string
	SoundFailureFile   string
}

// InjectConfig controls how matched actions reach the focused window.
type InjectConfig struct {
	TypeCmd      CommandConfig
	KeyCmd       CommandConfig
	ClipboardCmd CommandConfig
	Paste        bool
	PasteKey     string
	PasteCmd     CommandConfig
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
