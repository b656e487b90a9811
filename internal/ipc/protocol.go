package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Daemon commands carried over the control socket.
const (
	CommandStatus   = "status"
	CommandPause    = "pause"
	CommandResume   = "resume"
	CommandMimic    = "mimic"
	CommandGrammars = "grammars"
	CommandHistory  = "history"
	CommandReload   = "reload"
	CommandStop     = "stop"
)

// Request is one control command. Args carries command-specific
// parameters: the words for mimic, the entry limit for history.
type Request struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// GrammarStatus describes one loaded grammar in a grammars response.
type GrammarStatus struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Rules   []string `json:"rules,omitempty"`
}

// HistoryEntry is one stored utterance outcome in a history response.
type HistoryEntry struct {
	Words      string `json:"words"`
	Grammar    string `json:"grammar,omitempty"`
	Rule       string `json:"rule,omitempty"`
	Status     string `json:"status"`
	TimedOut   bool   `json:"timed_out,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	At         string `json:"at"`
}

type Response struct {
	OK       bool            `json:"ok"`
	State    string          `json:"state,omitempty"`
	Message  string          `json:"message,omitempty"`
	Error    string          `json:"error,omitempty"`
	Grammars []GrammarStatus `json:"grammars,omitempty"`
	History  []HistoryEntry  `json:"history,omitempty"`
}

// Fail builds a refusal response with a formatted error.
func Fail(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

// Frames are newline-delimited JSON, one frame per direction per
// connection.

func writeFrame(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func readFrame(r *bufio.Reader, v any) error {
	line, err := r.ReadBytes('\n')
	if err != nil {
		return err
	}
	return json.Unmarshal(line, v)
}
