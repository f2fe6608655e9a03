package chain

import (
	"path"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Defaults applied to fields absent from a stored record and to new entries.
const (
	DefaultRunTimeoutSeconds   = 3600
	DefaultKillScriptAfterDone = true
	DefaultKillGameAfterDone   = true
	DefaultNotifyStart         = true
	DefaultNotifyDone          = true
)

// Entry is one script run within a chain.
// Index is owned by the Collection and is never persisted.
type Entry struct {
	Index               int             `json:"index"`
	ScriptPath          string          `json:"script_path"`            // script to execute
	ScriptProcessName   string          `json:"script_process_name"`    // OS process name once the script runs
	GameProcessName     string          `json:"game_process_name"`      // OS process name of the companion game
	RunTimeoutSeconds   int             `json:"run_timeout_seconds"`    // max wait before the run is timed out
	CheckDone           CheckDoneMethod `json:"check_done"`             // completion detection
	KillScriptAfterDone bool            `json:"kill_script_after_done"` // terminate the script process when done
	KillGameAfterDone   bool            `json:"kill_game_after_done"`   // terminate the game process when done
	ScriptArguments     string          `json:"script_arguments"`       // extra command-line arguments
	NotifyStart         bool            `json:"notify_start"`
	NotifyDone          bool            `json:"notify_done"`
}

// blankEntry is what a stored record with no keys decodes to.
func blankEntry() Entry {
	return Entry{
		RunTimeoutSeconds:   DefaultRunTimeoutSeconds,
		KillScriptAfterDone: DefaultKillScriptAfterDone,
		KillGameAfterDone:   DefaultKillGameAfterDone,
		NotifyStart:         DefaultNotifyStart,
		NotifyDone:          DefaultNotifyDone,
	}
}

// NewEntry returns an entry for a freshly added slot. Unlike blankEntry it
// carries a usable completion method.
func NewEntry() Entry {
	e := blankEntry()
	e.CheckDone = GameOrScriptClosed
	return e
}

// ScriptDisplayName is the file name of ScriptPath, or "" when the path is
// empty or ends in a separator.
func (e Entry) ScriptDisplayName() string {
	// accept both separators; chains are often edited on Windows
	p := strings.ReplaceAll(e.ScriptPath, `\`, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	return path.Base(p)
}

// GameDisplayName is the registered label of GameProcessName, or the raw name.
func (e Entry) GameDisplayName() string {
	if l, ok := GameLabel(e.GameProcessName); ok {
		return l
	}
	return e.GameProcessName
}

// ScriptProcessDisplayName is the registered label of ScriptProcessName, or the raw name.
func (e Entry) ScriptProcessDisplayName() string {
	if l, ok := ScriptLabel(e.ScriptProcessName); ok {
		return l
	}
	return e.ScriptProcessName
}

// CheckDoneDisplayName is the label of CheckDone, or "" when unrecognized.
func (e Entry) CheckDoneDisplayName() string { return e.CheckDone.Label() }

// RunTimeout converts RunTimeoutSeconds to a duration.
func (e Entry) RunTimeout() time.Duration {
	return time.Duration(e.RunTimeoutSeconds) * time.Second
}

// Args splits ScriptArguments into an argv slice using shell quoting rules.
func (e Entry) Args() ([]string, error) {
	if strings.TrimSpace(e.ScriptArguments) == "" {
		return nil, nil
	}
	return shellquote.Split(e.ScriptArguments)
}
