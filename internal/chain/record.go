package chain

import (
	"github.com/spf13/cast"
)

// Keys of a stored script record.
const (
	keyScriptList          = "script_list"
	keyScriptPath          = "script_path"
	keyScriptProcessName   = "script_process_name"
	keyGameProcessName     = "game_process_name"
	keyRunTimeoutSeconds   = "run_timeout_seconds"
	keyCheckDone           = "check_done"
	keyKillScriptAfterDone = "kill_script_after_done"
	keyKillGameAfterDone   = "kill_game_after_done"
	keyScriptArguments     = "script_arguments"
	keyNotifyStart         = "notify_start"
	keyNotifyDone          = "notify_done"
)

// entryFromRecord decodes one stored record. Missing keys, nil values and
// values that cannot be converted fall back to the blank-entry defaults;
// unknown keys are ignored.
func entryFromRecord(raw any) Entry {
	e := blankEntry()
	rec, err := cast.ToStringMapE(raw)
	if err != nil {
		return e
	}
	e.ScriptPath = stringField(rec, keyScriptPath, e.ScriptPath)
	e.ScriptProcessName = stringField(rec, keyScriptProcessName, e.ScriptProcessName)
	e.GameProcessName = stringField(rec, keyGameProcessName, e.GameProcessName)
	e.RunTimeoutSeconds = intField(rec, keyRunTimeoutSeconds, e.RunTimeoutSeconds)
	e.CheckDone = CheckDoneMethod(stringField(rec, keyCheckDone, string(e.CheckDone)))
	e.KillScriptAfterDone = boolField(rec, keyKillScriptAfterDone, e.KillScriptAfterDone)
	e.KillGameAfterDone = boolField(rec, keyKillGameAfterDone, e.KillGameAfterDone)
	e.ScriptArguments = stringField(rec, keyScriptArguments, e.ScriptArguments)
	e.NotifyStart = boolField(rec, keyNotifyStart, e.NotifyStart)
	e.NotifyDone = boolField(rec, keyNotifyDone, e.NotifyDone)
	return e
}

// record is the inverse of entryFromRecord. Index is not stored.
func (e Entry) record() map[string]any {
	return map[string]any{
		keyScriptPath:          e.ScriptPath,
		keyScriptProcessName:   e.ScriptProcessName,
		keyGameProcessName:     e.GameProcessName,
		keyRunTimeoutSeconds:   e.RunTimeoutSeconds,
		keyCheckDone:           string(e.CheckDone),
		keyKillScriptAfterDone: e.KillScriptAfterDone,
		keyKillGameAfterDone:   e.KillGameAfterDone,
		keyScriptArguments:     e.ScriptArguments,
		keyNotifyStart:         e.NotifyStart,
		keyNotifyDone:          e.NotifyDone,
	}
}

func stringField(rec map[string]any, key, def string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

func intField(rec map[string]any, key string, def int) int {
	v, ok := rec[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func boolField(rec map[string]any, key string, def bool) bool {
	v, ok := rec[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}
