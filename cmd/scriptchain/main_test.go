package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with a fresh root and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := buildRoot(&out)
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), err
}

func decodeEntries(t *testing.T, s string) []map[string]any {
	t.Helper()
	var v []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &v), s)
	return v
}

func TestAddUpdateMoveDeleteFlow(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--store", dir, "--chain", "daily"}
	cmd := func(args ...string) string {
		t.Helper()
		out, err := run(t, append(append([]string{}, base...), args...)...)
		require.NoError(t, err, out)
		return out
	}

	cmd("add")
	cmd("add")
	out := cmd("add")
	var added map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.EqualValues(t, 2, added["index"])
	assert.Equal(t, "game_or_script_closed", added["check_done"])
	assert.Equal(t, "Game or script closed", added["check_done_display_name"])

	out = cmd("update", "--index", "2", "--script-path", `C:\bgi\BetterGI.exe`, "--game-process", "YuanShen.exe",
		"--timeout", "900", "--kill-game=false", `--args=--profile "daily run"`)
	var updated map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "BetterGI.exe", updated["script_display_name"])
	assert.Equal(t, "Genshin Impact", updated["game_display_name"])
	assert.EqualValues(t, 900, updated["run_timeout_seconds"])
	assert.Equal(t, false, updated["kill_game_after_done"])
	assert.Equal(t, true, updated["kill_script_after_done"], "unset flags keep their value")

	entries := decodeEntries(t, cmd("move-up", "--index", "2"))
	require.Len(t, entries, 3)
	assert.Equal(t, `C:\bgi\BetterGI.exe`, entries[1]["script_path"])
	for i, e := range entries {
		assert.EqualValues(t, i, e["index"])
	}

	entries = decodeEntries(t, cmd("delete", "--index", "0"))
	require.Len(t, entries, 2)
	assert.Equal(t, `C:\bgi\BetterGI.exe`, entries[0]["script_path"])

	// out of range operations are no-ops
	entries = decodeEntries(t, cmd("delete", "--index", "7"))
	assert.Len(t, entries, 2)
	entries = decodeEntries(t, cmd("move-up", "--index", "0"))
	assert.Equal(t, `C:\bgi\BetterGI.exe`, entries[0]["script_path"])

	// the chain is on disk and reloads
	_, err := os.Stat(filepath.Join(dir, "script_chain", "daily.yml"))
	require.NoError(t, err)
	entries = decodeEntries(t, cmd("list"))
	assert.Len(t, entries, 2)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(cmd("chains")), &names))
	assert.Equal(t, []string{"daily"}, names)

	cmd("remove")
	entries = decodeEntries(t, cmd("list"))
	assert.Empty(t, entries)
}

func TestUpdateMissingIndex(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--store", dir, "--chain", "c", "update", "--index", "3", "--timeout", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entry at index 3")

	_, err = run(t, "--store", dir, "--chain", "c", "delete")
	assert.Error(t, err, "index flag is required")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755))
	base := []string{"--store", dir, "--chain", "v"}

	_, err := run(t, append(base, "add")...)
	require.NoError(t, err)

	out, err := run(t, append(base, "validate")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 invalid entries")
	assert.Contains(t, out, "script path is empty")

	_, err = run(t, append(base, "update", "--index", "0", "--script-path", script,
		"--script-process", "sh", "--game-process", "game.exe")...)
	require.NoError(t, err)

	out, err = run(t, append(base, "validate")...)
	require.NoError(t, err, out)
	assert.Contains(t, out, `"valid": true`)
}

func TestOptionsCommand(t *testing.T) {
	out, err := run(t, "--store", t.TempDir(), "options")
	require.NoError(t, err)
	assert.Contains(t, out, "game_or_script_closed")
	assert.Contains(t, out, "StarRail.exe")
	assert.Contains(t, out, "BetterGI.exe")
}

func TestConfigFileWithSQLiteAndHistory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scriptchain.toml")
	cfg := `
chain = "from-config"

[store]
dsn = "sqlite://` + filepath.ToSlash(filepath.Join(dir, "chains.db")) + `"

[history]
dsn = "` + filepath.ToSlash(filepath.Join(dir, "history.db")) + `"

[log]
level = "debug"
format = "text"

[log.file]
path = "` + filepath.ToSlash(filepath.Join(dir, "scriptchain.log")) + `"

[metrics]
enabled = true
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := run(t, "--config", cfgPath, "add")
	require.NoError(t, err)
	out, err := run(t, "--config", cfgPath, "chains")
	require.NoError(t, err)
	assert.Contains(t, out, "from-config")

	b, err := os.ReadFile(filepath.Join(dir, "scriptchain.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "Entry added"), string(b))
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scriptchain.toml")
	cfg := `
chain = "daily"

[store]
dsn = "` + filepath.ToSlash(filepath.Join(dir, "chains")) + `"

[history]
dsn = "sqlite://` + filepath.ToSlash(filepath.Join(dir, "history.db")) + `"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	for _, args := range [][]string{{"add"}, {"add"}, {"move-up", "--index", "1"}, {"delete", "--index", "0"}} {
		_, err := run(t, append([]string{"--config", cfgPath}, args...)...)
		require.NoError(t, err)
	}

	out, err := run(t, "--config", cfgPath, "history", "--limit", "3")
	require.NoError(t, err)
	var events []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &events), out)
	require.Len(t, events, 3)
	assert.Equal(t, "delete", events[0]["type"])
	assert.Equal(t, "move_up", events[1]["type"])
	assert.Equal(t, "add", events[2]["type"])
	assert.EqualValues(t, 1, events[0]["length"])
}

func TestHistoryCommandWithoutSink(t *testing.T) {
	_, err := run(t, "--store", t.TempDir(), "--chain", "daily", "history")
	assert.Error(t, err)
}

func TestBadConfigFails(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "list")
	assert.Error(t, err)

	_, err = run(t, "--store", "redis://nope", "list")
	assert.Error(t, err)
}
