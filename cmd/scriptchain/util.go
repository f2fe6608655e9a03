package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/loykin/scriptchain/internal/chain"
)

func printJSON(w io.Writer, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
		return
	}
	_, _ = fmt.Fprintln(w, string(b))
}

// entryView is an entry with its display names for printing.
type entryView struct {
	chain.Entry
	ScriptDisplayName        string `json:"script_display_name"`
	ScriptProcessDisplayName string `json:"script_process_display_name"`
	GameDisplayName          string `json:"game_display_name"`
	CheckDoneDisplayName     string `json:"check_done_display_name"`
}

func viewOf(e chain.Entry) entryView {
	return entryView{
		Entry:                    e,
		ScriptDisplayName:        e.ScriptDisplayName(),
		ScriptProcessDisplayName: e.ScriptProcessDisplayName(),
		GameDisplayName:          e.GameDisplayName(),
		CheckDoneDisplayName:     e.CheckDoneDisplayName(),
	}
}

func viewsOf(es []chain.Entry) []entryView {
	out := make([]entryView, 0, len(es))
	for _, e := range es {
		out = append(out, viewOf(e))
	}
	return out
}
