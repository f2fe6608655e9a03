package main

import (
	"context"
	"fmt"

	"github.com/loykin/scriptchain/internal/chain"
	"github.com/loykin/scriptchain/internal/history"
)

// command runs CLI operations against one opened app.
type command struct {
	app *app
}

// IndexFlags holds the target position for delete/move-up
type IndexFlags struct {
	Index int
}

// HistoryFlags bounds the history listing
type HistoryFlags struct {
	Limit int
}

// UpdateFlags holds editable entry fields. Only flags the user set are applied.
type UpdateFlags struct {
	Index               int
	ScriptPath          string
	ScriptProcessName   string
	GameProcessName     string
	RunTimeoutSeconds   int
	CheckDone           string
	KillScriptAfterDone bool
	KillGameAfterDone   bool
	ScriptArguments     string
	NotifyStart         bool
	NotifyDone          bool
}

// List prints the chain entries in order
func (c *command) List(ctx context.Context) error {
	col, err := c.app.openChain(ctx)
	if err != nil {
		return err
	}
	printJSON(c.app.out, viewsOf(col.Entries()))
	return nil
}

// Add appends a default entry and prints it
func (c *command) Add(ctx context.Context) error {
	col, err := c.app.openChain(ctx)
	if err != nil {
		return err
	}
	e, err := col.AddOne(ctx)
	if err != nil {
		return err
	}
	c.app.log.Info("Entry added", "chain", col.Name(), "index", e.Index)
	printJSON(c.app.out, viewOf(e))
	return nil
}

// Delete removes the entry at f.Index
func (c *command) Delete(ctx context.Context, f IndexFlags) error {
	col, err := c.app.openChain(ctx)
	if err != nil {
		return err
	}
	if _, ok := col.Get(f.Index); !ok {
		c.app.log.Warn("Index out of range, nothing deleted", "chain", col.Name(), "index", f.Index, "entries", col.Len())
	}
	if err := col.DeleteOne(ctx, f.Index); err != nil {
		return err
	}
	printJSON(c.app.out, viewsOf(col.Entries()))
	return nil
}

// MoveUp swaps the entry at f.Index with the one before it
func (c *command) MoveUp(ctx context.Context, f IndexFlags) error {
	col, err := c.app.openChain(ctx)
	if err != nil {
		return err
	}
	if f.Index <= 0 || f.Index >= col.Len() {
		c.app.log.Warn("Cannot move entry up", "chain", col.Name(), "index", f.Index, "entries", col.Len())
	}
	if err := col.MoveUp(ctx, f.Index); err != nil {
		return err
	}
	printJSON(c.app.out, viewsOf(col.Entries()))
	return nil
}

// Update edits the entry at f.Index. changed reports which flags were set.
func (c *command) Update(ctx context.Context, f UpdateFlags, changed func(string) bool) error {
	col, err := c.app.openChain(ctx)
	if err != nil {
		return err
	}
	e, ok := col.Get(f.Index)
	if !ok {
		return fmt.Errorf("no entry at index %d (chain %s has %d entries)", f.Index, col.Name(), col.Len())
	}
	if changed("script-path") {
		e.ScriptPath = f.ScriptPath
	}
	if changed("script-process") {
		e.ScriptProcessName = f.ScriptProcessName
	}
	if changed("game-process") {
		e.GameProcessName = f.GameProcessName
	}
	if changed("timeout") {
		e.RunTimeoutSeconds = f.RunTimeoutSeconds
	}
	if changed("check-done") {
		e.CheckDone = chain.CheckDoneMethod(f.CheckDone)
	}
	if changed("kill-script") {
		e.KillScriptAfterDone = f.KillScriptAfterDone
	}
	if changed("kill-game") {
		e.KillGameAfterDone = f.KillGameAfterDone
	}
	if changed("args") {
		e.ScriptArguments = f.ScriptArguments
	}
	if changed("notify-start") {
		e.NotifyStart = f.NotifyStart
	}
	if changed("notify-done") {
		e.NotifyDone = f.NotifyDone
	}
	if err := col.UpdateOne(ctx, e); err != nil {
		return err
	}
	// stored even when invalid; report so the user can fix it
	if verr := e.Validate(); verr != nil {
		c.app.log.Warn("Entry is not runnable yet", "chain", col.Name(), "index", e.Index, "error", verr)
	}
	printJSON(c.app.out, viewOf(e))
	return nil
}

// Validate checks every entry and fails when any is invalid
func (c *command) Validate(ctx context.Context) error {
	col, err := c.app.openChain(ctx)
	if err != nil {
		return err
	}
	errs := col.ValidateAll()
	printJSON(c.app.out, map[string]any{
		"chain":   col.Name(),
		"entries": col.Len(),
		"valid":   len(errs) == 0,
		"errors":  errs,
	})
	if len(errs) > 0 {
		return fmt.Errorf("chain %s has %d invalid entries", col.Name(), len(errs))
	}
	return nil
}

// Chains lists the chain names known to the store
func (c *command) Chains(ctx context.Context) error {
	names, err := c.app.store.List(ctx)
	if err != nil {
		return err
	}
	printJSON(c.app.out, names)
	return nil
}

// Remove deletes the configured chain document
func (c *command) Remove(ctx context.Context) error {
	if err := c.app.store.Delete(ctx, c.app.cfg.Chain); err != nil {
		return err
	}
	c.app.log.Info("Chain removed", "chain", c.app.cfg.Chain)
	return nil
}

// History prints the newest recorded changes of the chain, newest first
func (c *command) History(ctx context.Context, f HistoryFlags) error {
	r, ok := c.app.sink.(history.Reader)
	if !ok {
		return fmt.Errorf("history is not readable: set history.dsn to a sqlite or postgres DSN")
	}
	events, err := r.Recent(ctx, c.app.cfg.Chain, f.Limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	printJSON(c.app.out, events)
	return nil
}

// Options prints the value/label registries used by entries
func (c *command) Options() error {
	printJSON(c.app.out, map[string]any{
		"check_done":       chain.CheckDoneMethods(),
		"game_processes":   chain.KnownGames(),
		"script_processes": chain.KnownScripts(),
	})
	return nil
}
