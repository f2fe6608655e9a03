package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cast"

	"github.com/loykin/scriptchain/internal/history"
	"github.com/loykin/scriptchain/internal/metrics"
	"github.com/loykin/scriptchain/internal/store"
)

// Collection is the ordered list of entries of one named chain.
// Every structural change reindexes the entries and writes the whole list
// through the store before returning. A Collection has a single owner and
// is not safe for concurrent use.
type Collection struct {
	name    string
	st      store.Store
	entries []Entry
	extra   store.Document // top-level keys other than script_list, kept on save

	log       *slog.Logger
	sink      history.Sink
	checkPath PathChecker
}

// Option configures a Collection at Open.
type Option func(*Collection)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHistory sends an event to s after every successful write.
func WithHistory(s history.Sink) Option {
	return func(c *Collection) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithPathChecker replaces the filesystem check used by ValidateAll.
func WithPathChecker(p PathChecker) Option {
	return func(c *Collection) {
		if p != nil {
			c.checkPath = p
		}
	}
}

// Open loads the chain called name from st. A chain that has never been
// saved opens empty.
func Open(ctx context.Context, st store.Store, name string, opts ...Option) (*Collection, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, err
	}
	c := &Collection{
		name:      name,
		st:        st,
		log:       slog.Default(),
		sink:      history.Nop{},
		checkPath: FileExists,
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collection) load(ctx context.Context) error {
	doc, err := c.st.Load(ctx, c.name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load chain %s: %w", c.name, err)
	}
	c.extra = store.Document{}
	for k, v := range doc {
		if k != keyScriptList {
			c.extra[k] = v
		}
	}
	var raw []any
	if v, ok := doc[keyScriptList]; ok && v != nil {
		raw, err = cast.ToSliceE(v)
		if err != nil {
			c.log.Warn("Ignoring malformed script list", "chain", c.name, "error", err)
			raw = nil
		}
	}
	c.entries = make([]Entry, 0, len(raw))
	for _, r := range raw {
		c.entries = append(c.entries, entryFromRecord(r))
	}
	c.reindex()
	metrics.SetEntries(c.name, len(c.entries))
	c.log.Debug("Chain loaded", "chain", c.name, "entries", len(c.entries))
	return nil
}

func (c *Collection) reindex() {
	for i := range c.entries {
		c.entries[i].Index = i
	}
}

// Name returns the chain name.
func (c *Collection) Name() string { return c.name }

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in chain order.
func (c *Collection) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Get returns a copy of the entry at pos.
func (c *Collection) Get(pos int) (Entry, bool) {
	if pos < 0 || pos >= len(c.entries) {
		return Entry{}, false
	}
	return c.entries[pos], true
}

// AddOne appends a new entry with default values and returns it.
func (c *Collection) AddOne(ctx context.Context) (Entry, error) {
	c.entries = append(c.entries, NewEntry())
	pos := len(c.entries) - 1
	if err := c.commit(ctx, history.EventAdd, pos); err != nil {
		return c.entries[pos], err
	}
	return c.entries[pos], nil
}

// DeleteOne removes the entry at pos. Out of range positions are ignored.
func (c *Collection) DeleteOne(ctx context.Context, pos int) error {
	if pos < 0 || pos >= len(c.entries) {
		return nil
	}
	c.entries = append(c.entries[:pos], c.entries[pos+1:]...)
	return c.commit(ctx, history.EventDelete, pos)
}

// MoveUp swaps the entry at pos with its predecessor. Positions <= 0 or out
// of range are ignored.
func (c *Collection) MoveUp(ctx context.Context, pos int) error {
	if pos <= 0 || pos >= len(c.entries) {
		return nil
	}
	c.entries[pos], c.entries[pos-1] = c.entries[pos-1], c.entries[pos]
	return c.commit(ctx, history.EventMoveUp, pos)
}

// UpdateOne replaces the entry at e.Index with e. An index outside the
// collection is ignored. The entry is not checked to originate from c.
func (c *Collection) UpdateOne(ctx context.Context, e Entry) error {
	if e.Index < 0 || e.Index >= len(c.entries) {
		return nil
	}
	c.entries[e.Index] = e
	return c.commit(ctx, history.EventUpdate, e.Index)
}

// Save writes the whole chain through the store.
func (c *Collection) Save(ctx context.Context) error {
	c.reindex()
	if err := c.persist(ctx); err != nil {
		return err
	}
	c.emit(ctx, history.EventSave, -1)
	return nil
}

// commit finishes a mutation that has already been applied in memory.
// A failed write leaves the in-memory change in place.
func (c *Collection) commit(ctx context.Context, op history.EventType, pos int) error {
	c.reindex()
	metrics.IncMutation(c.name, string(op))
	metrics.SetEntries(c.name, len(c.entries))
	if err := c.persist(ctx); err != nil {
		return err
	}
	c.emit(ctx, op, pos)
	return nil
}

func (c *Collection) document() store.Document {
	doc := make(store.Document, len(c.extra)+1)
	for k, v := range c.extra {
		doc[k] = v
	}
	list := make([]any, 0, len(c.entries))
	for _, e := range c.entries {
		list = append(list, e.record())
	}
	doc[keyScriptList] = list
	return doc
}

func (c *Collection) persist(ctx context.Context) error {
	if err := c.st.Save(ctx, c.name, c.document()); err != nil {
		metrics.IncSave(c.name, false)
		c.log.Error("Failed to save chain", "chain", c.name, "error", err)
		return fmt.Errorf("save chain %s: %w", c.name, err)
	}
	metrics.IncSave(c.name, true)
	c.log.Debug("Chain saved", "chain", c.name, "entries", len(c.entries))
	return nil
}

func (c *Collection) emit(ctx context.Context, op history.EventType, pos int) {
	e := history.Event{
		Type:       op,
		OccurredAt: time.Now().UTC(),
		Chain:      c.name,
		Position:   pos,
		Length:     len(c.entries),
	}
	if err := c.sink.Send(ctx, e); err != nil {
		c.log.Warn("Failed to record chain history", "chain", c.name, "event", string(op), "error", err)
	}
}

// EntryError pairs an invalid entry's index with its first validation error.
type EntryError struct {
	Index int    `json:"index"`
	Err   error  `json:"-"`
	Msg   string `json:"error"`
}

// ValidateAll validates every entry and returns the failures in chain order.
// It is advisory: nothing stops an invalid chain from being saved.
func (c *Collection) ValidateAll() []EntryError {
	var out []EntryError
	for _, e := range c.entries {
		err := e.ValidateWith(c.checkPath)
		if err == nil {
			continue
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			metrics.IncValidationFailure(ve.Kind.String())
		}
		out = append(out, EntryError{Index: e.Index, Err: err, Msg: err.Error()})
	}
	return out
}
