package scriptchain

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loykin/scriptchain/internal/chain"
	"github.com/loykin/scriptchain/internal/history"
	hfactory "github.com/loykin/scriptchain/internal/history/factory"
	"github.com/loykin/scriptchain/internal/metrics"
	"github.com/loykin/scriptchain/internal/store"
	sfactory "github.com/loykin/scriptchain/internal/store/factory"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Entry = chain.Entry

type CheckDoneMethod = chain.CheckDoneMethod

type ValidationError = chain.ValidationError

type Collection = chain.Collection

type Store = store.Store

type Document = store.Document

type HistorySink = history.Sink

type HistoryEvent = history.Event

type HistoryReader = history.Reader

const (
	GameClosed         = chain.GameClosed
	ScriptClosed       = chain.ScriptClosed
	GameOrScriptClosed = chain.GameOrScriptClosed
)

var (
	WithLogger      = chain.WithLogger
	WithHistory     = chain.WithHistory
	WithPathChecker = chain.WithPathChecker
)

// Open loads the chain called name from st.
func Open(ctx context.Context, st Store, name string, opts ...chain.Option) (*Collection, error) {
	return chain.Open(ctx, st, name, opts...)
}

// OpenStore opens a chain store from a DSN and prepares its schema.
// Supported DSNs: a directory (YAML files), sqlite://path, postgres://...
func OpenStore(ctx context.Context, dsn string) (Store, error) {
	st, err := sfactory.NewFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// NewHistorySink opens a change history sink from a DSN.
func NewHistorySink(dsn string) (HistorySink, error) { return hfactory.NewSinkFromDSN(dsn) }

// RegisterMetrics registers chain metrics with r.
func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
