package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/loykin/scriptchain/internal/chain"
	"github.com/loykin/scriptchain/internal/config"
	"github.com/loykin/scriptchain/internal/history"
	hfactory "github.com/loykin/scriptchain/internal/history/factory"
	"github.com/loykin/scriptchain/internal/logger"
	"github.com/loykin/scriptchain/internal/metrics"
	"github.com/loykin/scriptchain/internal/store"
	sfactory "github.com/loykin/scriptchain/internal/store/factory"
)

// app holds everything one CLI invocation needs. It is built per command
// and closed when the command returns.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   store.Store
	sink    history.Sink
	reg     *prometheus.Registry
	out     io.Writer
	closers []io.Closer
}

func openApp(ctx context.Context, flags *GlobalFlags, out io.Writer) (*app, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.Chain != "" {
		cfg.Chain = flags.Chain
	}
	if flags.StoreDSN != "" {
		cfg.Store.DSN = flags.StoreDSN
	}

	log, logCloser, err := logger.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, out: out, sink: history.Nop{}, closers: []io.Closer{logCloser}}

	st, err := sfactory.NewFromDSN(cfg.Store.DSN)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st)
	if err := st.EnsureSchema(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("prepare store: %w", err)
	}

	if cfg.History.DSN != "" {
		sink, err := hfactory.NewSinkFromDSN(cfg.History.DSN)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open history sink: %w", err)
		}
		a.sink = sink
		if c, ok := sink.(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
	}

	if cfg.Metrics.Enabled {
		a.reg = prometheus.NewRegistry()
		if err := metrics.Register(a.reg); err != nil {
			a.close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return a, nil
}

// openChain opens the configured chain with the app's logger, sink and store.
func (a *app) openChain(ctx context.Context) (*chain.Collection, error) {
	return chain.Open(ctx, a.store, a.cfg.Chain,
		chain.WithLogger(a.log),
		chain.WithHistory(a.sink),
	)
}

func (a *app) close() {
	if a.reg != nil {
		if snap, err := metrics.Snapshot(a.reg); err == nil {
			for name, v := range snap {
				a.log.Debug("Metric", "name", name, "value", v)
			}
		}
	}
	// close in reverse order so the logger goes last
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}
