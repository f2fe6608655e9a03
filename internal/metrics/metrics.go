package metrics

import (
	"errors"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scriptchain",
			Subsystem: "chain",
			Name:      "mutations_total",
			Help:      "Number of applied chain mutations by operation.",
		}, []string{"chain", "op"},
	)
	saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scriptchain",
			Subsystem: "chain",
			Name:      "saves_total",
			Help:      "Number of chain document writes by result.",
		}, []string{"chain", "result"},
	)
	entries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "scriptchain",
			Subsystem: "chain",
			Name:      "entries",
			Help:      "Current number of entries in a chain.",
		}, []string{"chain"},
	)
	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scriptchain",
			Subsystem: "entry",
			Name:      "validation_failures_total",
			Help:      "Number of entry validations that failed, by rule.",
		}, []string{"kind"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{mutations, saves, entries, validationFailures}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncMutation(chain, op string) {
	if regOK.Load() {
		mutations.WithLabelValues(chain, op).Inc()
	}
}

func IncSave(chain string, ok bool) {
	if regOK.Load() {
		result := "ok"
		if !ok {
			result = "error"
		}
		saves.WithLabelValues(chain, result).Inc()
	}
}

func SetEntries(chain string, n int) {
	if regOK.Load() {
		entries.WithLabelValues(chain).Set(float64(n))
	}
}

func IncValidationFailure(kind string) {
	if regOK.Load() {
		validationFailures.WithLabelValues(kind).Inc()
	}
}

// Snapshot gathers g and sums the samples of every counter and gauge family.
// Histograms and summaries are skipped.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(mfs))
	for _, mf := range mfs {
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			}
		}
		out[mf.GetName()] = sum
	}
	return out, nil
}
