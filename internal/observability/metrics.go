package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// report run. The program exits after a single pass, so instead of a scrape
// endpoint the registry is dumped to a text file next to the report.
type Metrics struct {
	RowsFetched    prometheus.Counter
	RowsCleaned    prometheus.Counter
	CellsImputed   *prometheus.CounterVec // label: group={perpetrator,geo}
	DatesInvalid   prometheus.Counter
	ChartsRendered prometheus.Counter
	ModelsFit      prometheus.Counter
	StageDuration  *prometheus.HistogramVec // label: stage
	RunActive      prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all report metrics on a dedicated registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shooting_report",
			Name:      "rows_fetched_total",
			Help:      "Rows parsed from the downloaded dataset.",
		}),
		RowsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shooting_report",
			Name:      "rows_cleaned_total",
			Help:      "Rows in the cleaned working table.",
		}),
		CellsImputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shooting_report",
			Name:      "cells_imputed_total",
			Help:      "Missing cells replaced with a sentinel, by substitution group.",
		}, []string{"group"}),
		DatesInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shooting_report",
			Name:      "dates_invalid_total",
			Help:      "OCCUR_DATE values that did not parse and carry the no-date marker.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shooting_report",
			Name:      "charts_rendered_total",
			Help:      "Charts rendered into the report.",
		}),
		ModelsFit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shooting_report",
			Name:      "models_fit_total",
			Help:      "Regressions fit during the run.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shooting_report",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shooting_report",
			Name:      "run_active",
			Help:      "1 while the report pipeline is running.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsFetched,
		m.RowsCleaned,
		m.CellsImputed,
		m.DatesInvalid,
		m.ChartsRendered,
		m.ModelsFit,
		m.StageDuration,
		m.RunActive,
	)

	return m
}

// WriteSnapshot writes the registry contents in Prometheus text exposition
// format, suitable for a node-exporter textfile collector.
func (m *Metrics) WriteSnapshot(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
