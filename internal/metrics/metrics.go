// Package metrics holds Prometheus instruments used across the pipeline.
// All collectors are registered with the global registry, so importing this
// package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DatasetsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "datasets_loaded",
			Help: "Number of topic datasets currently held in memory.",
		})

	DatasetLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_load_total",
			Help: "Cumulative number of datasets successfully loaded.",
		})

	DatasetLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_load_errors_total",
			Help: "Cumulative number of dataset load failures.",
		})

	SlugIndexBuildTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slug_index_build_total",
			Help: "Cumulative number of slug indexes loaded or derived.",
		})

	RecordLookupTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "record_lookup_total",
			Help: "Cumulative number of by-slug record lookups served.",
		})
)

func init() {
	prometheus.MustRegister(
		DatasetsLoaded,
		DatasetLoadTotal,
		DatasetLoadErrorsTotal,
		SlugIndexBuildTotal,
		RecordLookupTotal,
	)
}
