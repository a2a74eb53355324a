package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the exporter itself
var (
	scrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubelet_stats_exporter_scrape_duration_seconds",
			Help:    "Duration of full scrape cycles",
			Buckets: []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
	)

	nodesScraped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kubelet_stats_exporter_nodes_scraped",
			Help: "Number of Ready nodes dispatched in the last scrape cycle",
		},
	)

	nodeScrapeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubelet_stats_exporter_node_scrape_errors_total",
			Help: "Total number of per-node summary fetch failures",
		},
		[]string{"node"},
	)

	nodeListErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kubelet_stats_exporter_node_list_errors_total",
			Help: "Total number of failed node enumerations",
		},
	)
)

// ObserveScrapeCycle records the outcome of one full scrape cycle
func ObserveScrapeCycle(duration time.Duration, readyNodes int) {
	scrapeDuration.Observe(duration.Seconds())
	nodesScraped.Set(float64(readyNodes))
}

// RecordNodeScrapeError records a per-node summary fetch failure
func RecordNodeScrapeError(node string) {
	nodeScrapeErrors.With(prometheus.Labels{"node": node}).Inc()
}

// RecordNodeListError records a failed node enumeration
func RecordNodeListError() {
	nodeListErrors.Inc()
}
