// Package metrics holds the Prometheus collectors for the scan pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_scans_total",
			Help: "Total number of scans by outcome",
		},
		[]string{"outcome"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodmatch_scan_duration_seconds",
			Help:    "End-to-end scan latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moodmatch_inference_duration_seconds",
			Help:    "Model inference latency in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	FaceNotFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moodmatch_face_not_found_total",
			Help: "Scans where no face was located and the full frame was used",
		},
	)

	DegradedPredictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_degraded_predictions_total",
			Help: "Predictions that fell back to the default label, by reason",
		},
		[]string{"reason"},
	)

	TierHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_match_tier_total",
			Help: "Which retrieval tier produced the matches",
		},
		[]string{"tier"},
	)

	TierErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_match_tier_errors_total",
			Help: "Retrieval tier queries that failed and were skipped",
		},
		[]string{"tier"},
	)

	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmatch_model_loaded",
			Help: "1 when an inference model is loaded, 0 otherwise",
		},
	)

	ModelLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_model_loads_total",
			Help: "Model load attempts by result",
		},
		[]string{"result"},
	)

	ContractFallback = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moodmatch_model_contract_fallback",
			Help: "1 when the loaded model's input shape was not recognised and the default layout is used",
		},
	)

	ScanRecordsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodmatch_scan_records_published_total",
			Help: "Scan records handed to the broker by result",
		},
		[]string{"result"},
	)
)

func RecordScan(outcome string, elapsed time.Duration) {
	ScansTotal.WithLabelValues(outcome).Inc()
	ScanDuration.Observe(elapsed.Seconds())
}

func SetModelLoaded(loaded bool) {
	ModelLoaded.Set(boolGauge(loaded))
}

func SetContractFallback(fallback bool) {
	ContractFallback.Set(boolGauge(fallback))
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
