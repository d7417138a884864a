package factcheck

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_verifications_total",
		Help: "Verifications by outcome (true, false, inconclusive, invalid, error).",
	}, []string{"outcome"})

	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "factcheck_fetches_total",
		Help: "Source page retrievals by status.",
	}, []string{"status"})

	verificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "factcheck_verification_duration_seconds",
		Help:    "Wall-clock time of a verification, search to verdict.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})
)
