package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResultsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artsfest_results_recorded_total",
			Help: "Results written, by kind of write",
		},
		[]string{"kind"},
	)

	PointsAwarded = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artsfest_points_awarded",
			Help:    "Distribution of points awarded per result",
			Buckets: prometheus.LinearBuckets(0, 5, 5),
		},
		[]string{"grade_tier"},
	)

	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artsfest_registrations_total",
			Help: "Registration commands, by outcome",
		},
		[]string{"action"},
	)

	StandingsBroadcasts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "artsfest_standings_broadcasts_total",
			Help: "Standings update messages sent to live clients",
		},
	)

	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "artsfest_live_clients",
			Help: "Currently connected websocket clients",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
