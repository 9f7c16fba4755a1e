package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sleepcoach_evaluation_duration_seconds",
			Help:    "Diagnostic evaluation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)

	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleepcoach_evaluations_total",
			Help: "Total diagnostic evaluations by overall status",
		},
		[]string{"overall_status"},
	)

	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleepcoach_alerts_total",
			Help: "Total alerts emitted by group and severity",
		},
		[]string{"group", "severity"},
	)

	GroupStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleepcoach_group_status_total",
			Help: "Group validation outcomes by group and status",
		},
		[]string{"group", "status"},
	)

	ClassifierCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleepcoach_classifier_calls_total",
			Help: "Food classifier outcomes",
		},
		[]string{"outcome"},
	)

	ReportsStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sleepcoach_reports_stored_total",
			Help: "Diagnostic reports persisted to history",
		},
	)

	WebsocketSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sleepcoach_websocket_sessions",
			Help: "Open diagnostic websocket sessions",
		},
	)
)

func Init() {
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(EvaluationsTotal)
	prometheus.MustRegister(AlertsTotal)
	prometheus.MustRegister(GroupStatus)
	prometheus.MustRegister(ClassifierCalls)
	prometheus.MustRegister(ReportsStored)
	prometheus.MustRegister(WebsocketSessions)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
