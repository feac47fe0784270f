package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubeagent_queries_total",
			Help: "Total queries by terminal outcome",
		},
		[]string{"outcome"},
	)

	OracleCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubeagent_oracle_calls_total",
			Help: "Total oracle decision calls",
		},
		[]string{"result"},
	)

	OracleCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kubeagent_oracle_call_duration_seconds",
			Help:    "Duration of oracle decision calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	InvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubeagent_invocations_total",
			Help: "Total dynamic cluster API invocations",
		},
		[]string{"surface", "operation", "result"},
	)

	LogFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kubeagent_log_fetches_total",
			Help: "Total pod log fetches from log plans",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		QueriesTotal,
		OracleCallsTotal,
		OracleCallDuration,
		InvocationsTotal,
		LogFetchesTotal,
	)
}
