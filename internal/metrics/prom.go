// Package metrics centralises Prometheus metric registration for the
// maowbot control plane. It exposes typed collectors so that code can remain
// import-cycle-free. The package registers with the global
// prometheus.DefaultRegisterer, exposed via the /metrics HTTP handler in
// cmd/maowbotd.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// EventBusDroppedTotal counts events dropped due to a full subscriber
	// buffer (lossy overflow, see internal/eventbus).
	EventBusDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "maowbot",
		Subsystem: "eventbus",
		Name:      "dropped_total",
		Help:      "Total number of events dropped due to subscriber buffer overflow.",
	})

	// PipelineExecutionsTotal counts pipeline executions by outcome.
	PipelineExecutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "maowbot",
		Subsystem: "pipeline",
		Name:      "executions_total",
		Help:      "Total number of pipeline executions, labeled by outcome.",
	}, []string{"outcome"})

	// CredentialRefreshTotal counts refresh attempts by platform and result.
	CredentialRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "maowbot",
		Subsystem: "credential",
		Name:      "refresh_total",
		Help:      "Total number of credential refresh attempts, labeled by platform and result.",
	}, []string{"platform", "result"})

	// PluginSessions gauges the number of currently connected plugin
	// sessions.
	PluginSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "maowbot",
		Subsystem: "plugin",
		Name:      "sessions",
		Help:      "Current number of active plugin sessions.",
	})
)

// Register exports all metrics; safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			EventBusDroppedTotal,
			PipelineExecutionsTotal,
			CredentialRefreshTotal,
			PluginSessions,
		)
	})
}
