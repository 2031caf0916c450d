// Package metrics holds Prometheus instruments for the contact pipeline.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact submissions received, by outcome (accepted, invalid, malformed, duplicate, error).",
		}, []string{"outcome"})

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_validation_failures_total",
			Help: "Field-level validation failures, by field.",
		}, []string{"field"})

	ActionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_action_errors_total",
			Help: "Post-submit action failures, by action.",
		}, []string{"action"})

	RelayDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_relay_deliveries_total",
			Help: "Relay webhook deliveries, by result (ok, failed, dropped).",
		}, []string{"result"})

	RelayQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_relay_queue_depth",
			Help: "Relay jobs waiting for a worker.",
		})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		ValidationFailuresTotal,
		ActionErrorsTotal,
		RelayDeliveriesTotal,
		RelayQueueDepth,
	)
}
