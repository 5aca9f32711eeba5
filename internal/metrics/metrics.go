package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caja_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caja_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	MovementsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caja_movements_recorded_total",
		Help: "Register movements recorded by type",
	}, []string{"type"})

	RegistersClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "caja_registers_closed_total",
		Help: "Daily registers closed, by trigger (manual or sweep)",
	}, []string{"trigger"})

	InstallmentsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caja_installments_paid_total",
		Help: "Credit installments marked paid",
	})

	OverdueSweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caja_overdue_sweep_runs_total",
		Help: "Completed overdue-installment sweeps",
	})
)
