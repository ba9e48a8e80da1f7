package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MarathonsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "marathonhub_marathons_created_total", Help: "Total marathons created"},
	)
	MarathonsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "marathonhub_marathons_deleted_total", Help: "Total marathons deleted"},
	)
	RegistrationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "marathonhub_registrations_created_total", Help: "Total registrations created"},
	)
	RegistrationsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "marathonhub_registrations_deleted_total", Help: "Total registrations deleted, including cascades"},
	)
	RegistrationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "marathonhub_registration_conflicts_total", Help: "Total rejected duplicate registrations"},
	)
	StorageBackend = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "marathonhub_storage_backend", Help: "Storage backend serving the process (1 = active)"},
		[]string{"backend"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marathonhub_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func Register() {
	prometheus.MustRegister(
		MarathonsCreated,
		MarathonsDeleted,
		RegistrationsCreated,
		RegistrationsDeleted,
		RegistrationConflicts,
		StorageBackend,
		HTTPRequestDuration,
	)
}
