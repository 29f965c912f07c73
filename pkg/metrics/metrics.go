package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	PatientsCreatedTotal     prometheus.Counter
	AppointmentsCreatedTotal prometheus.Counter
	TransitionsTotal         *prometheus.CounterVec

	ImportRecordsTotal *prometheus.CounterVec
	ExportsTotal       prometheus.Counter
	WipesTotal         prometheus.Counter

	StorageErrorsTotal prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		PatientsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "patients_created_total",
			Help:      "Total number of patient records created.",
		}),

		AppointmentsCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "appointments_created_total",
			Help:      "Total number of appointments scheduled.",
		}),

		TransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions by target status.",
		}, []string{"to"}),

		ImportRecordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "transfer",
			Name:      "import_records_total",
			Help:      "Imported records by collection and outcome (success, duplicate, invalid).",
		}, []string{"collection", "outcome"}),

		ExportsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "transfer",
			Name:      "exports_total",
			Help:      "Total number of export operations.",
		}),

		WipesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "transfer",
			Name:      "wipes_total",
			Help:      "Total number of clear-all operations.",
		}),

		StorageErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Storage operations that returned an error.",
		}),
	}
}
