// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barulogix_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "barulogix_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	packagesImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barulogix_delivery_packages_imported_total",
		Help: "Packages seen by bulk import, by outcome",
	}, []string{"type", "outcome"})

	statusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barulogix_delivery_status_updates_total",
		Help: "Deliveries moved to a status by bulk update",
	}, []string{"status"})

	deliveriesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barulogix_deliveries_deleted_total",
		Help: "Deliveries removed by bulk delete or conductor cascade",
	})

	conductorsDeactivated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barulogix_conductors_deactivated_total",
		Help: "Conductors soft-deleted, by cascade mode",
	}, []string{"cascade"})
)

const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveImport(deliveryType string, created, duplicates, errors int) {
	packagesImported.WithLabelValues(deliveryType, OutcomeCreated).Add(float64(created))
	packagesImported.WithLabelValues(deliveryType, OutcomeDuplicate).Add(float64(duplicates))
	packagesImported.WithLabelValues(deliveryType, OutcomeError).Add(float64(errors))
}

func ObserveStatusUpdate(status int, updated int64) {
	statusUpdates.WithLabelValues(strconv.Itoa(status)).Add(float64(updated))
}

func ObserveDeliveriesDeleted(n int64) {
	deliveriesDeleted.Add(float64(n))
}

func ObserveConductorDeactivated(cascade bool) {
	conductorsDeactivated.WithLabelValues(strconv.FormatBool(cascade)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
