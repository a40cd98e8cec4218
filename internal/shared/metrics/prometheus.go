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
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	predictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_predictions_total",
			Help: "Total number of served disease predictions",
		},
	)

	emptyInputTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_empty_input_total",
			Help: "Total number of predict requests rejected for empty input",
		},
	)

	unknownSymptomsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_unknown_symptoms_total",
			Help: "Total number of input symptoms dropped as out-of-vocabulary",
		},
	)

	appointmentsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_booked_total",
			Help: "Total number of appointments booked",
		},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"status"},
	)
)

// RecordPrediction counts one served prediction.
func RecordPrediction() { predictionsTotal.Inc() }

// RecordEmptyInput counts one rejected empty predict request.
func RecordEmptyInput() { emptyInputTotal.Inc() }

// RecordUnknownSymptoms counts dropped out-of-vocabulary input tokens.
func RecordUnknownSymptoms(n int) { unknownSymptomsTotal.Add(float64(n)) }

// RecordAppointmentBooked counts one booked appointment.
func RecordAppointmentBooked() { appointmentsBooked.Inc() }

// RecordNotification counts one notification dispatch attempt by outcome.
func RecordNotification(status string) { notificationsSent.WithLabelValues(status).Inc() }

// Middleware collects HTTP metrics for every request
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the prometheus exposition endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
