package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the registry served on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Custom histogram buckets for API response times. The submit endpoint
	// includes the artificial save delay so buckets reach a few seconds.
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics
	DBRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Form store metrics
	FormStoreOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "form_store_operation_duration_seconds",
			Help:    "Form session store operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"store", "operation", "status"},
	)

	FormStoreSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "form_store_entries",
			Help: "Number of open form sessions held in memory",
		},
		[]string{"store"},
	)

	// Business Metrics
	ExecutivesCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_executives_created_total",
			Help: "Total executive step submissions",
		},
		[]string{"status"},
	)

	CounselorFormsOpened = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "onboarding_counselor_forms_opened_total",
			Help: "Total number of counselor forms opened",
		},
	)

	CounselorFormEdits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_counselor_form_edits_total",
			Help: "Total number of counselor form field edits",
		},
		[]string{"field"},
	)

	CounselorFormSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_counselor_form_submissions_total",
			Help: "Total number of counselor form submit attempts by outcome",
		},
		[]string{"status"},
	)

	CounselorValidationFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_counselor_validation_failures_total",
			Help: "Field validation failures by field",
		},
		[]string{"field"},
	)

	TriggerCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_trigger_calls_total",
			Help: "Total number of outgoing trigger webhook calls",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)

	serviceInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "onboarding_service_info",
			Help: "Static service information",
		},
		[]string{"service_name"},
	)
)

// Init registers the runtime collectors and publishes the service info gauge
func Init(serviceName string) {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	serviceInfo.WithLabelValues(serviceName).Set(1)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
// until stop is closed
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
