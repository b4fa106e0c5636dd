package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satsang_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Content Metrics
	ContentAddsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_content_adds_total",
			Help: "Total number of content add operations",
		},
		[]string{"kind", "outcome"},
	)

	ContentRemovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_content_removes_total",
			Help: "Total number of content remove operations",
		},
		[]string{"kind"},
	)

	ContentLibrarySize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "satsang_content_library_size",
			Help: "Number of records currently cached per content kind",
		},
		[]string{"kind"},
	)

	// OTP Metrics
	OTPSendsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "satsang_otp_sends_total",
			Help: "Total number of OTP codes issued",
		},
	)

	OTPVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_otp_verifications_total",
			Help: "Total number of OTP verification attempts",
		},
		[]string{"outcome"},
	)

	OTPExpiredPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "satsang_otp_expired_purged_total",
			Help: "Total number of expired OTP records purged",
		},
	)

	// Queue Metrics
	QueuePublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_queue_publishes_total",
			Help: "Total number of events published to the queue",
		},
		[]string{"status"},
	)

	// Push Metrics
	PushDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_push_deliveries_total",
			Help: "Total number of push notification deliveries",
		},
		[]string{"status"},
	)

	// Backup Metrics
	BackupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_backup_runs_total",
			Help: "Total number of content backup runs",
		},
		[]string{"status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satsang_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordContentAdd records a content add operation
func RecordContentAdd(kind, outcome string) {
	ContentAddsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordContentRemove records a content remove operation
func RecordContentRemove(kind string) {
	ContentRemovesTotal.WithLabelValues(kind).Inc()
}

// UpdateLibrarySize updates the cached record count for a kind
func UpdateLibrarySize(kind string, size int) {
	ContentLibrarySize.WithLabelValues(kind).Set(float64(size))
}

// RecordOTPSend records an issued OTP code
func RecordOTPSend() {
	OTPSendsTotal.Inc()
}

// RecordOTPVerification records a verification attempt outcome
func RecordOTPVerification(outcome string) {
	OTPVerificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordOTPPurged records purged expired OTP records
func RecordOTPPurged(count int) {
	OTPExpiredPurgedTotal.Add(float64(count))
}

// RecordQueuePublish records a queue publish attempt
func RecordQueuePublish(status string) {
	QueuePublishesTotal.WithLabelValues(status).Inc()
}

// RecordPushDelivery records a push notification delivery attempt
func RecordPushDelivery(status string) {
	PushDeliveriesTotal.WithLabelValues(status).Inc()
}

// RecordBackupRun records a backup run outcome
func RecordBackupRun(status string) {
	BackupRunsTotal.WithLabelValues(status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
