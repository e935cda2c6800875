package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	promotionRunsTotal     *prometheus.CounterVec
	studentsPromotedTotal  *prometheus.CounterVec
	studentsGraduatedTotal *prometheus.CounterVec
	attendanceMarkedTotal  *prometheus.CounterVec
	notificationsQueued    *prometheus.CounterVec
	absenteeCacheTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rollcall_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		promotionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_promotion_runs_total",
			Help: "Total number of semester promotion runs, by stream and outcome.",
		}, []string{"stream", "result"})

		studentsPromotedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_students_promoted_total",
			Help: "Total number of students moved up a semester.",
		}, []string{"stream"})

		studentsGraduatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_students_graduated_total",
			Help: "Total number of students graduated out of the terminal semester.",
		}, []string{"stream"})

		attendanceMarkedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_attendance_marked_total",
			Help: "Total number of attendance rows written.",
		}, []string{"stream"})

		notificationsQueued = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_notifications_queued_total",
			Help: "Total number of absentee notifications queued for delivery.",
		}, []string{"stream"})

		absenteeCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_absentee_cache_total",
			Help: "Absentee report cache lookups by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			promotionRunsTotal,
			studentsPromotedTotal,
			studentsGraduatedTotal,
			attendanceMarkedTotal,
			notificationsQueued,
			absenteeCacheTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the request latency histogram.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// PromotionRuns exposes the promotion run counter.
func PromotionRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return promotionRunsTotal
}

// StudentsPromoted exposes the promoted-student counter.
func StudentsPromoted() *prometheus.CounterVec {
	RegisterMetrics()
	return studentsPromotedTotal
}

// StudentsGraduated exposes the graduated-student counter.
func StudentsGraduated() *prometheus.CounterVec {
	RegisterMetrics()
	return studentsGraduatedTotal
}

// AttendanceMarked exposes the attendance row counter.
func AttendanceMarked() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceMarkedTotal
}

// NotificationsQueued exposes the queued-notification counter.
func NotificationsQueued() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsQueued
}

// AbsenteeCache exposes the absentee cache outcome counter.
func AbsenteeCache() *prometheus.CounterVec {
	RegisterMetrics()
	return absenteeCacheTotal
}
