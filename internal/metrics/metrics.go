// Package metrics provides Prometheus metrics for the tour booking service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes recorded by RecordBooking.
const (
	ResultBooked    = "booked"
	ResultExhausted = "exhausted"
	ResultNotFound  = "not_found"
	ResultInvalid   = "invalid"
	ResultError     = "error"
)

// Manager owns every collector of the service and the registry they live
// in.
type Manager struct {
	registry *prometheus.Registry

	bookings        *prometheus.CounterVec
	bookingLatency  prometheus.Histogram
	seatsBooked     prometheus.Counter
	eventsPublished *prometheus.CounterVec

	demoSessions prometheus.Gauge
	demoMessages *prometheus.CounterVec

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager registers the collectors on a fresh registry.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	const ns = "aerial"

	return &Manager{
		registry: reg,
		bookings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "booking", Name: "requests_total",
			Help: "Booking attempts by outcome.",
		}, []string{"result"}),
		bookingLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "booking", Name: "duration_seconds",
			Help:    "Time spent in the booking transaction.",
			Buckets: prometheus.DefBuckets,
		}),
		seatsBooked: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "booking", Name: "seats_decremented_total",
			Help: "Seats taken from tour inventory.",
		}),
		eventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "events", Name: "published_total",
			Help: "booking.created events by publish result.",
		}, []string{"result"}),
		demoSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: "demo", Name: "sessions_active",
			Help: "Open demo viewer sessions.",
		}),
		demoMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "demo", Name: "messages_total",
			Help: "Demo session messages by type.",
		}, []string{"type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordBooking counts one booking attempt.  seats is only added on
// success.
func (m *Manager) RecordBooking(result string, seats int, d time.Duration) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(result).Inc()
	m.bookingLatency.Observe(d.Seconds())
	if result == ResultBooked && seats > 0 {
		m.seatsBooked.Add(float64(seats))
	}
}

func (m *Manager) RecordPublish(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.eventsPublished.WithLabelValues("error").Inc()
		return
	}
	m.eventsPublished.WithLabelValues("ok").Inc()
}

func (m *Manager) DemoSessionOpened() {
	if m != nil {
		m.demoSessions.Inc()
	}
}

func (m *Manager) DemoSessionClosed() {
	if m != nil {
		m.demoSessions.Dec()
	}
}

func (m *Manager) RecordDemoMessage(kind string) {
	if m != nil {
		m.demoMessages.WithLabelValues(kind).Inc()
	}
}

// RecordHTTP observes one served request.
func (m *Manager) RecordHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// BookingCounter returns the counter for one booking outcome.
func (m *Manager) BookingCounter(result string) prometheus.Counter {
	return m.bookings.WithLabelValues(result)
}

// PublishCounter returns the counter for one publish result ("ok" or
// "error").
func (m *Manager) PublishCounter(result string) prometheus.Counter {
	return m.eventsPublished.WithLabelValues(result)
}

// HTTPCounter returns the request counter for one method, route and status.
func (m *Manager) HTTPCounter(method, route string, status int) prometheus.Counter {
	return m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status))
}

// DemoSessionsGauge returns the open demo session gauge.
func (m *Manager) DemoSessionsGauge() prometheus.Gauge { return m.demoSessions }

// DemoMessageCounter returns the counter for one demo message type.
func (m *Manager) DemoMessageCounter(kind string) prometheus.Counter {
	return m.demoMessages.WithLabelValues(kind)
}
