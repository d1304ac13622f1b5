package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the slice of the collector the services depend on.
type Recorder interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordRegistration()
	RecordPasswordResetRequested()
	RecordPasswordResetCompleted()
	RecordRateLimitRejection(scope string)
}

// Collector gathers request and auth flow metrics into a Prometheus
// registry.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	loginSuccess   prometheus.Counter
	loginFailure   prometheus.Counter
	registrations  prometheus.Counter
	resetRequested prometheus.Counter
	resetCompleted prometheus.Counter
	rateLimited    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkit_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authkit_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authkit_login_success_total",
			Help: "Successful logins.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authkit_login_failure_total",
			Help: "Failed login attempts.",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authkit_registrations_total",
			Help: "Completed registrations.",
		}),
		resetRequested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authkit_password_reset_requested_total",
			Help: "Password reset requests accepted.",
		}),
		resetCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authkit_password_reset_completed_total",
			Help: "Password resets completed.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkit_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by scope.",
		}, []string{"scope"}),
	}

	reg.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.loginSuccess,
		c.loginFailure,
		c.registrations,
		c.resetRequested,
		c.resetCompleted,
		c.rateLimited,
	)

	return c
}

func (c *Collector) RecordLoginSuccess()            { c.loginSuccess.Inc() }
func (c *Collector) RecordLoginFailure()            { c.loginFailure.Inc() }
func (c *Collector) RecordRegistration()            { c.registrations.Inc() }
func (c *Collector) RecordPasswordResetRequested()  { c.resetRequested.Inc() }
func (c *Collector) RecordPasswordResetCompleted()  { c.resetCompleted.Inc() }
func (c *Collector) RecordRateLimitRejection(scope string) {
	c.rateLimited.WithLabelValues(scope).Inc()
}

// RecordRequest records one finished HTTP request.
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the scrape endpoint handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
