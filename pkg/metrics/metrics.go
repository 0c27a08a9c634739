// Package metrics holds the Prometheus collectors for the portfolio backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ContactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "contact_submissions_total",
		Help:      "Contact form submissions received by the backend, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	EmailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "portfolio",
		Name:      "email_send_duration_seconds",
		Help:      "Latency of email provider calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "result"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	ClientSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portfolio",
		Name:      "contact_client_submissions_total",
		Help:      "Contact form submit attempts made by the form controller, by backend and outcome.",
	}, []string{"backend", "outcome"})
)

func init() {
	prometheus.MustRegister(ContactSubmissions, EmailSendDuration, HTTPRequests, ClientSubmissions)
}

// ObserveEmailSend records one provider call.
func ObserveEmailSend(kind string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EmailSendDuration.WithLabelValues(kind, result).Observe(elapsed.Seconds())
}
