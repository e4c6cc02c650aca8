// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// # Prometheus Instrumentation

// MetricsNamespace prefixes every metric exported by the server.
const MetricsNamespace = "hushnote"

// Metrics holds the HTTP-level Prometheus collectors.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	guardDecisions  *prometheus.CounterVec
}

// NewMetrics registers the HTTP collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		guardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "route_guard",
			Name:      "decisions_total",
			Help:      "Route guard outcomes for guarded page requests",
		}, []string{"action"}),
	}
}

// Instrument records request latency labelled by the matched chi route pattern.
func (metrics *Metrics) Instrument(next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		recorder := wrapWriter(writer, request)

		next.ServeHTTP(recorder, request)

		// Use the route pattern rather than the raw path to bound label cardinality.
		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.requestDuration.
			WithLabelValues(request.Method, route, strconv.Itoa(statusOf(recorder))).
			Observe(time.Since(startTime).Seconds())
	})
}

func (metrics *Metrics) observeGuard(action GuardAction) {
	if metrics == nil {
		return
	}
	metrics.guardDecisions.WithLabelValues(string(action)).Inc()
}
