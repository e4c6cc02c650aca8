// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts sign-in outcomes. A nil *Metrics records nothing.
type Metrics struct {
	signIns *prometheus.CounterVec
}

// NewMetrics registers the sign-in collectors on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		signIns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hushnote",
			Subsystem: "auth",
			Name:      "signin_total",
			Help:      "Credential sign-in attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (metrics *Metrics) observe(outcome string) {
	if metrics == nil {
		return
	}
	metrics.signIns.WithLabelValues(outcome).Inc()
}
