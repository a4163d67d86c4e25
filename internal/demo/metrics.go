package demo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts completed requests by route and status.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "baggage_demo",
		Name:      "requests_total",
		Help:      "Completed HTTP requests.",
	}, []string{"route", "status"})

	// todoBagsTotal counts placeholder bags created by request
	// handlers. A non-zero value in production means some code path is
	// not threading baggage properly.
	todoBagsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "baggage_demo",
		Name:      "todo_bags_total",
		Help:      "Placeholder (TODO) baggage bags created.",
	})
)
