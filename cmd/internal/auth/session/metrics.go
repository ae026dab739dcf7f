package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tally",
		Subsystem: "session",
		Name:      "issued_total",
		Help:      "Sessions created.",
	})

	// result: active | renewed | expired | miss
	metricValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tally",
		Subsystem: "session",
		Name:      "validations_total",
		Help:      "Session validations by outcome.",
	}, []string{"result"})

	metricSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tally",
		Subsystem: "session",
		Name:      "swept_total",
		Help:      "Expired sessions removed by the sweeper.",
	})
)
