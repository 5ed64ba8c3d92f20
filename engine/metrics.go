package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	CurvesCreated     prometheus.Counter
	TradesTotal       *prometheus.CounterVec
	TradeVolume       *prometheus.CounterVec
	FeesCollected     prometheus.Counter
	CurvesCompleted   prometheus.Counter
	Migrations        prometheus.Counter
	InvariantFailures *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. A nil reg leaves them unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CurvesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "created_total",
			Help:      "Total number of bonding curves created",
		}),
		TradesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "trades_total",
			Help:      "Total number of trades by direction and status",
		}, []string{"direction", "status"}),
		TradeVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "trade_volume_lamports_total",
			Help:      "Lamports moved through the curves before fees",
		}, []string{"direction"}),
		FeesCollected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "fees_lamports_total",
			Help:      "Trading fees paid to the fee receiver",
		}),
		CurvesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "completed_total",
			Help:      "Total number of bonding curves that sold out",
		}),
		Migrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "migrations_total",
			Help:      "Total number of completed curves handed to the pool",
		}),
		InvariantFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "curve",
			Name:      "invariant_failures_total",
			Help:      "Invariant check failures by invariant",
		}, []string{"invariant"}),
	}
}
