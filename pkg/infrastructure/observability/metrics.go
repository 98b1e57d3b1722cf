package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Warm-start transfer outcomes recorded on the collector
const (
	OutcomeApplied    = "applied"
	OutcomeLowQuality = "low_quality"
	OutcomeRejected   = "rejected"
)

// Collector bundles the planner's Prometheus metrics: solve outcomes and
// durations, warm-start transfer outcomes, and index/model cardinalities.
type Collector struct {
	Solves             *prometheus.CounterVec
	SolveDuration      prometheus.Histogram
	WarmstartTransfers *prometheus.CounterVec
	IndexBuildDuration prometheus.Histogram

	IndexCohorts     prometheus.Gauge
	IndexShipments   prometheus.Gauge
	IndexAllocations prometheus.Gauge
	ModelVariables   prometheus.Gauge
	ModelConstraints prometheus.Gauge
}

// NewCollector registers planner metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		Solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_solves_total",
			Help: "Solver calls by phase and resulting status.",
		}, []string{"phase", "status"}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_solve_duration_seconds",
			Help:    "Wall-clock duration of solver calls.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		WarmstartTransfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_warmstart_transfers_total",
			Help: "Warm-start transfers by outcome (applied, low_quality, rejected).",
		}, []string{"outcome"}),
		IndexBuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_index_build_duration_seconds",
			Help:    "Duration of sparse cohort index construction.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		IndexCohorts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_index_cohorts",
			Help: "Inventory cohort tuples in the current index.",
		}),
		IndexShipments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_index_shipments",
			Help: "Shipment tuples in the current index.",
		}),
		IndexAllocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_index_allocations",
			Help: "Demand allocation tuples in the current index.",
		}),
		ModelVariables: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_model_variables",
			Help: "Variables declared by the most recent assembly.",
		}),
		ModelConstraints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "planner_model_constraints",
			Help: "Constraints built by the most recent assembly.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.Solves, c.SolveDuration, c.WarmstartTransfers, c.IndexBuildDuration,
		c.IndexCohorts, c.IndexShipments, c.IndexAllocations,
		c.ModelVariables, c.ModelConstraints,
	} {
		if err := reg.Register(col); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}

	return c, nil
}

// Nop returns a collector wired to a throwaway registry, for callers that do
// not export metrics
func Nop() *Collector {
	c, _ := NewCollector(prometheus.NewRegistry())
	return c
}

// ObserveSolve records one solver call
func (c *Collector) ObserveSolve(phase, status string, d time.Duration) {
	c.Solves.WithLabelValues(phase, status).Inc()
	c.SolveDuration.Observe(d.Seconds())
}

// ObserveWarmstart records one warm-start transfer outcome
func (c *Collector) ObserveWarmstart(outcome string) {
	c.WarmstartTransfers.WithLabelValues(outcome).Inc()
}
