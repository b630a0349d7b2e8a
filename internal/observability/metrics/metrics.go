package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for scheduling decisions
// and persistence round trips.
type SchedulingMetrics struct {
	decisionsTotal *prometheus.CounterVec
	cascadeDeletes *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apptbook",
			Subsystem: "scheduling",
			Name:      "decisions_total",
			Help:      "Validation decisions by outcome and rejection reason",
		}, []string{"operation", "outcome", "reason"}),
		cascadeDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apptbook",
			Subsystem: "customers",
			Name:      "cascade_deletes_total",
			Help:      "Customer cascade deletions by result",
		}, []string{"result"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apptbook",
			Subsystem: "store",
			Name:      "operation_seconds",
			Help:      "Latency of persistence boundary operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.decisionsTotal, m.cascadeDeletes, m.storeLatency)
	return m
}

func (m *SchedulingMetrics) ObserveDecision(operation string, accepted bool, reason string) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	} else {
		reason = ""
	}
	m.decisionsTotal.WithLabelValues(operation, outcome, reason).Inc()
}

func (m *SchedulingMetrics) ObserveCascadeDelete(succeeded bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !succeeded {
		result = "failed"
	}
	m.cascadeDeletes.WithLabelValues(result).Inc()
}

func (m *SchedulingMetrics) ObserveStoreLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(operation).Observe(seconds)
}
