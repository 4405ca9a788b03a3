package orchestrator

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors reporting orchestrator activity.
type Metrics struct {
	activitiesTotal *prometheus.CounterVec
	pointsTotal     prometheus.Counter
	integratedScore prometheus.Gauge
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// defaultMetrics returns the package-level metrics instance registered with
// the global Prometheus registry. The collectors are created only once to
// avoid duplicate registration panics when the orchestrator is instantiated
// multiple times.
func defaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Tests supply a fresh registry when isolated metric names are required. Any
// registration error panics, surfacing configuration bugs early.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	activitiesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sattva",
			Subsystem: "orchestrator",
			Name:      "activities_total",
			Help:      "Total activities applied to the coherence vector.",
		},
		[]string{"kind", "tool"},
	)
	pointsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sattva",
			Subsystem: "orchestrator",
			Name:      "points_awarded_total",
			Help:      "Total coherence points awarded.",
		},
	)
	integratedScore := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sattva",
			Subsystem: "orchestrator",
			Name:      "integrated_score",
			Help:      "Integrated coherence score after the last applied activity.",
		},
	)
	for _, c := range []prometheus.Collector{activitiesTotal, pointsTotal, integratedScore} {
		if err := reg.Register(c); err != nil {
			panic(err)
		}
	}
	return &Metrics{
		activitiesTotal: activitiesTotal,
		pointsTotal:     pointsTotal,
		integratedScore: integratedScore,
	}
}

// ObserveActivity records one applied activity and its point award.
func (m *Metrics) ObserveActivity(kind, tool string, points int) {
	if tool == "" {
		tool = "none"
	}
	m.activitiesTotal.WithLabelValues(kind, tool).Inc()
	m.pointsTotal.Add(float64(points))
}

// SetScore publishes the current integrated score.
func (m *Metrics) SetScore(score int) {
	m.integratedScore.Set(float64(score))
}
