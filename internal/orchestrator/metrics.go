package orchestrator

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage labels for the pipeline collectors.
const (
	stagePlan    = "plan"
	stageExecute = "execute"
	stageFormat  = "format"
)

// Metrics exposes Prometheus collectors that report pipeline activity.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	turnsActive   prometheus.Gauge
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// defaultMetrics returns the package-level metrics instance registered with
// the global Prometheus registry. The collectors are created only once to
// avoid duplicate registration panics when the orchestrator is instantiated
// multiple times (e.g. in unit tests).
func defaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Supply a fresh registry when unique metric names are required (for example
// in tests). Registration errors panic, mirroring promauto semantics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yolearn",
			Subsystem: "orchestrator",
			Name:      "turn_stage_duration_seconds",
			Help:      "Duration spent in each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage", "status"},
	)
	stageFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yolearn",
			Subsystem: "orchestrator",
			Name:      "turn_stage_failures_total",
			Help:      "Total number of stage executions that failed for the turn.",
		},
		[]string{"stage", "reason"},
	)
	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yolearn",
			Subsystem: "orchestrator",
			Name:      "plan_fallbacks_total",
			Help:      "Number of turns planned by the heuristic fallback.",
		},
		[]string{"reason"},
	)
	turnsActive := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "yolearn",
			Subsystem: "orchestrator",
			Name:      "turns_active",
			Help:      "Number of turns currently in the pipeline.",
		},
	)

	collectors := []prometheus.Collector{stageDuration, stageFailures, fallbacks, turnsActive}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				switch target := collector.(type) {
				case *prometheus.HistogramVec:
					stageDuration = already.ExistingCollector.(*prometheus.HistogramVec)
				case *prometheus.CounterVec:
					switch target { //nolint:exhaustive
					case stageFailures:
						stageFailures = already.ExistingCollector.(*prometheus.CounterVec)
					case fallbacks:
						fallbacks = already.ExistingCollector.(*prometheus.CounterVec)
					}
				case prometheus.Gauge:
					turnsActive = already.ExistingCollector.(prometheus.Gauge)
				}
				continue
			}
			panic(err)
		}
	}

	return &Metrics{
		stageDuration: stageDuration,
		stageFailures: stageFailures,
		fallbacks:     fallbacks,
		turnsActive:   turnsActive,
	}
}

// ObserveStageDuration records the time spent in a stage with the resulting status label.
func (m *Metrics) ObserveStageDuration(stage string, status string, duration time.Duration) {
	if m == nil || m.stageDuration == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

// IncStageFailure increments the failure counter for the given stage and reason.
func (m *Metrics) IncStageFailure(stage string, reason string) {
	if m == nil || m.stageFailures == nil {
		return
	}
	m.stageFailures.WithLabelValues(stage, reason).Inc()
}

// IncFallback increments the fallback counter with the triggering reason.
func (m *Metrics) IncFallback(reason string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

// IncActiveTurns marks a turn as entering the pipeline.
func (m *Metrics) IncActiveTurns() {
	if m == nil || m.turnsActive == nil {
		return
	}
	m.turnsActive.Inc()
}

// DecActiveTurns marks a turn as finished.
func (m *Metrics) DecActiveTurns() {
	if m == nil || m.turnsActive == nil {
		return
	}
	m.turnsActive.Dec()
}
