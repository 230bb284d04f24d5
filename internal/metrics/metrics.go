// Package metrics records generation statistics with prometheus. pwgen is a
// one-shot process, so metrics are exported through the node_exporter
// textfile collector instead of an HTTP endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/pwgen"
)

// Recorder holds the pwgen metrics in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	generatedTotal  *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	entropyBits     *prometheus.HistogramVec
	drawsTotal      prometheus.Counter
	rejectionsTotal prometheus.Counter
	arenaBytes      prometheus.Gauge
	arenaLocked     prometheus.Gauge
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		generatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pwgen_secrets_generated_total",
				Help: "Total number of secrets generated",
			},
			[]string{"strategy", "backend"},
		),
		failuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pwgen_generation_failures_total",
				Help: "Total number of failed generation requests by error kind",
			},
			[]string{"strategy", "kind"},
		),
		entropyBits: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pwgen_secret_entropy_bits",
				Help:    "Estimated entropy of generated secrets in bits",
				Buckets: []float64{32, 64, 80, 96, 128, 192, 256, 512},
			},
			[]string{"strategy"},
		),
		drawsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pwgen_random_draws_total",
			Help: "Total number of fill calls made against the random number generator",
		}),
		rejectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "pwgen_rejected_draws_total",
			Help: "Total number of draws discarded by rejection sampling",
		}),
		arenaBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pwgen_arena_bytes",
			Help: "Usable size of the secure arena in bytes",
		}),
		arenaLocked: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pwgen_arena_locked",
			Help: "Whether the secure arena is locked in memory (1=locked, 0=may swap)",
		}),
	}
}

// RecordArena records the arena size and lock state.
func (r *Recorder) RecordArena(size int, locked bool) {
	r.arenaBytes.Set(float64(size))
	if locked {
		r.arenaLocked.Set(1)
	} else {
		r.arenaLocked.Set(0)
	}
}

// RecordGeneration records a successful generation.
func (r *Recorder) RecordGeneration(strategy pwgen.Strategy, backend string, entropy float64) {
	r.generatedTotal.WithLabelValues(strategy.String(), backend).Inc()
	r.entropyBits.WithLabelValues(strategy.String()).Observe(entropy)
}

// RecordStats adds the engine draw counters.
func (r *Recorder) RecordStats(stats pwgen.Stats) {
	r.drawsTotal.Add(float64(stats.Draws))
	r.rejectionsTotal.Add(float64(stats.Rejections))
}

// RecordFailure records a failed generation by error kind.
func (r *Recorder) RecordFailure(strategy pwgen.Strategy, err error) {
	r.failuresTotal.WithLabelValues(strategy.String(), pwerrors.KindOf(err).String()).Inc()
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format, atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
