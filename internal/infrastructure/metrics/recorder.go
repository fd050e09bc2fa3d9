// Package metrics exposes quiz counters to Prometheus.
package metrics

import (
	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "vocquiz"

// Recorder counts served rounds and checked answers on its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	rounds    *prometheus.CounterVec
	fallbacks prometheus.Counter
	answers   *prometheus.CounterVec
}

// NewRecorder creates a recorder with a fresh registry that also carries the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Quiz rounds served, by word source.",
		}, []string{"source"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "round_fallbacks_total",
			Help:      "Rounds served from the built-in word list after a source failure.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Checked answers, by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		r.rounds,
		r.fallbacks,
		r.answers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry to expose over HTTP.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RoundServed counts a round produced by source.
func (r *Recorder) RoundServed(source entity.SourceKind) {
	r.rounds.WithLabelValues(source.String()).Inc()
}

// RoundFallback counts a round served from the built-in list.
func (r *Recorder) RoundFallback() {
	r.rounds.WithLabelValues(entity.SourceFallback.String()).Inc()
	r.fallbacks.Inc()
}

// AnswerRecorded counts a checked answer.
func (r *Recorder) AnswerRecorded(correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	r.answers.WithLabelValues(result).Inc()
}
