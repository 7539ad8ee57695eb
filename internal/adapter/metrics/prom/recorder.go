// Package prom exports engine counters to Prometheus. It implements the same
// Metrics port as the in-memory recorder so the two can be swapped, or fanned
// out together, at wiring time.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"famiverse/internal/domain/familiar"
)

type Recorder struct {
	careActions *prometheus.CounterVec
	mutations   *prometheus.CounterVec
	cycles      prometheus.Counter
	removals    prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		careActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "famiverse",
			Name:      "care_actions_total",
			Help:      "Care actions by action name and outcome.",
		}, []string{"action", "outcome"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "famiverse",
			Name:      "mutations_total",
			Help:      "Applied mutations by type.",
		}, []string{"type"}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "famiverse",
			Name:      "evolution_cycles_total",
			Help:      "Completed evolution cycles.",
		}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "famiverse",
			Name:      "familiar_removals_total",
			Help:      "Familiars removed after neglect.",
		}),
	}
	reg.MustRegister(r.careActions, r.mutations, r.cycles, r.removals)
	return r
}

func (r *Recorder) RecordCareAction(action familiar.CareAction, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	r.careActions.WithLabelValues(string(action), outcome).Inc()
}

func (r *Recorder) RecordMutation(t familiar.MutationType) {
	r.mutations.WithLabelValues(string(t)).Inc()
}

func (r *Recorder) RecordCycle() {
	r.cycles.Inc()
}

func (r *Recorder) RecordRemoval() {
	r.removals.Inc()
}
