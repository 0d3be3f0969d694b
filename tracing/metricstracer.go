package tracing

import (
	"fmt"
	"io"
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/sarchlab/revstep/stepping"
)

// MetricsTracer exports step counts and macrostates in Prometheus format.
//
//	revstep_steps_total{state="walk",direction="forward"}
//	revstep_draws_total{state="walk",source="replay"}
//	revstep_macrostate{state="walk"}
//
// States are labelled by name, or by ID when unnamed. The macrostate gauge
// is a float64, so it is exact only while the macrostate's magnitude stays
// within 2^53.
type MetricsTracer struct {
	set *metrics.Set

	lock        sync.Mutex
	macrostates map[string]int64
}

// NewMetricsTracer creates a MetricsTracer with its own metric set.
func NewMetricsTracer() *MetricsTracer {
	return &MetricsTracer{
		set:         metrics.NewSet(),
		macrostates: make(map[string]int64),
	}
}

// TraceStep updates the counters of the step's state.
func (t *MetricsTracer) TraceStep(step stepping.Step) {
	state := step.StateName
	if state == "" {
		state = step.StateID
	}

	t.set.GetOrCreateCounter(fmt.Sprintf(
		`revstep_steps_total{state=%q,direction=%q}`,
		state, step.Direction)).Inc()

	source := "fresh"
	if step.Replayed {
		source = "replay"
	}

	t.set.GetOrCreateCounter(fmt.Sprintf(
		`revstep_draws_total{state=%q,source=%q}`, state, source)).Inc()

	t.lock.Lock()
	t.macrostates[state] = step.After
	t.lock.Unlock()

	t.set.GetOrCreateGauge(fmt.Sprintf(`revstep_macrostate{state=%q}`, state),
		func() float64 {
			t.lock.Lock()
			defer t.lock.Unlock()

			return float64(t.macrostates[state])
		})
}

// WritePrometheus writes all metrics in Prometheus text format.
func (t *MetricsTracer) WritePrometheus(w io.Writer) {
	t.set.WritePrometheus(w)
}
