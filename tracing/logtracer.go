package tracing

import (
	"log"

	"github.com/sarchlab/revstep/stepping"
)

// LogTracer prints every step.
type LogTracer struct {
	logger *log.Logger
}

// NewLogTracer creates a LogTracer printing to logger. A nil logger means
// the standard logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	if logger == nil {
		logger = log.Default()
	}

	return &LogTracer{logger: logger}
}

// TraceStep prints the step.
func (t *LogTracer) TraceStep(step stepping.Step) {
	source := "rolled"
	if step.Replayed {
		source = "replayed"
	}

	name := step.StateName
	if name == "" {
		name = step.StateID
	}

	t.logger.Printf("%s %s t=%d die=%d (%s) %d -> %d",
		name, step.Direction, step.Time, step.Die, source,
		step.Before, step.After)
}
