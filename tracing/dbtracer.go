package tracing

import (
	"sync"

	"github.com/sarchlab/revstep/datarecording"
	"github.com/sarchlab/revstep/stepping"
)

// StepTableName is the table DBTracer writes to.
const StepTableName = "revstep_steps"

// StepEntry is one row of the step table.
type StepEntry struct {
	StateID   string
	StateName string
	Direction string
	Time      int64
	Die       int
	Replayed  bool
	Before    int64
	After     int64
}

// DBTracer writes every step into a DataRecorder.
type DBTracer struct {
	lock      sync.Mutex
	backend   datarecording.DataRecorder
	isTracing bool
}

// NewDBTracer creates a DBTracer and the step table on backend. The tracer
// starts in the tracing state.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	backend.CreateTable(StepTableName, StepEntry{})

	return &DBTracer{
		backend:   backend,
		isTracing: true,
	}
}

// StartTracing resumes recording.
func (t *DBTracer) StartTracing() {
	t.lock.Lock()
	t.isTracing = true
	t.lock.Unlock()
}

// StopTracing pauses recording. Steps taken while stopped are dropped.
func (t *DBTracer) StopTracing() {
	t.lock.Lock()
	t.isTracing = false
	t.lock.Unlock()
}

// IsTracing tells whether steps are being recorded.
func (t *DBTracer) IsTracing() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.isTracing
}

// TraceStep records the step.
func (t *DBTracer) TraceStep(step stepping.Step) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.isTracing {
		return
	}

	t.backend.InsertData(StepTableName, StepEntry{
		StateID:   step.StateID,
		StateName: step.StateName,
		Direction: step.Direction.String(),
		Time:      step.Time,
		Die:       step.Die,
		Replayed:  step.Replayed,
		Before:    step.Before,
		After:     step.After,
	})
}

// Flush writes buffered steps to the backend.
func (t *DBTracer) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.backend.Flush()
}

// ReadSteps loads all recorded steps in the order they were taken.
func ReadSteps(reader *datarecording.Reader) ([]StepEntry, error) {
	var steps []StepEntry
	if err := reader.ReadTable(StepTableName, &steps); err != nil {
		return nil, err
	}

	return steps, nil
}
