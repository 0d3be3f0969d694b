package datarecording

import (
	"os"
	"strings"
	"time"
)

// RunTableName is the table RunRecorder writes to.
const RunTableName = "revstep_run"

const timeLayout = "2006-01-02 15:04:05.000000000"

// RunProperty is one property of a program run.
type RunProperty struct {
	Property string
	Value    string
}

// RunRecorder records how a run was started: command line, start and end
// time, and any properties the caller adds, such as the seed.
type RunRecorder struct {
	recorder DataRecorder
	entries  []RunProperty
	now      func() time.Time
}

// NewRunRecorder creates the run table on recorder.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	recorder.CreateTable(RunTableName, RunProperty{})

	return &RunRecorder{
		recorder: recorder,
		now:      time.Now,
	}
}

// Start records the start time and the command line.
func (r *RunRecorder) Start() {
	r.Set("Start Time", r.now().Format(timeLayout))
	r.Set("Command", strings.Join(os.Args, " "))
}

// Set records a property.
func (r *RunRecorder) Set(property, value string) {
	r.entries = append(r.entries, RunProperty{property, value})
}

// End records the end time and writes all properties.
func (r *RunRecorder) End() {
	r.Set("End Time", r.now().Format(timeLayout))

	for _, entry := range r.entries {
		r.recorder.InsertData(RunTableName, entry)
	}

	r.entries = nil

	r.recorder.Flush()
}
