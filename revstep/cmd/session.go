package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/sarchlab/revstep/datarecording"
	"github.com/sarchlab/revstep/dice"
	"github.com/sarchlab/revstep/hooking"
	"github.com/sarchlab/revstep/tracing"
)

// session holds what a single command run needs besides its states: the
// seed source and the tracers selected by the configuration.
type session struct {
	seed    uint64
	seeds   dice.SeedSource
	tracers []tracing.Tracer

	recorder datarecording.DataRecorder
	run      *datarecording.RunRecorder
	metrics  *tracing.MetricsTracer
}

func newSession(o *options, command string) *session {
	cfg := o.cfg

	s := &session{seed: cfg.ResolvedSeed()}
	s.seeds = dice.NewSequenceSeedSource(s.seed)

	log.Printf("revstep %s, seed %d", command, s.seed)

	if cfg.DBPath != "" {
		s.recorder = datarecording.New(cfg.DBPath)
		s.tracers = append(s.tracers, tracing.NewDBTracer(s.recorder))

		s.run = datarecording.NewRunRecorder(s.recorder)
		s.run.Start()
		s.run.Set("Subcommand", command)
		s.run.Set("Seed", strconv.FormatUint(s.seed, 10))
		s.run.Set("Steps", strconv.Itoa(cfg.Steps))
		s.run.Set("Sides", strconv.Itoa(cfg.Sides))
	}

	if cfg.Verbose {
		s.tracers = append(s.tracers,
			tracing.NewLogTracer(log.New(os.Stderr, "", log.LstdFlags)))
	}

	if cfg.Metrics {
		s.metrics = tracing.NewMetricsTracer()
		s.tracers = append(s.tracers, s.metrics)
	}

	return s
}

// trace attaches the session's tracers to a domain.
func (s *session) trace(domain hooking.Hookable) {
	for _, t := range s.tracers {
		tracing.CollectTrace(domain, t)
	}
}

// finish writes the metrics to out and closes the recorder.
func (s *session) finish(out io.Writer) {
	if s.metrics != nil {
		fmt.Fprintln(out)
		s.metrics.WritePrometheus(out)
	}

	if s.recorder != nil {
		s.run.End()
		s.recorder.Close()
	}
}
