package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/revstep/driver"
	"github.com/sarchlab/revstep/monitoring"
	"github.com/sarchlab/revstep/tracing"
)

func newServeCmd(o *options) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recording scenario over HTTP.",
		Long: "`serve` builds the same states as `record` and lets them be " +
			"inspected and stepped through the monitoring API until " +
			"interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := newSession(o, "serve")

			d := driver.NewRecordingScenario(s.seeds, o.cfg.Sides, o.cfg.RecordAt)

			metrics := s.metrics
			if metrics == nil {
				metrics = tracing.NewMetricsTracer()
				s.tracers = append(s.tracers, metrics)
			}

			for _, name := range d.Names() {
				s.trace(d.State(name))
			}

			monitor := monitoring.NewMonitor(d).WithPortNumber(o.cfg.MonitorPort)
			monitor.RegisterMetrics(metrics)

			url, err := monitor.StartServer()
			if err != nil {
				return err
			}

			if o.open {
				if err := browser.OpenURL(url + "/api/states"); err != nil {
					fmt.Fprintf(os.Stderr, "cannot open browser: %v\n", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(),
				os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(
				context.Background(), 5*time.Second)
			defer cancel()

			err = monitor.Shutdown(shutdownCtx)
			s.finish(cmd.OutOrStdout())

			return err
		},
	}

	serveCmd.Flags().Int64Var(&o.recordAt, "record-at", 5,
		"Time index at which the walk is recorded")
	serveCmd.Flags().IntVar(&o.port, "port", 0,
		"Port of the monitoring server, 0 picks a free port")
	serveCmd.Flags().BoolVar(&o.open, "open", false,
		"Open the monitor in a browser")

	return serveCmd
}
