// Package cmd provides the command-line interface of revstep.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/revstep/config"
)

// NewRootCmd creates the revstep command with all its subcommands.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "revstep",
		Short: "revstep runs random walks that can be stepped backward exactly.",
		Long: `revstep runs random walks whose every step can be undone. ` +
			`Walking back over a time step replays the die used going ` +
			`forward, and time steps never visited get their dice from a ` +
			`seeded deterministic source.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	opts.bindFlags(rootCmd)

	rootCmd.AddCommand(newWalkCmd(opts))
	rootCmd.AddCommand(newRecordCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// Execute runs the revstep command. Recorders registered with atexit are
// flushed before the process exits.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

type options struct {
	envFile string
	cfg     config.Config

	seed     uint64
	steps    int
	sides    int
	recordAt int64
	db       string
	metrics  bool
	verbose  bool
	port     int
	open     bool
}

func (o *options) bindFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&o.envFile, "env-file", ".env",
		"File with REVSTEP_ variables, ignored if missing")
	flags.Uint64Var(&o.seed, "seed", 0,
		"Base seed of the run, 0 draws a random seed (logged for replay)")
	flags.IntVar(&o.steps, "steps", 10, "Steps to take in each direction")
	flags.IntVar(&o.sides, "sides", 6, "Number of faces of every die")
	flags.StringVar(&o.db, "db", "",
		"Record every step into this sqlite database (without extension)")
	flags.BoolVar(&o.metrics, "metrics", false,
		"Print Prometheus metrics at the end of the run")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Log every step")
}

// load reads the configuration and lets explicitly set flags override it.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("steps") {
		cfg.Steps = o.steps
	}
	if flags.Changed("sides") {
		cfg.Sides = o.sides
	}
	if flags.Changed("record-at") {
		cfg.RecordAt = o.recordAt
	}
	if flags.Changed("db") {
		cfg.DBPath = o.db
	}
	if flags.Changed("metrics") {
		cfg.Metrics = o.metrics
	}
	if flags.Changed("verbose") {
		cfg.Verbose = o.verbose
	}
	if flags.Changed("port") {
		cfg.MonitorPort = o.port
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg

	return nil
}
