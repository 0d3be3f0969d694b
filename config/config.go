// Package config loads revstep settings from the environment.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/sarchlab/revstep/dice"
)

// Config holds the settings shared by all commands. Every field can be set
// with a REVSTEP_ environment variable or in a .env file.
type Config struct {
	// Seed is the base seed of the run. Zero draws a random one, so a run
	// cannot use zero as its base seed. The commands log the seed they use;
	// passing it back reproduces the run.
	Seed uint64 `env:"REVSTEP_SEED"`

	// Steps is how many steps a command takes in each direction.
	Steps int `env:"REVSTEP_STEPS" envDefault:"10"`

	// Sides is the number of faces of every die.
	Sides int `env:"REVSTEP_SIDES" envDefault:"6"`

	// RecordAt is the time index at which the recording scenario snapshots
	// the walk.
	RecordAt int64 `env:"REVSTEP_RECORD_AT" envDefault:"5"`

	// DBPath enables the sqlite step trace when set. The file is
	// DBPath + ".sqlite3".
	DBPath string `env:"REVSTEP_DB"`

	// Metrics prints Prometheus metrics at the end of a run.
	Metrics bool `env:"REVSTEP_METRICS"`

	// Verbose logs every step.
	Verbose bool `env:"REVSTEP_VERBOSE"`

	// MonitorPort is the port of the monitoring server. Zero picks a free
	// port.
	MonitorPort int `env:"REVSTEP_MONITOR_PORT"`
}

// Errors returned by Validate.
var (
	ErrNegativeSteps = errors.New("steps must not be negative")
	ErrInvalidPort   = errors.New("monitor port out of range")
)

// Load reads envFile, if it exists, into the process environment without
// overriding variables that are already set, then parses the environment.
// An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "load %s", envFile)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Steps < 0 {
		return errors.Wrapf(ErrNegativeSteps, "steps = %d", c.Steps)
	}

	if c.Sides < 1 {
		return errors.Wrapf(dice.ErrInvalidSides, "sides = %d", c.Sides)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return errors.Wrapf(ErrInvalidPort, "port = %d", c.MonitorPort)
	}

	return nil
}

// ResolvedSeed returns the configured seed, or a fresh random one when
// Seed is zero. Call it once per run.
func (c Config) ResolvedSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}

	return dice.CryptoSeedSource{}.NextSeed()
}
