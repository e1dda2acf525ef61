// Package commands implements the r2x-plexos CLI commands.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/r2x-project/r2x-go/pkg/config"
	"github.com/r2x-project/r2x-go/pkg/log"
	"github.com/r2x-project/r2x-go/pkg/plexos"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// commonFlags are shared by the commands that load case files.
type commonFlags struct {
	Config   string
	EventLog string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Config, "config", "", "YAML config file")
	fs.StringVar(&c.EventLog, "event-log", "", "Append load events to this file (overrides config)")
}

// env is the runtime assembled from config and flags.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	events log.Logger
	file   *log.FileLogger
}

func newEnv(flags commonFlags, stderr io.Writer) (*env, error) {
	cfg := config.Default()
	if flags.Config != "" {
		var err error
		cfg, err = config.Load(flags.Config)
		if err != nil {
			return nil, err
		}
	}
	if flags.EventLog != "" {
		cfg.EventLog = flags.EventLog
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		events: log.NoopLogger{},
	}

	if cfg.EventLog != "" {
		e.file, err = log.NewFileLogger(cfg.EventLog)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		e.events = e.file
	}

	return e, nil
}

func (e *env) loadOptions() plexos.LoadOptions {
	return plexos.LoadOptions{
		Schema: e.cfg.PlexosOptions(),
		Logger: e.logger,
		Events: e.events,
	}
}

func (e *env) close() {
	if e.file != nil {
		e.file.Close()
	}
}

// parseFlags parses args and reports whether the command should continue.
// On -help it prints usage and returns exitSuccess.
func parseFlags(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) (int, bool) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stderr)
			return exitSuccess, false
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		usage(stderr)
		return exitCommandError, false
	}
	return exitSuccess, true
}
