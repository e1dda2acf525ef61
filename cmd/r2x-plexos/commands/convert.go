package commands

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/r2x-project/r2x-go/pkg/log"
	"github.com/r2x-project/r2x-go/pkg/plexos"
)

// ConvertOptions configures the convert command.
type ConvertOptions struct {
	commonFlags
	Output string
	Format string
	Force  bool
	File   string
}

// RunConvert runs the convert command.
func RunConvert(args []string, stdout, stderr io.Writer) int {
	opts := ConvertOptions{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	opts.register(fs)
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.Format, "format", "", "Output format: yaml, json, cbor (default from extension)")
	fs.BoolVar(&opts.Force, "force", false, "Write the valid generators even when some are rejected")
	if code, ok := parseFlags(fs, args, stderr, printConvertUsage); !ok {
		return code
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one input file required")
		printConvertUsage(stderr)
		return exitCommandError
	}
	opts.File = fs.Arg(0)

	if opts.Output == "" {
		fmt.Fprintln(stderr, "Error: -o is required")
		printConvertUsage(stderr)
		return exitCommandError
	}

	format, err := plexos.ParseFormat(opts.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	e, err := newEnv(opts.commonFlags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.close()

	res, err := plexos.LoadFile(opts.File, e.loadOptions())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if len(res.Rejected) > 0 {
		for _, re := range res.Rejected {
			fmt.Fprintf(stderr, "rejected: %v\n", re)
		}
		if !opts.Force {
			fmt.Fprintf(stderr, "Error: %d invalid generators, nothing written (use -force)\n", len(res.Rejected))
			return exitValidation
		}
	}

	if err := plexos.WriteFile(opts.Output, res.Generators, format); err != nil {
		e.events.Log(log.Event{
			Timestamp: time.Now(),
			RunID:     res.RunID,
			Source:    opts.Output,
			Stage:     log.StageWrite,
			Outcome:   log.OutcomeError,
			Error:     &log.ErrorEventData{Stage: log.StageWrite, Message: err.Error()},
		})
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	logWritten(e.events, res, log.StageWrite, opts.Output)

	fmt.Fprintf(stdout, "Converted %s -> %s (%d generators)\n", opts.File, opts.Output, len(res.Generators))
	if len(res.Rejected) > 0 {
		return exitValidation
	}
	return exitSuccess
}

// logWritten records one accepted event per generator persisted at stage.
func logWritten(events log.Logger, res *plexos.LoadResult, stage log.Stage, target string) {
	for i, g := range res.Generators {
		events.Log(log.Event{
			Timestamp: time.Now(),
			RunID:     res.RunID,
			Source:    target,
			Stage:     stage,
			Outcome:   log.OutcomeAccepted,
			Record:    &log.RecordEvent{Index: i, Name: g.Name, UUID: g.UUID.String()},
		})
	}
}

func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos convert [options] -o <output> <input>

Options:
  -o FILE          Output file (required)
  -format FORMAT   Output format: yaml, json, cbor (default from extension)
  -force           Write the valid generators even when some are rejected
  -config FILE     YAML config file
  -event-log FILE  Append load and write events to FILE

Examples:
  r2x-plexos convert -o case.json case.yaml
  r2x-plexos convert -format cbor -o case.bin case.yaml`)
}
