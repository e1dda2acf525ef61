package commands

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/r2x-project/r2x-go/pkg/log"
	"github.com/r2x-project/r2x-go/pkg/plexos"
	"github.com/r2x-project/r2x-go/pkg/store"
)

// ImportOptions configures the import command.
type ImportOptions struct {
	commonFlags
	Database string
	Files    []string
}

// RunImport runs the import command.
func RunImport(args []string, stdout, stderr io.Writer) int {
	opts := ImportOptions{}
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	opts.register(fs)
	fs.StringVar(&opts.Database, "db", "", "SQLite database (default from config)")
	if code, ok := parseFlags(fs, args, stderr, printImportUsage); !ok {
		return code
	}
	opts.Files = fs.Args()

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printImportUsage(stderr)
		return exitCommandError
	}

	e, err := newEnv(opts.commonFlags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.close()

	s, err := openStore(opts.Database, e)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer s.Close()

	exitCode := exitSuccess
	for _, file := range opts.Files {
		res, err := plexos.LoadFile(file, e.loadOptions())
		if err != nil {
			fmt.Fprintf(stdout, "%s: FAILED\n  ERROR %v\n", file, err)
			exitCode = exitValidation
			continue
		}

		if err := s.Import(res); err != nil {
			e.events.Log(log.Event{
				Timestamp: time.Now(),
				RunID:     res.RunID,
				Source:    file,
				Stage:     log.StageStore,
				Outcome:   log.OutcomeError,
				Error:     &log.ErrorEventData{Stage: log.StageStore, Message: err.Error()},
			})
			fmt.Fprintf(stderr, "Error: %s: %v\n", file, err)
			return exitCommandError
		}
		logWritten(e.events, res, log.StageStore, file)

		fmt.Fprintf(stdout, "%s: imported %d, rejected %d (run %s)\n",
			file, len(res.Generators), len(res.Rejected), res.RunID)
		for _, re := range res.Rejected {
			fmt.Fprintf(stdout, "  REJECTED %v\n", re)
		}
		if len(res.Rejected) > 0 {
			exitCode = exitValidation
		}
	}

	return exitCode
}

// openStore opens the database named by the flag, or by the config.
func openStore(path string, e *env) (*store.Store, error) {
	if path == "" {
		path = e.cfg.Database
	}
	if path == "" {
		return nil, fmt.Errorf("no database: set -db or database in the config")
	}
	return store.Open(path, e.cfg.PlexosOptions()...)
}

func printImportUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos import [options] <files...>

Options:
  -db FILE         SQLite database (default from config)
  -config FILE     YAML config file
  -event-log FILE  Append load and store events to FILE

Examples:
  r2x-plexos import -db gens.db case.yaml case.json`)
}
