package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/r2x-project/r2x-go/pkg/log"
)

// RunLog dispatches the log subcommands.
func RunLog(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printLogUsage(stderr)
		return exitCommandError
	}

	switch args[0] {
	case "stats":
		return runLogStats(args[1:], stdout, stderr)
	case "view":
		return runLogView(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		printLogUsage(stdout)
		return exitSuccess
	default:
		fmt.Fprintf(stderr, "Unknown log command: %s\n", args[0])
		printLogUsage(stderr)
		return exitCommandError
	}
}

func runLogStats(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("log stats", flag.ContinueOnError)
	if code, ok := parseFlags(fs, args, stderr, printLogUsage); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: log file path required")
		return exitCommandError
	}

	if err := RunStats(fs.Arg(0), stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	return exitSuccess
}

func runLogView(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("log view", flag.ContinueOnError)
	runID := fs.String("run", "", "Filter by run ID")
	source := fs.String("source", "", "Filter by source")
	outcome := fs.String("outcome", "", "Filter by outcome (accepted, rejected, error)")
	field := fs.String("field", "", "Filter by rejected field")
	if code, ok := parseFlags(fs, args, stderr, printLogUsage); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: log file path required")
		return exitCommandError
	}

	filter := log.Filter{RunID: *runID, Source: *source, Field: *field}
	if *outcome != "" {
		o, ok := log.ParseOutcome(*outcome)
		if !ok {
			fmt.Fprintf(stderr, "Error: unknown outcome %q\n", *outcome)
			return exitCommandError
		}
		filter.Outcome = &o
	}

	if err := RunView(fs.Arg(0), filter, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	return exitSuccess
}

// Stats holds aggregate statistics about an event log.
type Stats struct {
	TotalEvents     int
	EventsByStage   map[log.Stage]int
	EventsByOutcome map[log.Outcome]int
	Runs            map[string]*RunSummary
	FieldIssues     map[string]int
	TimeRange       struct {
		Start time.Time
		End   time.Time
	}
}

// RunSummary holds statistics for a single run.
type RunSummary struct {
	Source   string
	Accepted int
	Rejected int
	Errors   int
}

// RunStats analyzes the event log and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByStage:   make(map[log.Stage]int),
		EventsByOutcome: make(map[log.Outcome]int),
		Runs:            make(map[string]*RunSummary),
		FieldIssues:     make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByStage[event.Stage]++
		stats.EventsByOutcome[event.Outcome]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Per-run counts cover the load stage only.
		if event.Stage == log.StageLoad {
			run, ok := stats.Runs[event.RunID]
			if !ok {
				run = &RunSummary{Source: event.Source}
				stats.Runs[event.RunID] = run
			}
			switch event.Outcome {
			case log.OutcomeAccepted:
				run.Accepted++
			case log.OutcomeRejected:
				run.Rejected++
			case log.OutcomeError:
				run.Errors++
			}
		}

		if event.Record != nil {
			for _, issue := range event.Record.Issues {
				stats.FieldIssues[issue.Field]++
			}
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Generator Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Stage:")
	for _, stage := range []log.Stage{log.StageLoad, log.StageStore, log.StageWrite} {
		if count := stats.EventsByStage[stage]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", stage.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Outcome:")
	for _, o := range []log.Outcome{log.OutcomeAccepted, log.OutcomeRejected, log.OutcomeError} {
		if count := stats.EventsByOutcome[o]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.FieldIssues) > 0 {
		fields := make([]string, 0, len(stats.FieldIssues))
		for f := range stats.FieldIssues {
			fields = append(fields, f)
		}
		// Most frequent first.
		sort.Slice(fields, func(i, j int) bool {
			if stats.FieldIssues[fields[i]] != stats.FieldIssues[fields[j]] {
				return stats.FieldIssues[fields[i]] > stats.FieldIssues[fields[j]]
			}
			return fields[i] < fields[j]
		})

		fmt.Fprintln(w, "Issues by Field:")
		for _, f := range fields {
			name := f
			if name == "" {
				name = "(record)"
			}
			fmt.Fprintf(w, "  %-22s %d\n", name+":", stats.FieldIssues[f])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Runs: %d\n", len(stats.Runs))
	ids := make([]string, 0, len(stats.Runs))
	for id := range stats.Runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		run := stats.Runs[id]
		fmt.Fprintf(w, "  [%s] %s\n", shortenRunID(id), run.Source)
		fmt.Fprintf(w, "    Accepted: %d  Rejected: %d  Errors: %d\n", run.Accepted, run.Rejected, run.Errors)
	}
}

// RunView prints the events of the log that match filter.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [run:%s] %-5s %-8s %s\n",
		ts, shortenRunID(event.RunID), event.Stage, event.Outcome, event.Source)

	if r := event.Record; r != nil {
		fmt.Fprintf(w, "  Record:     #%d %s\n", r.Index, r.Name)
		if r.UUID != "" {
			fmt.Fprintf(w, "  UUID:       %s\n", r.UUID)
		}
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  Issue:      %s (%s): %s\n", issue.Field, issue.Constraint, issue.Message)
		}
	}

	if e := event.Error; e != nil {
		fmt.Fprintf(w, "  Error:      %s\n", e.Message)
		if e.Context != "" {
			fmt.Fprintf(w, "  Context:    %s\n", e.Context)
		}
	}

	fmt.Fprintln(w)
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func printLogUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos log <command> [flags] <file.rlog>

Commands:
  stats   Show statistics about the event log
  view    View events in human-readable format

View flags:
  -run ID          Filter by run ID
  -source NAME     Filter by source
  -outcome NAME    Filter by outcome (accepted, rejected, error)
  -field NAME      Filter by rejected field

Examples:
  r2x-plexos log stats run.rlog
  r2x-plexos log view -outcome rejected -field max_capacity run.rlog`)
}
