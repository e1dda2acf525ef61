package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/r2x-project/r2x-go/pkg/enums"
	"github.com/r2x-project/r2x-go/pkg/store"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// ListOptions configures the list command.
type ListOptions struct {
	commonFlags
	Database    string
	PrimeMover  string
	Fuel        string
	Category    string
	MinCapacity string
	Limit       int
	Offset      int
	Format      string
	Runs        bool
}

// RunList runs the list command.
func RunList(args []string, stdout, stderr io.Writer) int {
	opts := ListOptions{}
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	opts.register(fs)
	fs.StringVar(&opts.Database, "db", "", "SQLite database (default from config)")
	fs.StringVar(&opts.PrimeMover, "prime-mover", "", "Filter by prime mover code")
	fs.StringVar(&opts.Fuel, "fuel", "", "Filter by fuel")
	fs.StringVar(&opts.Category, "category", "", "Filter by category")
	fs.StringVar(&opts.MinCapacity, "min-capacity", "", "Minimum max_capacity, e.g. \"100 MW\"")
	fs.IntVar(&opts.Limit, "limit", 0, "Maximum number of generators")
	fs.IntVar(&opts.Offset, "offset", 0, "Generators to skip")
	fs.StringVar(&opts.Format, "format", "table", "Output format: table, json, yaml")
	fs.BoolVar(&opts.Runs, "runs", false, "List import runs instead of generators")
	if code, ok := parseFlags(fs, args, stderr, printListUsage); !ok {
		return code
	}

	q, err := opts.query()
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

	s, err := openStore(opts.Database, e)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer s.Close()

	if opts.Runs {
		runs, err := s.ListRuns()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		printRuns(stdout, runs)
		return exitSuccess
	}

	gens, err := s.List(q)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if err := printGenerators(stdout, gens, opts.Format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	return exitSuccess
}

func (o *ListOptions) query() (store.Query, error) {
	q := store.Query{
		Fuel:     o.Fuel,
		Category: o.Category,
		Limit:    o.Limit,
		Offset:   o.Offset,
	}
	if o.PrimeMover != "" {
		pm, err := enums.ParsePrimeMover(o.PrimeMover)
		if err != nil {
			return q, err
		}
		q.PrimeMover = &pm
	}
	if o.MinCapacity != "" {
		c, err := units.Parse(o.MinCapacity)
		if err != nil {
			return q, err
		}
		if c.Unit == units.None {
			c.Unit = units.Megawatt
		}
		q.MinCapacity = &c
	}
	return q, nil
}

func printRuns(w io.Writer, runs []store.Run) {
	fmt.Fprintf(w, "%-36s %-20s %-8s %-8s %-8s %s\n", "RUN", "LOADED", "VERSION", "ACCEPTED", "REJECTED", "SOURCE")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s %-20s %-8s %-8d %-8d %s\n",
			r.ID, r.LoadedAt.Format("2006-01-02 15:04:05"), r.Version, r.Accepted, r.Rejected, r.Source)
	}
}

func printListUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos list [options]

Options:
  -db FILE             SQLite database (default from config)
  -prime-mover CODE    Filter by prime mover code (e.g. GT)
  -fuel NAME           Filter by fuel
  -category NAME       Filter by category
  -min-capacity QTY    Minimum max_capacity (e.g. "100 MW", bare numbers are MW)
  -limit N             Maximum number of generators
  -offset N            Generators to skip
  -format FORMAT       Output format: table (default), json, yaml
  -runs                List import runs instead of generators
  -config FILE         YAML config file

Examples:
  r2x-plexos list -db gens.db -prime-mover GT -min-capacity "0.1 GW"
  r2x-plexos list -db gens.db -runs`)
}
