package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/r2x-project/r2x-go/pkg/plexos"
	"github.com/r2x-project/r2x-go/pkg/units"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	commonFlags
	Format string
	File   string
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	opts := ShowOptions{}
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts.register(fs)
	fs.StringVar(&opts.Format, "format", "table", "Output format: table, json, yaml")
	if code, ok := parseFlags(fs, args, stderr, printShowUsage); !ok {
		return code
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one file required")
		printShowUsage(stderr)
		return exitCommandError
	}
	opts.File = fs.Arg(0)

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

	if err := printGenerators(stdout, res.Generators, opts.Format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	for _, re := range res.Rejected {
		fmt.Fprintf(stderr, "rejected: %v\n", re)
	}
	if len(res.Rejected) > 0 {
		return exitValidation
	}
	return exitSuccess
}

// printGenerators writes generators as a table or as a case document.
func printGenerators(w io.Writer, gens []*plexos.Generator, format string) error {
	if strings.EqualFold(format, "table") || format == "" {
		printTable(w, gens)
		return nil
	}

	f, err := plexos.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == plexos.FormatCBOR {
		return fmt.Errorf("cbor output is binary, use convert")
	}
	return plexos.Encode(w, gens, f)
}

func printTable(w io.Writer, gens []*plexos.Generator) {
	fmt.Fprintf(w, "%-24s %-6s %-14s %-12s %-12s %-12s %s\n", "NAME", "PM", "FUEL", "MAX CAP", "MIN STABLE", "NODE", "STORAGE")
	for _, g := range gens {
		pm := "-"
		if g.PrimeMoverType != nil {
			pm = g.PrimeMoverType.String()
		}
		fuel := "-"
		if g.Fuel != nil {
			fuel = *g.Fuel
		}
		maxCap := "-"
		if g.MaxCapacity != nil {
			maxCap = formatMW(*g.MaxCapacity)
		}
		node := "-"
		if g.Node != nil {
			node = g.Node.Name
		}
		storage := "-"
		if tech, ok := g.StorageTech(); ok {
			storage = tech.String()
		}
		if pump, ok := g.PumpPower(); ok {
			storage = fmt.Sprintf("%s pump %g MW", storage, pump.In)
		}
		fmt.Fprintf(w, "%-24s %-6s %-14s %-12s %-12s %-12s %s\n",
			g.Label(), pm, fuel, maxCap, formatMW(g.MinStableLevel), node, storage)
	}
	fmt.Fprintf(w, "\n%d generators\n", len(gens))
}

func formatMW(q units.Quantity) string {
	return fmt.Sprintf("%g MW", q.In(units.Megawatt))
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos show [options] <file>

Options:
  -config FILE     YAML config file
  -event-log FILE  Append load events to FILE
  -format FORMAT   Output format: table (default), json, yaml

Examples:
  r2x-plexos show case.yaml
  r2x-plexos show -format json case.yaml`)
}
