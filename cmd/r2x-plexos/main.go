// Command r2x-plexos validates, converts and stores PLEXOS generator cases.
//
// Usage:
//
//	r2x-plexos <command> [flags] [files...]
//
// Commands:
//
//	validate   Validate case files against the generator schema
//	show       Display the generators of a case file
//	convert    Convert a case file between YAML, JSON and CBOR
//	fields     List the generator schema fields
//	import     Store the valid generators of case files in SQLite
//	list       Query generators stored in SQLite
//	log        Inspect an event log (stats, view)
//
// Examples:
//
//	# Validate a case, writing an event log
//	r2x-plexos validate -event-log run.rlog case.yaml
//
//	# Convert YAML to CBOR
//	r2x-plexos convert -o case.cbor case.yaml
//
//	# Show the rejected records of a run
//	r2x-plexos log view -outcome rejected run.rlog
package main

import (
	"fmt"
	"os"

	"github.com/r2x-project/r2x-go/cmd/r2x-plexos/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "convert":
		exitCode = commands.RunConvert(args, os.Stdout, os.Stderr)
	case "fields":
		exitCode = commands.RunFields(args, os.Stdout, os.Stderr)
	case "import":
		exitCode = commands.RunImport(args, os.Stdout, os.Stderr)
	case "list":
		exitCode = commands.RunList(args, os.Stdout, os.Stderr)
	case "log":
		exitCode = commands.RunLog(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("r2x-plexos version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`r2x-plexos - PLEXOS generator case tool

Usage:
  r2x-plexos <command> [options] [files...]

Commands:
  validate   Validate case files against the generator schema
  show       Display the generators of a case file
  convert    Convert a case file between YAML, JSON and CBOR
  fields     List the generator schema fields
  import     Store the valid generators of case files in SQLite
  list       Query generators stored in SQLite
  log        Inspect an event log (stats, view)

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  r2x-plexos validate case.yaml
  r2x-plexos validate -json -config r2x.yaml *.yaml
  r2x-plexos show -format json case.yaml
  r2x-plexos convert -o case.cbor case.yaml
  r2x-plexos import -db gens.db case.yaml
  r2x-plexos list -db gens.db -prime-mover GT
  r2x-plexos log stats run.rlog

For command-specific help, run:
  r2x-plexos <command> -help`)
}
