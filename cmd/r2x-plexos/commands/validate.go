package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/plexos"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	commonFlags
	JSON    bool
	Verbose bool
	Files   []string
}

// RunValidate runs the validate command.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	opts := ValidateOptions{}
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	opts.register(fs)
	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	fs.BoolVar(&opts.Verbose, "verbose", false, "List accepted generators too")
	fs.BoolVar(&opts.Verbose, "v", false, "List accepted generators too (shorthand)")
	if code, ok := parseFlags(fs, args, stderr, printValidateUsage); !ok {
		return code
	}
	opts.Files = fs.Args()

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printValidateUsage(stderr)
		return exitCommandError
	}

	e, err := newEnv(opts.commonFlags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.close()

	hasErrors := false
	results := make(map[string]*ValidationOutput)

	for _, file := range opts.Files {
		result := validateFile(file, e)
		results[file] = result

		if !result.Valid {
			hasErrors = true
		}

		if !opts.JSON {
			printValidationResult(stdout, file, result, opts.Verbose)
		}
	}

	if opts.JSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(output))
	}

	if hasErrors {
		return exitValidation
	}
	return exitSuccess
}

// ValidationOutput represents the validation result for a file.
type ValidationOutput struct {
	Valid    bool          `json:"valid"`
	Version  string        `json:"version,omitempty"`
	RunID    string        `json:"run_id,omitempty"`
	Accepted []string      `json:"accepted,omitempty"`
	Rejected int           `json:"rejected"`
	Errors   []IssueOutput `json:"errors,omitempty"`
}

// IssueOutput represents one field violation.
type IssueOutput struct {
	Index      int    `json:"index"`
	Name       string `json:"name,omitempty"`
	Field      string `json:"field,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Message    string `json:"message"`
}

func validateFile(path string, e *env) *ValidationOutput {
	output := &ValidationOutput{Valid: true}

	res, err := plexos.LoadFile(path, e.loadOptions())
	if err != nil {
		output.Valid = false
		output.Errors = append(output.Errors, IssueOutput{
			Index:   -1,
			Message: err.Error(),
		})
		return output
	}

	output.Version = res.Version.String()
	output.RunID = res.RunID
	output.Rejected = len(res.Rejected)
	output.Valid = len(res.Rejected) == 0

	for _, g := range res.Generators {
		output.Accepted = append(output.Accepted, g.Label())
	}

	for _, re := range res.Rejected {
		verrs, ok := model.AsValidationErrors(re.Err)
		if !ok {
			output.Errors = append(output.Errors, IssueOutput{
				Index:      re.Index,
				Name:       re.Name,
				Constraint: model.ConstraintOf(re.Err),
				Message:    re.Err.Error(),
			})
			continue
		}
		for _, fe := range verrs {
			output.Errors = append(output.Errors, IssueOutput{
				Index:      re.Index,
				Name:       re.Name,
				Field:      fe.Field,
				Constraint: fe.Constraint,
				Message:    fe.Err.Error(),
			})
		}
	}

	return output
}

func printValidationResult(w io.Writer, file string, result *ValidationOutput, verbose bool) {
	if result.Valid {
		fmt.Fprintf(w, "%s: OK (%d generators)\n", file, len(result.Accepted))
	} else if result.Version == "" {
		fmt.Fprintf(w, "%s: FAILED\n", file)
	} else {
		fmt.Fprintf(w, "%s: FAILED (%d accepted, %d rejected)\n", file, len(result.Accepted), result.Rejected)
	}

	for _, e := range result.Errors {
		switch {
		case e.Index < 0:
			fmt.Fprintf(w, "  ERROR %s\n", e.Message)
		case e.Field == "":
			fmt.Fprintf(w, "  ERROR [%d %s] %s\n", e.Index, e.Name, e.Message)
		default:
			fmt.Fprintf(w, "  ERROR [%d %s] %s (%s): %s\n", e.Index, e.Name, e.Field, e.Constraint, e.Message)
		}
	}

	if verbose {
		for _, name := range result.Accepted {
			fmt.Fprintf(w, "  OK %s\n", name)
		}
	}
}

func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos validate [options] <files...>

Options:
  -config FILE     YAML config file
  -event-log FILE  Append load events to FILE
  -json            Output results as JSON
  -v, -verbose     List accepted generators too

Examples:
  r2x-plexos validate case.yaml
  r2x-plexos validate -json -config r2x.yaml *.yaml`)
}
