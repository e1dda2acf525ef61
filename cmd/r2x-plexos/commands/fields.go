package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/plexos"
)

// FieldOutput describes one schema field.
type FieldOutput struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Unit        string   `json:"unit,omitempty"`
	Bounds      string   `json:"bounds,omitempty"`
	Default     any      `json:"default,omitempty"`
	Nullable    bool     `json:"nullable,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

// RunFields runs the fields command.
func RunFields(args []string, stdout, stderr io.Writer) int {
	var asJSON bool
	fs := flag.NewFlagSet("fields", flag.ContinueOnError)
	fs.BoolVar(&asJSON, "json", false, "Output as JSON")
	if code, ok := parseFlags(fs, args, stderr, printFieldsUsage); !ok {
		return code
	}

	var out []FieldOutput
	names := fs.Args()
	if len(names) == 0 {
		for _, meta := range plexos.Fields() {
			out = append(out, describeField(meta))
		}
	} else {
		for _, name := range names {
			meta, ok := plexos.Field(name)
			if !ok {
				fmt.Fprintf(stderr, "Error: unknown field %q\n", name)
				return exitCommandError
			}
			out = append(out, describeField(meta))
		}
	}

	if asJSON {
		output, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(stdout, string(output))
		return exitSuccess
	}

	fmt.Fprintf(stdout, "%-22s %-10s %-10s %-12s %s\n", "FIELD", "KIND", "UNIT", "BOUNDS", "DEFAULT")
	for _, f := range out {
		def := "-"
		if f.Default != nil {
			def = fmt.Sprint(f.Default)
		}
		if f.Nullable {
			def += " (nullable)"
		}
		fmt.Fprintf(stdout, "%-22s %-10s %-10s %-12s %s\n", f.Name, f.Kind, orDash(f.Unit), orDash(f.Bounds), def)
	}
	return exitSuccess
}

func describeField(meta *model.FieldMetadata) FieldOutput {
	f := FieldOutput{
		Name:        meta.Name,
		Kind:        meta.Kind.String(),
		Default:     meta.Default,
		Nullable:    meta.Nullable,
		Enum:        meta.Enum,
		Description: meta.Description,
	}
	if meta.Kind == model.KindQuantity {
		f.Unit = meta.Unit().String()
	}
	if meta.HasBounds() {
		f.Bounds = formatBounds(meta)
	}
	return f
}

// formatBounds renders a range such as "[0, 1]" or "(0, inf)".
func formatBounds(meta *model.FieldMetadata) string {
	var b strings.Builder
	if meta.MinValue == nil {
		b.WriteString("(-inf")
	} else {
		if meta.ExclusiveMin {
			b.WriteString("(")
		} else {
			b.WriteString("[")
		}
		fmt.Fprint(&b, meta.MinValue)
	}
	b.WriteString(", ")
	if meta.MaxValue == nil {
		b.WriteString("inf)")
	} else {
		fmt.Fprintf(&b, "%v]", meta.MaxValue)
	}
	if meta.BoundUnit != "" {
		fmt.Fprintf(&b, " %s", meta.BoundUnit)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printFieldsUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: r2x-plexos fields [options] [names...]

Options:
  -json  Output as JSON

Examples:
  r2x-plexos fields
  r2x-plexos fields -json max_capacity forced_outage_rate`)
}
