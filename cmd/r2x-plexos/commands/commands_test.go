package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r2x-project/r2x-go/pkg/plexos"
)

const (
	validCase   = "testdata/valid.yaml"
	invalidCase = "testdata/invalid.yaml"
	strictConf  = "testdata/strict.yaml"
)

type command func(args []string, stdout, stderr io.Writer) int

func run(fn command, args ...string) (int, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := fn(args, stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunValidate_ValidFile(t *testing.T) {
	code, stdout, stderr := run(RunValidate, validCase)

	if code != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, code)
		t.Logf("stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "OK (3 generators)") {
		t.Errorf("expected OK in output, got: %s", stdout)
	}
}

func TestRunValidate_InvalidFile(t *testing.T) {
	code, stdout, _ := run(RunValidate, invalidCase)

	if code != exitValidation {
		t.Errorf("expected exit code %d, got %d", exitValidation, code)
	}
	if !strings.Contains(stdout, "FAILED (1 accepted, 2 rejected)") {
		t.Errorf("expected failure summary, got: %s", stdout)
	}
	for _, want := range []string{"max_capacity", "forced_outage_rate", "units", "Bad_2", "Bad_3"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got: %s", want, stdout)
		}
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	code, stdout, _ := run(RunValidate, "nonexistent.yaml")

	if code != exitValidation {
		t.Errorf("expected exit code %d, got %d", exitValidation, code)
	}
	if !strings.Contains(stdout, "FAILED") {
		t.Errorf("expected FAILED in output, got: %s", stdout)
	}
}

func TestRunValidate_NoFile(t *testing.T) {
	code, _, stderr := run(RunValidate)

	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(stderr, "no files specified") {
		t.Errorf("expected 'no files specified' in stderr, got: %s", stderr)
	}
}

func TestRunValidate_Help(t *testing.T) {
	code, _, stderr := run(RunValidate, "-help")

	if code != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, code)
	}
	if !strings.Contains(stderr, "Usage: r2x-plexos validate") {
		t.Errorf("expected usage in stderr, got: %s", stderr)
	}
}

func TestRunValidate_JSONOutput(t *testing.T) {
	code, stdout, _ := run(RunValidate, "-json", validCase, invalidCase)

	if code != exitValidation {
		t.Errorf("expected exit code %d, got %d", exitValidation, code)
	}

	var results map[string]*ValidationOutput
	if err := json.Unmarshal([]byte(stdout), &results); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}

	ok := results[validCase]
	if ok == nil || !ok.Valid || len(ok.Accepted) != 3 || ok.Version != "1.0" {
		t.Errorf("unexpected result for valid case: %+v", ok)
	}

	bad := results[invalidCase]
	if bad == nil || bad.Valid || bad.Rejected != 2 {
		t.Fatalf("unexpected result for invalid case: %+v", bad)
	}
	found := false
	for _, e := range bad.Errors {
		if e.Name == "Bad_2" && e.Field == "max_capacity" && e.Constraint != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a max_capacity error for Bad_2, got: %+v", bad.Errors)
	}
}

func TestRunValidate_Config(t *testing.T) {
	// Fraction scale makes forced_outage_rate: 6 out of range.
	code, stdout, _ := run(RunValidate, "-config", strictConf, validCase)

	if code != exitValidation {
		t.Errorf("expected exit code %d, got %d", exitValidation, code)
	}
	if !strings.Contains(stdout, "forced_outage_rate") {
		t.Errorf("expected forced_outage_rate error, got: %s", stdout)
	}
}

func TestRunValidate_BadConfig(t *testing.T) {
	code, _, stderr := run(RunValidate, "-config", "testdata/missing.yaml", validCase)

	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(stderr, "Error") {
		t.Errorf("expected error in stderr, got: %s", stderr)
	}
}

func TestRunValidate_EventLogThenInspect(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "run.rlog")

	code, _, _ := run(RunValidate, "-event-log", logPath, invalidCase)
	if code != exitValidation {
		t.Fatalf("expected exit code %d, got %d", exitValidation, code)
	}

	code, stdout, stderr := run(RunLog, "stats", logPath)
	if code != exitSuccess {
		t.Fatalf("stats failed: %s", stderr)
	}
	for _, want := range []string{"Total Events: 3", "REJECTED:", "Issues by Field:", "max_capacity:", "Runs: 1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in stats, got: %s", want, stdout)
		}
	}

	code, stdout, stderr = run(RunLog, "view", "-outcome", "rejected", "-field", "units", logPath)
	if code != exitSuccess {
		t.Fatalf("view failed: %s", stderr)
	}
	if !strings.Contains(stdout, "Bad_3") {
		t.Errorf("expected Bad_3 in view, got: %s", stdout)
	}
	if strings.Contains(stdout, "Bad_2") || strings.Contains(stdout, "Good_1") {
		t.Errorf("filter not applied: %s", stdout)
	}
}

func TestRunLog_Errors(t *testing.T) {
	if code, _, _ := run(RunLog); code != exitCommandError {
		t.Errorf("expected exit code %d without subcommand, got %d", exitCommandError, code)
	}
	if code, _, _ := run(RunLog, "tail", "x.rlog"); code != exitCommandError {
		t.Errorf("expected exit code %d for unknown subcommand, got %d", exitCommandError, code)
	}
	if code, _, _ := run(RunLog, "view", "-outcome", "maybe", "x.rlog"); code != exitCommandError {
		t.Errorf("expected exit code %d for unknown outcome, got %d", exitCommandError, code)
	}
	if code, _, _ := run(RunLog, "stats", filepath.Join(t.TempDir(), "none.rlog")); code != exitCommandError {
		t.Errorf("expected exit code %d for missing log, got %d", exitCommandError, code)
	}
}

func TestRunShow_Table(t *testing.T) {
	code, stdout, stderr := run(RunShow, validCase)

	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d: %s", exitSuccess, code, stderr)
	}
	for _, want := range []string{"NAME", "Coal_1", "450 MW", "Node_7", "200 MW", "3 generators"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in table, got: %s", want, stdout)
		}
	}
}

func TestRunShow_Storage(t *testing.T) {
	code, stdout, stderr := run(RunShow, "testdata/storage.yaml")

	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d: %s", exitSuccess, code, stderr)
	}
	for _, want := range []string{"STORAGE", "LIB", "- pump 280 MW"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in table, got: %s", want, stdout)
		}
	}
}

func TestRunShow_Formats(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			code, stdout, stderr := run(RunShow, "-format", format, validCase)
			if code != exitSuccess {
				t.Fatalf("expected exit code %d, got %d: %s", exitSuccess, code, stderr)
			}

			res, err := plexos.Load(strings.NewReader(stdout), plexos.FormatUnknown, plexos.LoadOptions{})
			if err != nil {
				t.Fatalf("output does not load: %v", err)
			}
			if len(res.Generators) != 3 || len(res.Rejected) != 0 {
				t.Errorf("expected 3 generators, got %d (%d rejected)", len(res.Generators), len(res.Rejected))
			}
		})
	}

	if code, _, _ := run(RunShow, "-format", "cbor", validCase); code != exitCommandError {
		t.Errorf("expected exit code %d for cbor, got %d", exitCommandError, code)
	}
}

func TestRunShow_Rejected(t *testing.T) {
	code, stdout, stderr := run(RunShow, invalidCase)

	if code != exitValidation {
		t.Errorf("expected exit code %d, got %d", exitValidation, code)
	}
	if !strings.Contains(stdout, "Good_1") {
		t.Errorf("expected valid generator in table, got: %s", stdout)
	}
	if strings.Count(stderr, "rejected:") != 2 {
		t.Errorf("expected two rejected lines, got: %s", stderr)
	}
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".json", ".cbor", ".yml"} {
		out := filepath.Join(dir, "case"+ext)
		code, stdout, stderr := run(RunConvert, "-o", out, validCase)
		if code != exitSuccess {
			t.Fatalf("%s: expected exit code %d, got %d: %s", ext, exitSuccess, code, stderr)
		}
		if !strings.Contains(stdout, "3 generators") {
			t.Errorf("%s: unexpected output: %s", ext, stdout)
		}

		res, err := plexos.LoadFile(out, plexos.LoadOptions{})
		if err != nil {
			t.Fatalf("%s: converted file does not load: %v", ext, err)
		}
		if len(res.Generators) != 3 {
			t.Errorf("%s: expected 3 generators, got %d", ext, len(res.Generators))
		}
	}
}

func TestRunConvert_Invalid(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.yaml")

	code, _, stderr := run(RunConvert, "-o", out, invalidCase)
	if code != exitValidation {
		t.Errorf("expected exit code %d, got %d", exitValidation, code)
	}
	if !strings.Contains(stderr, "nothing written") {
		t.Errorf("expected refusal, got: %s", stderr)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat err: %v", err)
	}

	code, _, _ = run(RunConvert, "-force", "-o", out, invalidCase)
	if code != exitValidation {
		t.Errorf("expected exit code %d with -force, got %d", exitValidation, code)
	}
	res, err := plexos.LoadFile(out, plexos.LoadOptions{})
	if err != nil {
		t.Fatalf("forced output does not load: %v", err)
	}
	if len(res.Generators) != 1 || res.Generators[0].Name != "Good_1" {
		t.Errorf("expected only Good_1, got %d generators", len(res.Generators))
	}
}

func TestRunConvert_Usage(t *testing.T) {
	if code, _, _ := run(RunConvert, validCase); code != exitCommandError {
		t.Errorf("expected exit code %d without -o, got %d", exitCommandError, code)
	}
	if code, _, _ := run(RunConvert, "-o", "x.xml", "-format", "xml", validCase); code != exitCommandError {
		t.Errorf("expected exit code %d for unknown format, got %d", exitCommandError, code)
	}
}

func TestRunFields(t *testing.T) {
	code, stdout, _ := run(RunFields)
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}
	for _, want := range []string{"FIELD", "max_capacity", "heat_rate_incr", "prime_mover_type", "nullable"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got: %s", want, stdout)
		}
	}

	code, stdout, _ = run(RunFields, "-json", "forced_outage_rate", "max_capacity")
	if code != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, code)
	}
	var out []FieldOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(out))
	}
	if out[0].Name != "forced_outage_rate" || out[0].Bounds != "[0, 1] fraction" {
		t.Errorf("unexpected forced_outage_rate description: %+v", out[0])
	}
	if out[1].Unit != "MW" || !out[1].Nullable {
		t.Errorf("unexpected max_capacity description: %+v", out[1])
	}

	if code, _, _ := run(RunFields, "colour"); code != exitCommandError {
		t.Errorf("expected exit code %d for unknown field, got %d", exitCommandError, code)
	}
}

func TestRunImportAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "gens.db")

	code, stdout, stderr := run(RunImport, "-db", db, validCase, invalidCase)
	if code != exitValidation {
		t.Fatalf("expected exit code %d, got %d: %s", exitValidation, code, stderr)
	}
	if !strings.Contains(stdout, "imported 3, rejected 0") || !strings.Contains(stdout, "imported 1, rejected 2") {
		t.Errorf("unexpected import output: %s", stdout)
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"All", nil, []string{"Coal_1", "Gas_CT_2", "Wind_3", "Good_1", "4 generators"}, []string{"Bad_2"}},
		{"PrimeMover", []string{"-prime-mover", "GT"}, []string{"Gas_CT_2", "Good_1"}, []string{"Coal_1", "Wind_3"}},
		{"MinCapacity", []string{"-min-capacity", "150"}, []string{"Coal_1", "Wind_3"}, []string{"Gas_CT_2", "Good_1"}},
		{"Category", []string{"-category", "thermal"}, []string{"Coal_1", "Gas_CT_2"}, []string{"Wind_3"}},
		{"Runs", []string{"-runs"}, []string{"ACCEPTED", validCase, invalidCase}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-db", db}, tt.args...)
			code, stdout, stderr := run(RunList, args...)
			if code != exitSuccess {
				t.Fatalf("expected exit code %d, got %d: %s", exitSuccess, code, stderr)
			}
			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("expected %q in output, got: %s", want, stdout)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(stdout, nw) {
					t.Errorf("did not expect %q in output, got: %s", nw, stdout)
				}
			}
		})
	}

	if code, _, _ := run(RunList, "-db", db, "-prime-mover", "XX"); code != exitCommandError {
		t.Errorf("expected exit code %d for unknown prime mover, got %d", exitCommandError, code)
	}
}

func TestRunImport_NoDatabase(t *testing.T) {
	code, _, stderr := run(RunImport, validCase)

	if code != exitCommandError {
		t.Errorf("expected exit code %d, got %d", exitCommandError, code)
	}
	if !strings.Contains(stderr, "no database") {
		t.Errorf("expected 'no database' in stderr, got: %s", stderr)
	}
}
