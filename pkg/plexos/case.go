package plexos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/r2x-project/r2x-go/pkg/log"
	"github.com/r2x-project/r2x-go/pkg/model"
	"github.com/r2x-project/r2x-go/pkg/version"
)

// Format is a case file encoding.
type Format uint8

const (
	// FormatUnknown means the encoding is detected from the content.
	FormatUnknown Format = iota
	// FormatYAML is the default, human-edited form.
	FormatYAML
	// FormatJSON is the interchange form.
	FormatJSON
	// FormatCBOR is the compact binary form.
	FormatCBOR
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "cbor":
		return FormatCBOR, nil
	case "":
		return FormatUnknown, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown case format %q", s)
	}
}

// FormatFromPath returns the format implied by the file extension, or
// FormatUnknown.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".cbor":
		return FormatCBOR
	default:
		return FormatUnknown
	}
}

// DetectFormat guesses the format of case file content.
func DetectFormat(data []byte) Format {
	// CBOR major type 5 (map).
	if len(data) > 0 && data[0]>>5 == 5 {
		return FormatCBOR
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// ErrCaseFile is returned when a case file cannot be decoded.
var ErrCaseFile = errors.New("invalid case file")

// caseFile is the on-disk layout of a case.
type caseFile struct {
	Version    string           `json:"version" yaml:"version" cbor:"version"`
	Generators []map[string]any `json:"generators" yaml:"generators" cbor:"generators"`
}

// RecordError reports a generator record that failed to build.
type RecordError struct {
	// Index is the zero-based position of the record in the case.
	Index int

	// Name is the record's name, when it had a readable one.
	Name string

	// Err is the cause, usually a model.ValidationErrors.
	Err error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("generator %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("generator %d: %v", e.Index, e.Err)
}

// Unwrap returns the cause.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// LoadOptions configures Load and LoadFile.
type LoadOptions struct {
	// Schema options passed to NewGenerator for every record.
	Schema []Option

	// Logger receives operational messages. nil uses slog.Default().
	Logger *slog.Logger

	// Events receives one event per record. nil disables the event log.
	Events log.Logger

	// Source labels the input in events and messages. LoadFile defaults it
	// to the file path.
	Source string
}

// LoadResult holds the outcome of loading a case.
type LoadResult struct {
	// RunID identifies this load in the event log.
	RunID string

	// Source is the input label.
	Source string

	// Version is the case file schema version.
	Version version.SchemaVersion

	// Generators holds the records that passed validation, in file order.
	Generators []*Generator

	// Rejected holds the records that failed, in file order.
	Rejected []*RecordError
}

// Total returns the number of records read.
func (r *LoadResult) Total() int {
	return len(r.Generators) + len(r.Rejected)
}

// Err joins the rejected record errors, or returns nil.
func (r *LoadResult) Err() error {
	if len(r.Rejected) == 0 {
		return nil
	}
	errs := make([]error, len(r.Rejected))
	for i, re := range r.Rejected {
		errs[i] = re
	}
	return errors.Join(errs...)
}

// LoadFile reads a case file. The format comes from the extension, or from
// the content when the extension is not recognized.
func LoadFile(path string, opts LoadOptions) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if opts.Source == "" {
		opts.Source = path
	}
	return Load(f, FormatFromPath(path), opts)
}

// Load reads a case from r. Invalid generator records do not fail the load;
// they are reported in LoadResult.Rejected. An undecodable stream or an
// incompatible schema version is an error.
func Load(r io.Reader, format Format, opts LoadOptions) (*LoadResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	events := opts.Events
	if events == nil {
		events = log.NoopLogger{}
	}

	result := &LoadResult{
		RunID:  uuid.NewString(),
		Source: opts.Source,
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == FormatUnknown {
		format = DetectFormat(data)
	}

	cf, err := decodeCase(data, format)
	if err != nil {
		events.Log(log.Event{
			Timestamp: time.Now(),
			RunID:     result.RunID,
			Source:    result.Source,
			Stage:     log.StageLoad,
			Outcome:   log.OutcomeError,
			Error:     &log.ErrorEventData{Stage: log.StageLoad, Message: err.Error(), Context: format.String()},
		})
		return nil, err
	}

	result.Version, err = version.Check(cf.Version)
	if err != nil {
		events.Log(log.Event{
			Timestamp: time.Now(),
			RunID:     result.RunID,
			Source:    result.Source,
			Stage:     log.StageLoad,
			Outcome:   log.OutcomeError,
			Error:     &log.ErrorEventData{Stage: log.StageLoad, Message: err.Error(), Context: "version"},
		})
		return nil, err
	}

	for i, fields := range cf.Generators {
		var g *Generator
		if fields == nil {
			err = fmt.Errorf("%w: %w: record is null, expected a mapping", ErrCaseFile, model.ErrTypeMismatch)
		} else {
			g, err = NewGenerator(fields, opts.Schema...)
		}
		event := log.Event{
			Timestamp: time.Now(),
			RunID:     result.RunID,
			Source:    result.Source,
			Stage:     log.StageLoad,
			Record:    &log.RecordEvent{Index: i},
		}

		if err != nil {
			name, _ := fields["name"].(string)
			result.Rejected = append(result.Rejected, &RecordError{Index: i, Name: name, Err: err})

			event.Outcome = log.OutcomeRejected
			event.Record.Name = name
			event.Record.Issues = issuesOf(err)
			events.Log(event)

			logger.Warn("generator rejected",
				"source", result.Source, "index", i, "name", name, "error", err)
			continue
		}

		result.Generators = append(result.Generators, g)

		event.Outcome = log.OutcomeAccepted
		event.Record.Name = g.Name
		event.Record.UUID = g.UUID.String()
		events.Log(event)

		logger.Debug("generator accepted",
			"source", result.Source, "index", i, "name", g.Name, "uuid", g.UUID)
	}

	logger.Info("case loaded",
		"source", result.Source,
		"version", result.Version.String(),
		"accepted", len(result.Generators),
		"rejected", len(result.Rejected))

	return result, nil
}

func decodeCase(data []byte, format Format) (*caseFile, error) {
	var cf caseFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&cf); err != nil {
			return nil, fmt.Errorf("%w: json: %v", ErrCaseFile, err)
		}
	case FormatCBOR:
		if err := cborDecMode.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("%w: cbor: %v", ErrCaseFile, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("%w: yaml: %v", ErrCaseFile, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrCaseFile, format)
	}
	return &cf, nil
}

func issuesOf(err error) []log.Issue {
	verrs, ok := model.AsValidationErrors(err)
	if !ok {
		return []log.Issue{{Constraint: model.ConstraintOf(err), Message: err.Error()}}
	}
	issues := make([]log.Issue, len(verrs))
	for i, fe := range verrs {
		issues[i] = log.Issue{Field: fe.Field, Constraint: fe.Constraint, Message: fe.Err.Error()}
	}
	return issues
}

// WriteFile writes generators as a case file. FormatUnknown takes the
// format from the extension and falls back to YAML.
func WriteFile(path string, generators []*Generator, format Format) error {
	if format == FormatUnknown {
		format = FormatFromPath(path)
	}
	if format == FormatUnknown {
		format = FormatYAML
	}

	var buf bytes.Buffer
	if err := Encode(&buf, generators, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Encode writes generators as a case in the given format.
func Encode(w io.Writer, generators []*Generator, format Format) error {
	cf := caseFile{
		Version:    version.Current,
		Generators: make([]map[string]any, len(generators)),
	}
	for i, g := range generators {
		cf.Generators[i] = g.ToMap()
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cf)
	case FormatCBOR:
		data, err := cborEncMode.Marshal(cf)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cf); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unsupported format %s", ErrCaseFile, format)
	}
}
