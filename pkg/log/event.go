package log

import (
	"strings"
	"time"
)

// Event is a translation log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID groups the events of one load (UUID).
	RunID string `cbor:"2,keyasint"`

	// Source is the case file or stream the record came from.
	Source string `cbor:"3,keyasint,omitempty"`

	// Stage where the event was captured.
	Stage Stage `cbor:"4,keyasint"`

	// Outcome of the stage.
	Outcome Outcome `cbor:"5,keyasint"`

	// Type-specific payload (at most one of these is set).
	Record *RecordEvent    `cbor:"6,keyasint,omitempty"`
	Error  *ErrorEventData `cbor:"7,keyasint,omitempty"`
}

// Stage indicates which step of a translation run produced the event.
type Stage uint8

const (
	// StageLoad is record decoding and validation.
	StageLoad Stage = 0
	// StageStore is persisting a record.
	StageStore Stage = 1
	// StageWrite is serializing a case file.
	StageWrite Stage = 2
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "LOAD"
	case StageStore:
		return "STORE"
	case StageWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Outcome classifies the result of a stage.
type Outcome uint8

const (
	// OutcomeAccepted indicates the record passed.
	OutcomeAccepted Outcome = 0
	// OutcomeRejected indicates the record failed validation.
	OutcomeRejected Outcome = 1
	// OutcomeError indicates a failure not tied to a record's content.
	OutcomeError Outcome = 2
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "ACCEPTED"
	case OutcomeRejected:
		return "REJECTED"
	case OutcomeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseOutcome parses an outcome name, case-insensitively.
func ParseOutcome(s string) (Outcome, bool) {
	for _, o := range []Outcome{OutcomeAccepted, OutcomeRejected, OutcomeError} {
		if strings.EqualFold(o.String(), s) {
			return o, true
		}
	}
	return 0, false
}

// RecordEvent identifies a record and the issues found in it.
type RecordEvent struct {
	// Index is the zero-based position of the record in its source.
	Index int `cbor:"1,keyasint"`

	// Name is the record's name (may be empty).
	Name string `cbor:"2,keyasint,omitempty"`

	// UUID is the record's identifier, when it was built.
	UUID string `cbor:"3,keyasint,omitempty"`

	// Issues lists the field violations of a rejected record.
	Issues []Issue `cbor:"4,keyasint,omitempty"`
}

// HasField returns true if one of the issues concerns field.
func (r *RecordEvent) HasField(field string) bool {
	for _, is := range r.Issues {
		if is.Field == field {
			return true
		}
	}
	return false
}

// Issue is a single field violation.
type Issue struct {
	// Field is the offending field name.
	Field string `cbor:"1,keyasint"`

	// Constraint is the violated constraint code (e.g. "non_negative").
	Constraint string `cbor:"2,keyasint"`

	// Message is the human-readable error.
	Message string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures failures that are not field violations.
type ErrorEventData struct {
	// Stage where the error occurred.
	Stage Stage `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
