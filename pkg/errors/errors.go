package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError reports a malformed object specification: an unknown
// field, a type mismatch, or a value outside a closed vocabulary. It is
// fatal to the named object and raised before any network call.
type ValidationError struct {
	Object  string
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError naming the offending
// object and field.
func NewValidationError(object, field, message string, err error) error {
	return &ValidationError{Object: object, Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Object != "" && e.Field != "":
		return fmt.Sprintf("validation error: %s: field %q: %s", e.Object, e.Field, e.Message)
	case e.Object != "":
		return fmt.Sprintf("validation error: %s: %s", e.Object, e.Message)
	default:
		return fmt.Sprintf("validation error: %s", e.Message)
	}
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CycleError is raised when the desired objects form a reference cycle.
// The whole run is aborted before any mutation; Members lists the cycle
// in traversal order.
type CycleError struct {
	Members []string
}

// NewCycleError constructs a CycleError from the cycle's member names.
func NewCycleError(members []string) error {
	return &CycleError{Members: members}
}

func (e *CycleError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Members, " -> "))
}

// DependencyError marks an object skipped because a required prerequisite
// did not reach the applied state during this run.
type DependencyError struct {
	Object      string
	Unsatisfied []string
}

// NewDependencyError constructs a DependencyError.
func NewDependencyError(object string, unsatisfied []string) error {
	return &DependencyError{Object: object, Unsatisfied: unsatisfied}
}

func (e *DependencyError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unsatisfied dependency on %s: requires %s", e.Object, strings.Join(e.Unsatisfied, ", "))
}

// Classification separates adapter failures worth retrying from those
// that are not.
type Classification string

const (
	// Transient covers timeouts and 5xx-style server failures.
	Transient Classification = "transient"
	// Permanent covers authorization denials and server-side rejection
	// of an invalid object or reference.
	Permanent Classification = "permanent"
)

// AdapterError wraps a failure surfaced by the API client adapter together
// with its retry classification.
type AdapterError struct {
	Kind           string
	Name           string
	Op             string
	Classification Classification
	Err            error
}

// NewAdapterError constructs an AdapterError.
func NewAdapterError(kind, name, op string, class Classification, err error) error {
	return &AdapterError{Kind: kind, Name: name, Op: op, Classification: class, Err: err}
}

func (e *AdapterError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("adapter error [%s]: %s %s/%s: %v", e.Classification, e.Op, e.Kind, e.Name, e.Err)
}

// Unwrap exposes the underlying error.
func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether err carries an AdapterError classified as
// transient anywhere in its chain.
func IsTransient(err error) bool {
	var aerr *AdapterError
	return stderrors.As(err, &aerr) && aerr.Classification == Transient
}
