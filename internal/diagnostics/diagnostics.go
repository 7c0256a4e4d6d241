// Package diagnostics defines the typed error taxonomy shared by every
// pipeline stage: parsing, type resolution, persistence and internal
// invariant checks each raise a DiagnosticError carrying a stable code so
// callers can branch on failure class instead of string-matching messages.
package diagnostics

import "fmt"

// ErrorCode identifies one member of the error taxonomy. Codes are stable
// across releases; add new ones rather than renumbering.
type ErrorCode string

const (
	// ErrParse marks a syntax error encountered while lexing or parsing a
	// single source file. Recoverable: the offending file is skipped, the
	// rest of the project continues.
	ErrParse ErrorCode = "P001"
	// ErrResolution marks a failure to resolve an imported symbol or a
	// function/method return type to a concrete module. Recoverable: the
	// call token degrades to its unqualified form.
	ErrResolution ErrorCode = "R001"
	// ErrNavigation marks a failure while walking a TypeInfo tree (e.g. an
	// out-of-range depth/index). Recoverable: the caller falls back to a
	// bare, unqualified token.
	ErrNavigation ErrorCode = "N001"
	// ErrPersistence marks a failure while loading or saving a count model
	// or report. Fatal to the calling operation; not recoverable in place.
	ErrPersistence ErrorCode = "S001"
	// ErrInvariant marks a violated internal invariant (programming bug,
	// not bad input). Always fatal.
	ErrInvariant ErrorCode = "I001"
)

// Severity classifies whether an error should halt its caller.
type Severity int

const (
	// SeverityRecoverable errors are logged and the unit of work producing
	// them (a file, a call site) is skipped or degraded; the run continues.
	SeverityRecoverable Severity = iota
	// SeverityFatal errors abort the operation that raised them.
	SeverityFatal
)

func (c ErrorCode) severity() Severity {
	switch c {
	case ErrParse, ErrResolution, ErrNavigation:
		return SeverityRecoverable
	default:
		return SeverityFatal
	}
}

// DiagnosticError is the concrete error type raised by every component.
// It wraps an underlying cause (if any) and records where the failure
// happened, so logs and reports can point at the source file/line that
// triggered it.
type DiagnosticError struct {
	Code    ErrorCode
	Module  string // dotted module path, if known
	Line    int    // 1-based source line, 0 if not applicable
	Message string
	Cause   error
}

// NewError builds a DiagnosticError for code, formatting Message from the
// given format/args in the manner of fmt.Errorf.
func NewError(code ErrorCode, module string, line int, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Module:  module,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap builds a DiagnosticError for code around an existing cause.
func Wrap(code ErrorCode, module string, line int, cause error, format string, args ...any) *DiagnosticError {
	e := NewError(code, module, line, format, args...)
	e.Cause = cause
	return e
}

func (e *DiagnosticError) Error() string {
	if e.Module != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s: %s:%d: %s", e.Code, e.Module, e.Line, e.Message)
		}
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Module, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DiagnosticError) Unwrap() error { return e.Cause }

// Recoverable reports whether the calling component may continue after
// logging this error (skip the file, degrade the token) rather than abort.
func (e *DiagnosticError) Recoverable() bool { return e.Code.severity() == SeverityRecoverable }

// Bag accumulates diagnostics produced during a single pipeline run (one
// preprocessing pass, one tokenization pass) without interrupting it.
type Bag struct {
	errors []*DiagnosticError
}

// Add appends err to the bag. Nil errors are ignored.
func (b *Bag) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	b.errors = append(b.errors, err)
}

// All returns every diagnostic recorded so far, in order.
func (b *Bag) All() []*DiagnosticError { return b.errors }

// HasFatal reports whether any recorded diagnostic is non-recoverable.
func (b *Bag) HasFatal() bool {
	for _, e := range b.errors {
		if !e.Recoverable() {
			return true
		}
	}
	return false
}

// Len reports how many diagnostics have been recorded.
func (b *Bag) Len() int { return len(b.errors) }
