// Package errs defines the error-kind taxonomy shared across the
// optimization core. Components raise plain wrapped errors
// (github.com/pkg/errors); only the top-level entry point
// (cmd/coursesched) and internal/whatif catch them and convert to
// status-tagged result records.
package errs

import "github.com/pkg/errors"

// Kind identifies which status-tagged outcome an error maps to.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindInfeasible
	KindTimeLimitFeasible
	KindTimeLimitNoSolution
	KindSolverError
	KindIISTimeout
	KindIISFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInfeasible:
		return "infeasible"
	case KindTimeLimitFeasible:
		return "time_limit_feasible"
	case KindTimeLimitNoSolution:
		return "time_limit_no_solution"
	case KindSolverError:
		return "solver_error"
	case KindIISTimeout:
		return "iis_timeout"
	case KindIISFailure:
		return "iis_failure"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers at a component
// boundary can branch on it without string matching.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

// New wraps msg as a typed error of the given kind.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, cause: errors.New(msg)}
}

// Wrap wraps an existing error as a typed error of the given kind, adding
// msg as context the way github.com/pkg/errors.Wrap does.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrap(err, msg)}
}

// As reports whether err (or something it wraps) is an *Error and returns
// its Kind.
func As(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// InvalidInput builds an InvalidInput error.
func InvalidInput(format string, args ...interface{}) error {
	return New(KindInvalidInput, errors.Errorf(format, args...).Error())
}

// InvalidInputf is an alias kept for call-site readability near printf-style
// call sites; identical to InvalidInput.
func InvalidInputf(format string, args ...interface{}) error {
	return InvalidInput(format, args...)
}
