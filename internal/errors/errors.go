package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so the top level can report it consistently.
type Kind int

const (
	// KindUnknown is never produced by this module; it only guards the zero value.
	KindUnknown Kind = iota
	// ResourceExhausted covers memory mapping failures and undersized output buffers.
	ResourceExhausted
	// SystemCallFailed covers privilege drops, mprotect and resource-limit calls.
	SystemCallFailed
	// CryptoBackendFailed covers generator init, fill and destroy failures.
	CryptoBackendFailed
	// InvalidRequest covers bad counts, empty class masks and unknown strategies.
	InvalidRequest
	// Config covers configuration that cannot be honoured.
	Config
)

func (k Kind) String() string {
	switch k {
	case ResourceExhausted:
		return "resource exhausted"
	case SystemCallFailed:
		return "system call failed"
	case CryptoBackendFailed:
		return "crypto backend failed"
	case InvalidRequest:
		return "invalid request"
	case Config:
		return "configuration error"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrResourceExhausted   = &Error{Kind: ResourceExhausted}
	ErrSystemCallFailed    = &Error{Kind: SystemCallFailed}
	ErrCryptoBackendFailed = &Error{Kind: CryptoBackendFailed}
	ErrInvalidRequest      = &Error{Kind: InvalidRequest}
	ErrConfig              = &Error{Kind: Config}
)

// Error is a classified failure raised by the arena, the generator or the engine.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New builds an Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds an Error of the given kind from a format string.
func Newf(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(" during ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can test against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// Is lets ConfigError satisfy errors.Is(err, ErrConfig).
func (e ConfigError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == Config && t.Op == ""
}

// Explain attaches a suggestion to classified errors for display on the terminal.
func Explain(err error) error {
	if err == nil {
		return nil
	}

	var ue UserError
	if errors.As(err, &ue) {
		return err
	}
	var ce ConfigError
	if errors.As(err, &ce) {
		return err
	}

	switch KindOf(err) {
	case ResourceExhausted:
		return UserError{
			Message:    "Out of memory",
			Err:        err,
			Details:    err.Error(),
			Suggestion: "Reduce N or raise 'arena.pages' in the configuration file",
		}
	case SystemCallFailed:
		return UserError{
			Message:    "System call failed",
			Err:        err,
			Details:    err.Error(),
			Suggestion: "Check resource limits and that the binary is not setuid to an unexpected user",
		}
	case CryptoBackendFailed:
		return UserError{
			Message:    "Crypto library error",
			Err:        err,
			Details:    err.Error(),
			Suggestion: "Run 'pwgen doctor' to check the random number generator backends",
		}
	case InvalidRequest:
		return UserError{
			Message:    "Invalid request",
			Err:        err,
			Details:    err.Error(),
			Suggestion: "Run 'pwgen --help' for usage",
		}
	}

	return err
}
