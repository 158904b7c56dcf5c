package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the task or resource lifecycle the error occurred
type Phase string

const (
	PhaseInit     Phase = "init"     // instance and registry initialization
	PhaseSchedule Phase = "schedule" // async work creation and submission
	PhaseExecute  Phase = "execute"  // pool-thread execution
	PhaseComplete Phase = "complete" // owning-loop completion delivery
	PhaseDispatch Phase = "dispatch" // loop posting and threadsafe calls
	PhaseRelease  Phase = "release"  // deferred resource release
	PhaseGuest    Phase = "guest"    // guest module operations
)

// Kind categorizes the error
type Kind string

const (
	KindCancelled      Kind = "cancelled"
	KindContract       Kind = "contract"
	KindRejected       Kind = "rejected"
	KindTornDown       Kind = "torn_down"
	KindReleased       Kind = "released"
	KindNotInitialized Kind = "not_initialized"
	KindInvalidInput   Kind = "invalid_input"
	KindExhausted      Kind = "exhausted"
	KindNotFound       Kind = "not_found"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the component path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Contract creates a contract violation error. Contract violations are
// host-integration bugs and are raised by panicking with this error.
func Contract(phase Phase, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindContract,
		Detail: detail,
	}
}

// Rejected creates a submission rejection error
func Rejected(phase Phase, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRejected,
		Detail: detail,
		Cause:  cause,
	}
}

// TornDown creates an error for operations against a torn-down environment
func TornDown(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTornDown,
		Detail: what,
	}
}

// Released creates an error for calls against a fully released handle
func Released(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReleased,
		Detail: what,
	}
}

// NotInitialized creates an error for use before initialization
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: what + " not initialized",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not found error
func NotFound(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   path,
		Detail: fmt.Sprintf("%s not found", what),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
