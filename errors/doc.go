// Package errors provides structured error types for the extension-host library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: component path, detail message, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSchedule, errors.KindRejected).
//		Path("pool").
//		Detail("work queue closed").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Rejected(errors.PhaseSchedule, cause, "queue async work")
//	err := errors.TornDown(errors.PhaseDispatch, "threadsafe call")
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Contract violations (lifecycle invariants broken by host-integration bugs)
// are fatal: they are raised by panicking with a *Error of KindContract
// rather than returned.
package errors
