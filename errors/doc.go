// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, script-side
// kind, managed-side type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseToManaged, errors.KindUnrecognizedObject).
//		ScriptKind("object").
//		Detail("no dispatch rule matched").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unsupported(errors.PhaseToManaged, "symbol")
//	err := errors.Measurement(cause)
//
// The failure taxonomy matters to callers: KindUnsupported outcomes are
// non-fatal (the value is dropped with a diagnostic), while
// KindUnrecognizedObject is fatal to the conversion call. IsKind tells
// them apart without string matching.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
