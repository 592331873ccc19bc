// Package errors provides structured error types for the smallany module.
//
// Errors are categorized by Phase (which operation failed) and Kind (error category).
// The Error type carries the requested and stored type names, a field path for
// shape catalogs, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAccess, errors.KindTypeMismatch).
//		Type("int32").
//		Stored("string").
//		Detail("checked access").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseAccess, "int32", "string")
//	err := errors.AllocationFailed(errors.PhaseConstruct, "main.big", 128, 8)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind only, so a bare &Error{Phase: p, Kind: k} works
// as a sentinel.
package errors
