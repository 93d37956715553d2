// Package errors provides structured error types for the gOASper conversion engine.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). The Error type carries the context a caller needs
// to locate the failure in the source file: stream offset, record name, cell
// name, and element index.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseParse, errors.KindMalformedStructure).
//		Record("BOUNDARY").
//		Offset(off).
//		Detail("element record outside any open structure").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Truncated(off, want, got)
//	err := errors.Cyclic([]string{"A", "B", "A"})
//
// All errors implement the standard error interface. Category matching works
// through errors.Is against the exported sentinels:
//
//	if errors.Is(err, goaspererrors.ErrTruncatedStream) { ... }
package errors
