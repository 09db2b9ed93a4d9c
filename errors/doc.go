// Package errors provides structured error types for mxpack.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the value path, host class and wire kind names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("config", "gains", "[2]").
//		HostType("cell").
//		Detail("nil element").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NoDecoder(path, "extension")
//	err := errors.Malformed(errors.PhaseDecode, 0, cause)
//
// Callers that only need to tell "unknown type" from "malformed bytes" can use
// IsDispatch and IsMalformed. All errors support errors.Is/As.
package errors
