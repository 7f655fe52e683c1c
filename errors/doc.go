// Package errors provides structured error types for the wasm-encoder library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the field path, the section being encoded and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindOverflow).
//		Section("data").
//		Detail("body length %d exceeds u32", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Overflow(errors.PhaseEncode, nil, n, "u32")
//	err := errors.InvalidEnum(errors.PhaseValidate, path, "bogus", "data mode")
//
// Encoding failures that the binary format cannot represent (lengths and counts
// beyond u32, malformed offset instructions) are raised as panics carrying an *Error,
// so they can be recovered and inspected with errors.As. The section or container
// that panicked keeps the bytes it had before the failing call, and Section names
// where the failure happened. Everything else is returned.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
