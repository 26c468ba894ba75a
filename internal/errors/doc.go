// Package apperrors defines structured application error types for the
// summation benchmark, separating bad input (invalid arguments, malformed
// dataset lines) from execution failures and from integrity mismatches
// between the sequential and parallel totals.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Every type that carries a cause implements Unwrap() so that errors.Is() and
// errors.As() see through it.
package apperrors
