// Package errors provides the classified error primitives used across mdrender.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, tokenize, render, cache, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - HTTP and CLI adapters for error presentation
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryRender, "render failed").
//		WithContext("document", path).
//		Build()
package errors
