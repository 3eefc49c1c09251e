// Package errs provides the shared error types of the ordering service.
//
// Every type follows the same shape:
//   - a sentinel error (ErrValueIsRequired, ErrValueIsInvalid, ErrObjectNotFound)
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without cause
//   - Unwrap returning the sentinel, so callers match with errors.Is
//
// Workflow-specific failures (stale state, forbidden transition, terminal order)
// are not defined here; they belong to the order domain model.
package errs
