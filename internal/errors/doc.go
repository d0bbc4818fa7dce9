// Package errors defines error types for the dunnet wrapper.
//
// Spawn and write failures are surfaced to callers as structured types that
// support unwrapping, so they can be checked with errors.Is, errors.As and
// errors.AsType. Read failures on the child's output never appear here: they
// end the session with a Done frame instead.
package errors
