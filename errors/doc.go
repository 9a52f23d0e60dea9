// Package errors provides the structured error type shared by every tabkit
// package. Each failure carries a machine-readable code, a human-readable
// message, optional diagnostic details, and the HTTP status the server
// layer maps it to.
//
// Stream failures are never retried: a row that is too long or a column
// that cannot be resolved ends the current pass.
package errors
