// Package errors provides the structured error type shared by depengine
// packages. Errors carry a machine-readable code, a human-readable message,
// optional details and an HTTP status used by the inspect endpoints.
package errors
