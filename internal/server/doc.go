// Package server implements the core HTTP and WebSocket functionality of the
// GoQuiz service.
//
// The implementation is organized into specialized files for the upgrade and
// health handlers, the per-connection session dispatcher, origin validation,
// routing, and server lifecycle to keep the codebase maintainable and
// testable as the project grows.
package server
