// Package httpserver wraps net/http's Server with environment-driven
// configuration, graceful shutdown on context cancellation or SIGINT/SIGTERM,
// and structured logging of lifecycle events.
package httpserver
