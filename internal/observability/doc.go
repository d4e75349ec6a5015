// Package observability groups the logging, metrics and tracing helpers
// shared by the API server, the worker and the CLI.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus collectors for HTTP, database and poll activity
//   - tracing: OpenTelemetry tracer provider and HTTP middleware
package observability
