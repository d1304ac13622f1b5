// Package logger builds configured slog loggers. Production gets JSON
// output at info level for log aggregation; development gets text output
// at debug level. Every record carries the service name.
package logger
