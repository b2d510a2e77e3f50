package ports

// Logger defines the interface for structured logging.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	// Info logs an informational message with slog-style key/value args.
	Info(msg string, args ...any)
	// Warn logs a warning with slog-style key/value args. Merge
	// collision diagnostics go through here.
	Warn(msg string, args ...any)
	// Error logs an error.
	Error(err error)
}
