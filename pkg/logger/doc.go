// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the toolkit by exposing
// a single factory - New - that creates a *slog.Logger configured by a set of
// Option functions:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a session id) every time Handle is invoked
//
// # Architecture
//
// New builds a decorated slog.Handler: the concrete handler
// (slog.NewTextHandler or slog.NewJSONHandler) is chosen from the configured
// Format, then wrapped with a context-aware handler that executes registered
// ContextExtractor callbacks before delegating to the underlying handler.
//
// Helper constructors such as Error, NotificationID, OrderID and
// ConnectionState live in attr.go and keep attribute naming consistent
// across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithDevelopment("order-sync"),
//	    logger.WithContextValue("session_id", ctxKeySessionID),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "order updated",
//	    logger.OrderID(42),
//	    logger.OrderStatus("delivered"),
//	)
package logger
