// Package logging builds the application's slog loggers and attaches
// request-scoped fields.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("vote recorded")
//	}
package logging
