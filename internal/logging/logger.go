// Package logging is the logging facade of the reputation client. Services
// depend on Logger only; New picks the slog or zap backend from config.
package logging

import "context"

// Logger takes a message plus alternating key and value arguments:
//
//	log.Info(ctx, "rating submitted", "subject", id, "hash", hash)
//
// ctx is forwarded to backends that can use it (slog handlers); the zap
// backend ignores it.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With binds args to every entry of the returned logger, e.g. the
	// module name or a submission's correlation id.
	With(args ...any) Logger
}
