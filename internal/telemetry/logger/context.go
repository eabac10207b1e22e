package logger

import "context"

type contextKey string

const (
	loggerKey  contextKey = "rolodex.logger"
	commandKey contextKey = "rolodex.command"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithCommand records the name of the running command in the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// CommandFromContext extracts the running command name.
func CommandFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}

// L is a shorthand for FromContext that also tags entries with the
// running command.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if name := CommandFromContext(ctx); name != "" {
		l = l.With("command", name)
	}
	return l.WithContext(ctx)
}
