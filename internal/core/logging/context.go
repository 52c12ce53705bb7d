package logging

import "context"

type contextKey string

const (
	fileKey    contextKey = "file"
	commandKey contextKey = "command"
)

// WithFile adds the content file being processed to the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, path)
}

// WithCommand adds the CLI command name to the context.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey, name)
}

// GetFile retrieves the file path from the context.
// Returns empty string if not present.
func GetFile(ctx context.Context) string {
	if p, ok := ctx.Value(fileKey).(string); ok {
		return p
	}
	return ""
}

// GetCommand retrieves the command name from the context.
// Returns empty string if not present.
func GetCommand(ctx context.Context) string {
	if name, ok := ctx.Value(commandKey).(string); ok {
		return name
	}
	return ""
}
