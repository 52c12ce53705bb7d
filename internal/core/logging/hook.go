package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the command and file from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}

	if path := GetFile(ctx); path != "" {
		e.Str("file", path)
	}
}
