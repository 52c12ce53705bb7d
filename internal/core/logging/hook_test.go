package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want map[string]string
	}{
		{
			name: "command and file",
			ctx:  WithFile(WithCommand(context.Background(), "validate"), "src/content/a.md"),
			want: map[string]string{"command": "validate", "file": "src/content/a.md"},
		},
		{
			name: "only file",
			ctx:  WithFile(context.Background(), "src/content/a.md"),
			want: map[string]string{"file": "src/content/a.md"},
		},
		{
			name: "no values",
			ctx:  context.Background(),
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("checked")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, key := range []string{"command", "file"} {
				want, ok := tt.want[key]
				if !ok {
					assert.NotContains(t, entry, key)
					continue
				}
				assert.Equal(t, want, entry[key])
			}
		})
	}
}
