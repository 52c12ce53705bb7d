package iojson

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]int{"files": 2}))
	assert.Equal(t, "{\n  \"files\": 2\n}\n", buf.String())
}

func TestWrite_Unencodable(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode json")
	assert.Empty(t, buf.String())
}

func TestNewError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantFields map[string]string
	}{
		{
			name: "plain error",
			err:  errors.New("content dir src/content: not found"),
		},
		{
			name:       "field errors",
			err:        criterio.NewFieldErrors("content_dir", errors.New("does not exist")),
			wantFields: map[string]string{"content_dir": "does not exist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewError(tt.err)
			assert.Equal(t, tt.err.Error(), got.Error)
			assert.Equal(t, tt.wantFields, got.Fields)
		})
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, errors.New("boom")))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}
