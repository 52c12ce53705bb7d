// Package iojson writes machine readable command output.
package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
)

// Error is the JSON shape of a failed command. Fields is set when the error
// carries per-field detail.
type Error struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Write encodes obj as indented JSON followed by a newline.
func Write(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	bits = append(bits, '\n')
	_, err = w.Write(bits)
	return err
}

// WriteError writes err in the Error shape.
func WriteError(w io.Writer, err error) error {
	return Write(w, NewError(err))
}

// NewError converts err, expanding criterio field errors.
func NewError(err error) Error {
	out := Error{Error: err.Error()}

	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		out.Fields = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			out.Fields[fe.Field] = fe.Err.Error()
		}
	}

	return out
}
