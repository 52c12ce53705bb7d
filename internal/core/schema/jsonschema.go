package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Violation is a single JSON Schema failure. Pointer is the instance location
// ("/title", or "" for the whole block).
type Violation struct {
	Pointer string
	Message string
}

// CompileFile compiles a JSON Schema document from disk.
func CompileFile(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	url := "file://" + filepath.ToSlash(path)
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", path, err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return compiled, nil
}

// Load compiles SchemaFile, resolved against baseDir when relative. A
// component without a schema file is left untouched.
func (c *Component) Load(baseDir string) error {
	if c.SchemaFile == "" {
		return nil
	}

	path := c.SchemaFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	compiled, err := CompileFile(path)
	if err != nil {
		return fmt.Errorf("component %q: %w", c.Name, err)
	}
	c.compiled = compiled
	return nil
}

// HasJSONSchema reports whether a compiled JSON Schema is attached.
func (c *Component) HasJSONSchema() bool {
	return c.compiled != nil
}

// Check validates fields against the attached JSON Schema.
func (c *Component) Check(fields map[string]any) ([]Violation, error) {
	if c.compiled == nil {
		return nil, nil
	}

	instance, err := toJSONValue(fields)
	if err != nil {
		return nil, err
	}

	err = c.compiled.Validate(instance)
	if err == nil {
		return nil, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validate %s: %w", c.Name, err)
	}
	return collectViolations(verr), nil
}

// toJSONValue round trips through encoding/json so integers reach the
// validator as json.Number.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return out, nil
}

func collectViolations(err *jsonschema.ValidationError) []Violation {
	var out []Violation

	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			out = append(out, Violation{
				Pointer: strings.TrimSpace(node.InstanceLocation),
				Message: strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)

	return out
}
