// Package schema defines component schemas: the required and optional
// frontmatter fields of a content component such as ProgramPage.
package schema

import (
	"fmt"
	"slices"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldType is the expected kind of a field value.
type FieldType string

const (
	TypeAny    FieldType = "any"
	TypeString FieldType = "string"
	TypeBool   FieldType = "bool"
	TypeInt    FieldType = "int"
	TypeArray  FieldType = "array"
)

// IsValid checks if the field type is a supported type.
func (ft FieldType) IsValid() bool {
	switch ft {
	case TypeAny, TypeString, TypeBool, TypeInt, TypeArray:
		return true
	default:
		return false
	}
}

// BodyPolicy controls whether a component expects markdown after the block.
type BodyPolicy string

const (
	BodyOptional  BodyPolicy = "optional"
	BodyRequired  BodyPolicy = "required"
	BodyForbidden BodyPolicy = "forbidden"
)

func (bp BodyPolicy) IsValid() bool {
	switch bp {
	case "", BodyOptional, BodyRequired, BodyForbidden:
		return true
	default:
		return false
	}
}

// Component is the schema of one component type.
type Component struct {
	Name       string               `yaml:"-" json:"name"`
	Required   []string             `yaml:"required" json:"required"`
	Optional   []string             `yaml:"optional" json:"optional,omitempty"`
	Types      map[string]FieldType `yaml:"types" json:"types,omitempty"`
	Body       BodyPolicy           `yaml:"body" json:"body,omitempty"`
	SchemaFile string               `yaml:"schema_file" json:"schema_file,omitempty"`

	compiled *jsonschema.Schema
}

// ProgramPage is the built-in schema for radio program pages.
func ProgramPage() Component {
	return Component{
		Name: "ProgramPage",
		Required: []string{
			"language", "title", "slug", "id", "component", "public",
			"program_order", "schedule", "talent", "social", "logo",
		},
		Optional: []string{
			"description", "audio_source", "cover", "tags", "website",
			"email", "twitch_channel", "draft",
		},
		Types: map[string]FieldType{
			"public":        TypeBool,
			"program_order": TypeInt,
			"social":        TypeArray,
			"tags":          TypeArray,
			"draft":         TypeBool,
		},
		Body: BodyOptional,
	}
}

// Builtin returns the schemas that exist without any configuration.
func Builtin() map[string]Component {
	pp := ProgramPage()
	return map[string]Component{pp.Name: pp}
}

// Known reports whether field is declared as required or optional.
func (c *Component) Known(field string) bool {
	return slices.Contains(c.Required, field) || slices.Contains(c.Optional, field)
}

// TypeOf returns the declared type of field, TypeAny when undeclared.
func (c *Component) TypeOf(field string) FieldType {
	if t, ok := c.Types[field]; ok && t != "" {
		return t
	}
	return TypeAny
}

// BodyPolicy returns the body policy, defaulting to optional.
func (c *Component) BodyPolicy() BodyPolicy {
	if c.Body == "" {
		return BodyOptional
	}
	return c.Body
}

// Validate checks the schema definition itself.
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("component name is required")
	}

	seen := make(map[string]bool)
	for _, f := range append(slices.Clone(c.Required), c.Optional...) {
		if f == "" {
			return fmt.Errorf("component %q: empty field name", c.Name)
		}
		if seen[f] {
			return fmt.Errorf("component %q: field %q listed twice", c.Name, f)
		}
		seen[f] = true
	}

	for f, t := range c.Types {
		if !t.IsValid() {
			return fmt.Errorf("component %q: field %q: invalid type %q", c.Name, f, t)
		}
	}

	if !c.Body.IsValid() {
		return fmt.Errorf("component %q: invalid body policy %q", c.Name, c.Body)
	}

	return nil
}

// Registry looks up component schemas by name.
type Registry struct {
	components map[string]*Component
}

// NewRegistry builds a registry from name -> schema pairs. The map key wins
// over the Name field.
func NewRegistry(components map[string]Component) *Registry {
	r := &Registry{components: make(map[string]*Component, len(components))}
	for name, c := range components {
		c.Name = name
		r.components[name] = &c
	}
	return r
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Names returns the sorted component names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load compiles the JSON Schema files of every registered component.
func (r *Registry) Load(baseDir string) error {
	for _, name := range r.Names() {
		if err := r.components[name].Load(baseDir); err != nil {
			return err
		}
	}
	return nil
}
