package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/fmguard/internal/core/schema"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including the content directory, git executable and JSON Schema files. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateSchemaFiles(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	for _, name := range c.componentNames() {
		comp := c.Components[name]
		if len(comp.Required) == 0 && len(comp.Optional) == 0 && comp.SchemaFile == "" {
			warnings = append(warnings, ValidationWarning{
				Category: "Components",
				Item:     name,
				Message:  "component declares no fields and no schema_file",
			})
		}
		for field := range comp.Types {
			if !comp.Known(field) {
				warnings = append(warnings, ValidationWarning{
					Category: "Components",
					Item:     name,
					Message:  fmt.Sprintf("type declared for unlisted field %q", field),
				})
			}
		}
	}

	if !c.Drive.RewriteEnabled() {
		warnings = append(warnings, ValidationWarning{
			Category: "Drive",
			Message:  "share-link rewrite disabled; fix will leave audio_source untouched",
		})
	}

	return warnings
}

// validateFileAccess checks config file, content directory, and git executable.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("content_dir", c.ContentPath(), isDirectory),
		criterio.Run("git_path", c.GitPath, gitExecutableExists),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// isDirectory validates that a path exists and is a directory.
func isDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateSchemaFiles checks that every referenced JSON Schema compiles.
func (c *Config) validateSchemaFiles() error {
	var errs criterio.FieldErrorsBuilder
	for _, name := range c.componentNames() {
		comp := c.Components[name]
		if comp.SchemaFile == "" {
			continue
		}

		path := comp.SchemaFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.ConfigDir, path)
		}

		if _, err := schema.CompileFile(path); err != nil {
			errs = errs.Append(fmt.Sprintf("components[%q].schema_file", name), err)
		}
	}
	return errs.ToError()
}

func (c *Config) componentNames() []string {
	names := make([]string, 0, len(c.Components))
	for name := range c.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
