// Package config handles configuration loading and validation for fmguard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/fmguard/internal/core/schema"
	"github.com/colonyops/fmguard/internal/core/styles"
)

// DefaultFileName is the config file looked up in the project root.
const DefaultFileName = ".fmguard.yaml"

// Config holds the application configuration.
type Config struct {
	ContentDir       string                      `yaml:"content_dir"`
	Patterns         []string                    `yaml:"patterns"`
	Exclude          []string                    `yaml:"exclude"`
	Languages        []string                    `yaml:"languages"`
	StrictComponents bool                        `yaml:"strict_components"`
	StrictYAML       bool                        `yaml:"strict_yaml"`
	ForbidBodyH1     bool                        `yaml:"forbid_body_h1"`
	GitPath          string                      `yaml:"git_path"`
	Theme            string                      `yaml:"theme"`
	Drive            DriveConfig                 `yaml:"drive"`
	Components       map[string]schema.Component `yaml:"components"`
	Root             string                      `yaml:"-"` // set by caller, not from config file
	ConfigDir        string                      `yaml:"-"` // directory schema_file paths resolve against
}

// DriveConfig controls the audio_source Google Drive rules.
type DriveConfig struct {
	// Rewrite enables the share-link to direct-download rewrite in fix.
	// nil means enabled.
	Rewrite     *bool `yaml:"rewrite"`
	MinIDLength int   `yaml:"min_id_length"`
}

// RewriteEnabled reports whether fix rewrites Drive links.
func (d DriveConfig) RewriteEnabled() bool {
	return d.Rewrite == nil || *d.Rewrite
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ContentDir: "src/content",
		Patterns:   []string{"**/*.md"},
		GitPath:    "git",
		Theme:      styles.DefaultTheme,
		Drive: DriveConfig{
			MinIDLength: 25,
		},
		Components: schema.Builtin(),
	}
}

// Load reads configuration from configPath and sets the project root. A
// relative configPath is resolved against root. If the file doesn't exist,
// defaults are returned.
func Load(configPath, root string) (*Config, error) {
	cfg := DefaultConfig()
	configPath = ResolvePath(configPath, root)

	var user map[string]schema.Component
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			cfg.Components = nil
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
			user = cfg.Components
		}
	}

	cfg.Root = root
	cfg.ConfigDir = root
	if configPath != "" {
		cfg.ConfigDir = filepath.Dir(configPath)
	}

	// User components override built-ins with the same name
	cfg.Components = mergeComponents(schema.Builtin(), user)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ResolvePath joins a relative config path to root.
func ResolvePath(configPath, root string) string {
	if configPath != "" && !filepath.IsAbs(configPath) {
		return filepath.Join(root, configPath)
	}
	return configPath
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.ContentDir == "" {
		c.ContentDir = defaults.ContentDir
	}
	if len(c.Patterns) == 0 {
		c.Patterns = defaults.Patterns
	}
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Drive.MinIDLength == 0 {
		c.Drive.MinIDLength = defaults.Drive.MinIDLength
	}
	if c.Root == "" {
		c.Root = "."
	}
}

// mergeComponents merges user component schemas into defaults.
// User schemas replace defaults with the same name.
func mergeComponents(defaults, user map[string]schema.Component) map[string]schema.Component {
	result := make(map[string]schema.Component, len(defaults)+len(user))

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range user {
		v.Name = k
		result[k] = v
	}

	return result
}

// Validate checks that the configuration is structurally valid. It does not
// touch the filesystem; see ValidateDeep.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}

	if filepath.IsAbs(c.ContentDir) {
		return fmt.Errorf("content_dir must be relative to the project root")
	}

	if clean := filepath.ToSlash(filepath.Clean(c.ContentDir)); clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("content_dir %q is outside the project root", c.ContentDir)
	}

	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("theme %q is not one of %s", c.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	if c.Drive.MinIDLength < 1 {
		return fmt.Errorf("drive.min_id_length must be at least 1")
	}

	for i, p := range c.Patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("patterns[%d]: invalid glob %q", i, p)
		}
	}

	for i, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("exclude[%d]: invalid glob %q", i, p)
		}
	}

	for i, lang := range c.Languages {
		if lang == "" {
			return fmt.Errorf("languages[%d] cannot be empty", i)
		}
	}

	for name, comp := range c.Components {
		comp.Name = name
		if err := comp.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ContentPath returns the content directory joined to the project root.
func (c *Config) ContentPath() string {
	return filepath.Join(c.Root, c.ContentDir)
}

// Registry builds the component schema registry and compiles any JSON
// Schema files it references.
func (c *Config) Registry() (*schema.Registry, error) {
	reg := schema.NewRegistry(c.Components)
	if err := reg.Load(c.ConfigDir); err != nil {
		return nil, fmt.Errorf("load component schemas: %w", err)
	}
	return reg, nil
}
