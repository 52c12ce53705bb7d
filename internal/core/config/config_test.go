package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/fmguard/internal/core/schema"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(DefaultFileName, root)
	require.NoError(t, err)

	assert.Equal(t, "src/content", cfg.ContentDir)
	assert.Equal(t, []string{"**/*.md"}, cfg.Patterns)
	assert.Equal(t, "git", cfg.GitPath)
	assert.Equal(t, 25, cfg.Drive.MinIDLength)
	assert.Equal(t, "tokyo-night", cfg.Theme)
	assert.True(t, cfg.Drive.RewriteEnabled())
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "src/content"), cfg.ContentPath())

	require.Contains(t, cfg.Components, "ProgramPage")
	assert.Len(t, cfg.Components["ProgramPage"].Required, 11)
}

func TestLoad_FromFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
content_dir: content
patterns: ["**/*.md", "**/*.mdx"]
exclude: ["drafts/**"]
languages: [en, es]
strict_components: true
theme: gruvbox
drive:
  rewrite: false
components:
  AboutPage:
    required: [title, language]
    body: required
`)

	cfg, err := Load(DefaultFileName, root)
	require.NoError(t, err)

	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, []string{"**/*.md", "**/*.mdx"}, cfg.Patterns)
	assert.Equal(t, []string{"drafts/**"}, cfg.Exclude)
	assert.Equal(t, []string{"en", "es"}, cfg.Languages)
	assert.True(t, cfg.StrictComponents)
	assert.Equal(t, "gruvbox", cfg.Theme)
	assert.False(t, cfg.Drive.RewriteEnabled())
	assert.Equal(t, 25, cfg.Drive.MinIDLength, "zero value falls back to default")
	assert.Equal(t, root, cfg.ConfigDir)

	require.Contains(t, cfg.Components, "ProgramPage", "built-ins survive user components")
	about := cfg.Components["AboutPage"]
	assert.Equal(t, "AboutPage", about.Name)
	assert.Equal(t, schema.BodyRequired, about.Body)
}

func TestLoad_ContentDirIsRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "content_dir: .\n")

	cfg, err := Load(DefaultFileName, root)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.ContentDir)
	assert.Equal(t, root, cfg.ContentPath())
}

func TestLoad_OverridesBuiltin(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
components:
  ProgramPage:
    required: [title]
`)

	cfg, err := Load(DefaultFileName, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, cfg.Components["ProgramPage"].Required)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "content_dir: [", "parse config file"},
		{"absolute content dir", "content_dir: /abs", "must be relative"},
		{"content dir outside root", "content_dir: ../site/content", "outside the project root"},
		{"content dir parent", "content_dir: src/..//..", "outside the project root"},
		{"bad pattern", "patterns: ['[']", "invalid glob"},
		{"bad exclude", "exclude: ['a/[']", "invalid glob"},
		{"negative id length", "drive:\n  min_id_length: -1", "min_id_length"},
		{"empty language", "languages: ['']", "languages[0]"},
		{"unknown theme", "theme: neon", "theme \"neon\""},
		{"bad field type", "components:\n  P:\n    types: {title: date}", "invalid type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, tt.content)

			_, err := Load(DefaultFileName, root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Registry(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "about.json"), []byte(`{"type":"object"}`), 0o644))
	writeConfig(t, root, `
components:
  AboutPage:
    required: [title]
    schema_file: about.json
`)

	cfg, err := Load(DefaultFileName, root)
	require.NoError(t, err)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"AboutPage", "ProgramPage"}, reg.Names())

	about, ok := reg.Lookup("AboutPage")
	require.True(t, ok)
	assert.True(t, about.HasJSONSchema())
}
