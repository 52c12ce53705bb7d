// Package content finds the markdown files fmguard checks.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every markdown file below the content directory.
const DefaultPattern = "**/*.md"

// Scanner globs files below root/contentDir. Patterns are relative to the
// content directory; returned paths are relative to root and slash separated.
type Scanner struct {
	root       string
	contentDir string
	patterns   []string
	exclude    []string
}

func NewScanner(root, contentDir string, patterns, exclude []string) *Scanner {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	return &Scanner{
		root:       root,
		contentDir: path.Clean(filepath.ToSlash(contentDir)),
		patterns:   patterns,
		exclude:    exclude,
	}
}

// ContentDir returns the slash separated content directory, relative to root.
func (s *Scanner) ContentDir() string {
	return s.contentDir
}

// Abs returns the filesystem path of a root relative file.
func (s *Scanner) Abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Discover returns every file matching patterns (or the configured patterns
// when none are given) minus the excluded ones. A pattern may also be written
// relative to root, with the content directory as prefix.
func (s *Scanner) Discover(patterns ...string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = s.patterns
	}

	dir := s.Abs(s.contentDir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir %s: %w", s.contentDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s: not a directory", s.contentDir)
	}

	fsys := os.DirFS(dir)
	seen := make(map[string]bool)
	var files []string

	for _, p := range patterns {
		p = s.trimContentDir(p)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}

		matches, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}

		for _, m := range matches {
			if seen[m] || s.excluded(m) {
				continue
			}
			seen[m] = true
			files = append(files, path.Join(s.contentDir, m))
		}
	}

	slices.Sort(files)
	return files, nil
}

// Filter keeps the root relative paths that live in the content directory,
// match a configured pattern and are not excluded. Used for git staged files.
func (s *Scanner) Filter(paths []string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, p := range paths {
		p = path.Clean(filepath.ToSlash(p))
		rel, ok := s.relToContent(p)
		if !ok || seen[p] {
			continue
		}
		if !s.matches(rel) || s.excluded(rel) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	slices.Sort(out)
	return out
}

// Exists reports whether the content directory is present.
func (s *Scanner) Exists() bool {
	info, err := os.Stat(s.Abs(s.contentDir))
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (s *Scanner) trimContentDir(p string) string {
	p = filepath.ToSlash(p)
	if s.contentDir == "." {
		return strings.TrimPrefix(p, "./")
	}
	if rel, ok := strings.CutPrefix(p, s.contentDir+"/"); ok {
		return rel
	}
	return p
}

// relToContent converts a clean root relative path to one relative to the
// content directory. ok is false for paths outside it.
func (s *Scanner) relToContent(p string) (string, bool) {
	if p == ".." || strings.HasPrefix(p, "../") || path.IsAbs(p) {
		return "", false
	}
	if s.contentDir == "." {
		return p, true
	}
	return strings.CutPrefix(p, s.contentDir+"/")
}

func (s *Scanner) matches(rel string) bool {
	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(rel string) bool {
	for _, ex := range s.exclude {
		if ok, _ := doublestar.Match(ex, rel); ok {
			return true
		}
	}
	return false
}

// IsNotExist reports whether err came from a missing content directory.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
