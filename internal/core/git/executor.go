package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/fmguard/pkg/executil"
)

// Executor implements Git using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

var _ Git = (*Executor)(nil)

// NewExecutor creates a new git executor with the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

func (e *Executor) StagedFiles(ctx context.Context, dir string) ([]string, error) {
	// -z prints paths verbatim, without core.quotePath escaping
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "diff", "--cached", "--name-only", "-z", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("list staged files: %w", err)
	}
	return parseNameOnly(string(out)), nil
}

func (e *Executor) UnstagedFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "diff-files", "--name-only", "-z")
	if err != nil {
		return nil, fmt.Errorf("list unstaged files: %w", err)
	}
	return parseNameOnly(string(out)), nil
}

func (e *Executor) StagedContent(ctx context.Context, dir, path string) ([]byte, error) {
	// ":./" resolves path against dir instead of the repository root
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "show", ":./"+path)
	if err != nil {
		return nil, fmt.Errorf("read staged %s: %w", path, err)
	}
	return out, nil
}

func (e *Executor) Add(ctx context.Context, dir string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, paths...)
	if _, err := e.exec.RunDir(ctx, dir, e.gitPath, args...); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	return nil
}

func (e *Executor) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}

	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", fmt.Errorf("git rev-parse: empty repository root")
	}
	return root, nil
}

func (e *Executor) Version(ctx context.Context) (string, error) {
	out, err := e.exec.Run(ctx, e.gitPath, "--version")
	if err != nil {
		return "", fmt.Errorf("git --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// parseNameOnly splits NUL terminated git --name-only -z output. Paths are
// kept byte for byte, including spaces.
func parseNameOnly(output string) []string {
	var paths []string
	for _, p := range strings.Split(output, "\x00") {
		if p == "" {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}
