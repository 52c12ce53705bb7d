// Package git provides an abstraction for the git operations used by the
// pre-commit hook.
package git

import "context"

// Git defines git operations needed by fmguard.
type Git interface {
	// StagedFiles returns the added, copied, modified and renamed files in the
	// index, relative to the repository root.
	StagedFiles(ctx context.Context, dir string) ([]string, error)
	// UnstagedFiles returns files whose working tree copy differs from the
	// index, relative to the repository root.
	UnstagedFiles(ctx context.Context, dir string) ([]string, error)
	// StagedContent returns the index version of path, relative to dir.
	StagedContent(ctx context.Context, dir, path string) ([]byte, error)
	// Add stages paths in dir.
	Add(ctx context.Context, dir string, paths ...string) error
	// RepoRoot returns the top level directory of the repository containing dir.
	RepoRoot(ctx context.Context, dir string) (string, error)
	// Version returns the output of git --version.
	Version(ctx context.Context) (string, error)
}
