package fmguard

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// StagedContentFiles lists staged files that live under the content directory
// and match the configured patterns, relative to the project root.
func (a *App) StagedContentFiles(ctx context.Context) ([]string, error) {
	repoRoot, err := a.Git.RepoRoot(ctx, a.Config.Root)
	if err != nil {
		return nil, err
	}

	staged, err := a.Git.StagedFiles(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	rel, err := a.projectRelative(repoRoot, staged)
	if err != nil {
		return nil, err
	}

	files := a.Scanner.Filter(rel)
	a.log.Debug().Ctx(ctx).Int("staged", len(staged)).Int("content", len(files)).Msg("staged files")
	return files, nil
}

// PartiallyStaged returns the paths that also have unstaged changes. Fixing
// and re-staging such a file would commit those changes too.
func (a *App) PartiallyStaged(ctx context.Context, paths []string) ([]string, error) {
	repoRoot, err := a.Git.RepoRoot(ctx, a.Config.Root)
	if err != nil {
		return nil, err
	}

	unstaged, err := a.Git.UnstagedFiles(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	rel, err := a.projectRelative(repoRoot, unstaged)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, p := range paths {
		if slices.Contains(rel, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// projectRelative maps repository relative paths to project relative ones,
// dropping paths outside the project root.
func (a *App) projectRelative(repoRoot string, paths []string) ([]string, error) {
	projectRoot, err := resolveDir(a.Config.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	repoRoot, err = resolveDir(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve repository root: %w", err)
	}

	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(projectRoot, filepath.Join(repoRoot, filepath.FromSlash(p)))
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			continue
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel, nil
}

// Restage adds fixed files back to the index.
func (a *App) Restage(ctx context.Context, paths []string) error {
	return a.Git.Add(ctx, a.Config.Root, paths...)
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
