package doctor

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/colonyops/fmguard/internal/core/git"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that git is available and that the project root is a
// repository, which the pre-commit command needs.
type ToolsCheck struct {
	gitPath string
	git     git.Git
	root    string
}

// NewToolsCheck creates a new tools check.
func NewToolsCheck(gitPath string, g git.Git, root string) *ToolsCheck {
	return &ToolsCheck{gitPath: gitPath, git: g, root: root}
}

func (c *ToolsCheck) Name() string {
	return "Dependencies"
}

func (c *ToolsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	path, err := lookPathFunc(c.gitPath)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "git",
			Status: StatusFail,
			Detail: fmt.Sprintf("%s not found on PATH", c.gitPath),
		})
		return result
	}

	detail := path
	if v, err := c.git.Version(ctx); err == nil {
		detail = fmt.Sprintf("%s (%s)", path, v)
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "git",
		Status: StatusPass,
		Detail: detail,
	})

	if root, err := c.git.RepoRoot(ctx, c.root); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "repository",
			Status: StatusWarn,
			Detail: "not a git repository (pre-commit unavailable)",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "repository",
			Status: StatusPass,
			Detail: root,
		})
	}

	return result
}
