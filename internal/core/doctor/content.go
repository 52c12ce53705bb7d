package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/fmguard/internal/core/content"
	"github.com/colonyops/fmguard/internal/core/fix"
)

// ContentCheck verifies that the content directory exists, holds markdown
// files and counts the files fmguard fix would rewrite.
type ContentCheck struct {
	scanner *content.Scanner
	fixer   *fix.Fixer
}

// NewContentCheck creates a new content check.
func NewContentCheck(scanner *content.Scanner, fixer *fix.Fixer) *ContentCheck {
	return &ContentCheck{scanner: scanner, fixer: fixer}
}

func (c *ContentCheck) Name() string {
	return "Content"
}

func (c *ContentCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}
	dir := c.scanner.ContentDir()

	files, err := c.scanner.Discover()
	switch {
	case content.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  dir,
			Status: StatusFail,
			Detail: "directory does not exist",
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  dir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case len(files) == 0:
		result.Items = append(result.Items, CheckItem{
			Label:  dir,
			Status: StatusWarn,
			Detail: "no files match the configured patterns",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  dir,
		Status: StatusPass,
		Detail: fmt.Sprintf("%d file(s)", len(files)),
	})

	for _, f := range files {
		data, err := os.ReadFile(c.scanner.Abs(f))
		if err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  f,
				Status: StatusFail,
				Detail: fmt.Sprintf("unreadable: %v", err),
			})
			continue
		}

		out := c.fixer.Fix(data)
		if out.Err == nil && out.Changed() {
			result.Items = append(result.Items, CheckItem{
				Label:   f,
				Status:  StatusWarn,
				Detail:  fmt.Sprintf("%d auto-fixable change(s)", len(out.Changes)),
				Fixable: true,
			})
		}
	}

	return result
}
