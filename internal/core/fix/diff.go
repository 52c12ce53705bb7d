package fix

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between the original and fixed content of path.
// It returns "" when the two are equal.
func Diff(path string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  2,
	}

	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return out, nil
}
