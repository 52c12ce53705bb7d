package validate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	fm "github.com/colonyops/fmguard/internal/core/frontmatter"
)

// crossCheckYAML decodes the block with a real YAML parser, the same way the
// site build reads it, and reports where the two readings disagree.
func crossCheckYAML(content []byte, doc *fm.Document) []Issue {
	var meta map[string]any
	if _, err := frontmatter.Parse(bytes.NewReader(fm.Normalize(content)), &meta); err != nil {
		return []Issue{{
			Code:     CodeYAMLInvalid,
			Severity: SeverityError,
			Message:  fmt.Sprintf("frontmatter is not valid YAML: %v", err),
		}}
	}

	var issues []Issue
	for _, line := range doc.Fields() {
		yv, ok := meta[line.Key]
		if !ok {
			continue
		}

		got := yamlKind(yv)
		want := line.Value.Kind.String()
		if line.Value.Kind == fm.KindEmpty && got == "string" {
			continue
		}
		if got != want {
			issues = append(issues, Issue{
				Code:     CodeYAMLMismatch,
				Severity: SeverityWarning,
				Line:     line.Number,
				Field:    line.Key,
				Message:  fmt.Sprintf("field %q reads as %s here but YAML parses it as %s", line.Key, want, got),
			})
		}
	}
	return issues
}

func yamlKind(v any) string {
	switch v.(type) {
	case nil:
		return fm.KindEmpty.String()
	case bool:
		return fm.KindBool.String()
	case int, int64, uint64:
		return fm.KindInt.String()
	case []any:
		return fm.KindArray.String()
	case string, time.Time:
		return fm.KindString.String()
	case float64:
		return "float"
	default:
		return "map"
	}
}
